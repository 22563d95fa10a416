package access

import (
	"context"
	"fmt"

	"github.com/pixelforge/nexus/internal/services/user"
)

// Store is the persistence surface the service needs. *AccessRepo satisfies it.
type Store interface {
	IsLeadOrCreator(ctx context.Context, projectID, userID string) (bool, error)
	IsMemberOrCreator(ctx context.Context, projectID, userID string) (bool, error)
}

// AccessService evaluates per-resource ownership predicates. These are not
// reducible to role: an admin bypasses them entirely, everyone else needs an
// explicit assignment row or creator relationship.
type AccessService struct {
	store Store
}

func NewAccessService(store Store) *AccessService {
	return &AccessService{store: store}
}

// CanManageProject allows admins, the project's creator, and its assigned
// lead. Everyone else gets ErrAccessDenied.
func (s *AccessService) CanManageProject(ctx context.Context, u *user.User, projectID string) error {
	if u == nil {
		return ErrAuthenticationRequired
	}

	if u.Role == user.RoleAdmin {
		return nil
	}

	ok, err := s.store.IsLeadOrCreator(ctx, projectID, u.ID)
	if err != nil {
		return fmt.Errorf("failed to evaluate ownership: %w", err)
	}
	if !ok {
		return ErrAccessDenied
	}

	return nil
}

// CanViewProject allows admins, the project's creator, and anyone assigned
// to the project in either role.
func (s *AccessService) CanViewProject(ctx context.Context, u *user.User, projectID string) error {
	if u == nil {
		return ErrAuthenticationRequired
	}

	if u.Role == user.RoleAdmin {
		return nil
	}

	ok, err := s.store.IsMemberOrCreator(ctx, projectID, u.ID)
	if err != nil {
		return fmt.Errorf("failed to evaluate membership: %w", err)
	}
	if !ok {
		return ErrAccessDenied
	}

	return nil
}
