package project

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pixelforge/nexus/internal/services/user"
)

var (
	ErrInvalidStatus   = errors.New("invalid project status")
	ErrInvalidDeadline = errors.New("deadline must be a date in YYYY-MM-DD form")
)

const deadlineLayout = "2006-01-02"

// Store is the persistence surface the service needs. *ProjectRepo
// satisfies it.
type Store interface {
	Create(ctx context.Context, name, description string, deadline time.Time, createdBy string) (*Project, error)
	GetByID(ctx context.Context, id string) (*Project, error)
	ListAll(ctx context.Context) ([]*Project, error)
	ListForUser(ctx context.Context, userID string) ([]*Project, error)
	ListAssigned(ctx context.Context, userID string) ([]*AssignedProject, error)
	ListLead(ctx context.Context, userID string) ([]*LeadProject, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	ReplaceDevelopers(ctx context.Context, projectID string, developerIDs []string) error
	ListDevelopers(ctx context.Context, projectID string) ([]*DeveloperOption, error)
	TeamMembers(ctx context.Context, projectID string) ([]*TeamMember, error)
	Stats(ctx context.Context, recentLimit int) (*Stats, error)
}

// ProjectService contains business logic for projects
type ProjectService struct {
	store Store
}

func NewProjectService(store Store) *ProjectService {
	return &ProjectService{store: store}
}

// Create registers a new project on behalf of its creator
func (s *ProjectService) Create(ctx context.Context, req *CreateProjectRequest, createdBy string) (*Project, error) {
	if req.Name == "" || req.Description == "" || req.Deadline == "" {
		return nil, errors.New("name, description, and deadline are required")
	}

	deadline, err := time.Parse(deadlineLayout, req.Deadline)
	if err != nil {
		return nil, ErrInvalidDeadline
	}

	project, err := s.store.Create(ctx, req.Name, req.Description, deadline, createdBy)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

func (s *ProjectService) GetByID(ctx context.Context, id string) (*Project, error) {
	return s.store.GetByID(ctx, id)
}

// ListFor returns the projects visible to the user: admins see everything,
// everyone else sees projects they created or are assigned to.
func (s *ProjectService) ListFor(ctx context.Context, u *user.User) ([]*Project, error) {
	if u.Role == user.RoleAdmin {
		return s.store.ListAll(ctx)
	}
	return s.store.ListForUser(ctx, u.ID)
}

func (s *ProjectService) ListAssigned(ctx context.Context, userID string) ([]*AssignedProject, error) {
	return s.store.ListAssigned(ctx, userID)
}

func (s *ProjectService) ListLead(ctx context.Context, userID string) ([]*LeadProject, error) {
	return s.store.ListLead(ctx, userID)
}

// UpdateStatus validates and applies a status transition
func (s *ProjectService) UpdateStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	if err := s.store.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	return nil
}

// AssignDevelopers replaces the project's developer team with the given
// users. An empty list clears the team.
func (s *ProjectService) AssignDevelopers(ctx context.Context, projectID string, developerIDs []string) error {
	if _, err := s.store.GetByID(ctx, projectID); err != nil {
		return err
	}

	if err := s.store.ReplaceDevelopers(ctx, projectID, developerIDs); err != nil {
		return fmt.Errorf("failed to update assignments: %w", err)
	}

	return nil
}

func (s *ProjectService) ListDevelopers(ctx context.Context, projectID string) ([]*DeveloperOption, error) {
	return s.store.ListDevelopers(ctx, projectID)
}

func (s *ProjectService) TeamMembers(ctx context.Context, projectID string) ([]*TeamMember, error) {
	return s.store.TeamMembers(ctx, projectID)
}

// Stats returns the admin dashboard aggregates
func (s *ProjectService) Stats(ctx context.Context) (*Stats, error) {
	return s.store.Stats(ctx, 5)
}
