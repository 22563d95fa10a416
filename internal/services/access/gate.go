package access

import (
	"errors"
	"slices"

	"github.com/pixelforge/nexus/internal/services/user"
)

var (
	// ErrAuthenticationRequired means no user resolved for the request.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrInsufficientPermissions means the user's role is not in the
	// operation's allow-list.
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	// ErrAccessDenied means the role passed but the user has no qualifying
	// relationship to the specific resource.
	ErrAccessDenied = errors.New("access denied")
)

// RequireRole is the single authorization gate. Every protected operation
// calls it with an explicit allow-list; there is no default-permit and no
// implicit admin bypass. It is pure: no I/O, deterministic in its inputs.
func RequireRole(u *user.User, allowed ...user.Role) (*user.User, error) {
	if u == nil {
		return nil, ErrAuthenticationRequired
	}

	if !slices.Contains(allowed, u.Role) {
		return nil, ErrInsufficientPermissions
	}

	return u, nil
}
