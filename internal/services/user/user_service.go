package user

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials deliberately covers both "unknown email" and
	// "wrong password" so login responses cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrPasswordMismatch   = errors.New("current password is incorrect")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
)

const minPasswordLength = 8

// dummyHash is compared against when the email is unknown, so both login
// failure modes cost a full bcrypt verification.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// Store is the persistence surface the service needs. *UserRepo satisfies it.
type Store interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, req *CreateUserRequest, passwordHash string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error
	Count(ctx context.Context) (int, error)
}

type UserService struct {
	store Store
}

func NewUserService(store Store) *UserService {
	return &UserService{store: store}
}

// Authenticate resolves email/password to a user record. The hash comparison
// runs even when the caller got the email wrong, so both failure modes cost
// the same and return the same error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			VerifyPassword(password, dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Create registers a new user ensuring email uniqueness
func (s *UserService) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, errors.New("name, email, and password are required")
	}

	if !req.Role.Valid() {
		return nil, fmt.Errorf("invalid role: %s", req.Role)
	}

	if len(req.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.store.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrUserAlreadyExists, req.Email)
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to validate email: %w", err)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.store.Create(ctx, req, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// ChangePassword re-verifies the current password before rewriting the hash.
// A failed verification leaves the stored hash untouched.
func (s *UserService) ChangePassword(ctx context.Context, u *User, currentPassword, newPassword string) error {
	if !VerifyPassword(currentPassword, u.PasswordHash) {
		return ErrPasswordMismatch
	}

	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.store.UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*User, error) {
	return s.store.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.store.GetByEmail(ctx, email)
}

func (s *UserService) List(ctx context.Context) ([]*User, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}
