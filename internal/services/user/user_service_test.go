package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	users  map[string]*User // keyed by email
	nextID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*User{}}
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeUserStore) Create(_ context.Context, req *CreateUserRequest, passwordHash string) (*User, error) {
	f.nextID++
	u := &User{
		ID:           string(rune('a' + f.nextID)),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         req.Role,
	}
	f.users[req.Email] = u
	return u, nil
}

func (f *fakeUserStore) List(_ context.Context) ([]*User, error) {
	out := make([]*User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserStore) UpdatePasswordHash(_ context.Context, id string, passwordHash string) error {
	for _, u := range f.users {
		if u.ID == id {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return ErrUserNotFound
}

func (f *fakeUserStore) Count(_ context.Context) (int, error) {
	return len(f.users), nil
}

func seedUser(t *testing.T, store *fakeUserStore, email, password string, role Role) *User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	u, err := store.Create(context.Background(), &CreateUserRequest{
		Name:     "Test User",
		Email:    email,
		Password: password,
		Role:     role,
	}, hash)
	require.NoError(t, err)
	return u
}

func TestAuthenticate(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store)
	seedUser(t, store, "lead@example.com", "hunter2hunter2", RoleProjectLead)

	u, err := svc.Authenticate(context.Background(), "lead@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, "lead@example.com", u.Email)
	assert.Equal(t, RoleProjectLead, u.Role)
}

func TestAuthenticateFailuresIndistinct(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store)
	seedUser(t, store, "lead@example.com", "hunter2hunter2", RoleProjectLead)

	// Wrong password and unknown email must yield the same error
	_, wrongPw := svc.Authenticate(context.Background(), "lead@example.com", "wrong")
	_, unknown := svc.Authenticate(context.Background(), "nobody@example.com", "wrong")

	assert.ErrorIs(t, wrongPw, ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, ErrInvalidCredentials)
	assert.Equal(t, wrongPw.Error(), unknown.Error())
}

func TestCreateValidation(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store)

	_, err := svc.Create(context.Background(), &CreateUserRequest{
		Name: "No Email", Password: "password123", Role: RoleDeveloper,
	})
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), &CreateUserRequest{
		Name: "Bad Role", Email: "x@example.com", Password: "password123", Role: Role("superuser"),
	})
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), &CreateUserRequest{
		Name: "Short", Email: "y@example.com", Password: "short", Role: RoleDeveloper,
	})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestCreateDuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store)
	seedUser(t, store, "dev@example.com", "password123", RoleDeveloper)

	_, err := svc.Create(context.Background(), &CreateUserRequest{
		Name: "Dup", Email: "dev@example.com", Password: "password123", Role: RoleDeveloper,
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestCreateStoresHashNotPassword(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store)

	created, err := svc.Create(context.Background(), &CreateUserRequest{
		Name: "Dev", Email: "dev@example.com", Password: "password123", Role: RoleDeveloper,
	})
	require.NoError(t, err)

	assert.NotEqual(t, "password123", created.PasswordHash)
	assert.True(t, VerifyPassword("password123", created.PasswordHash))
}

func TestChangePassword(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store)
	u := seedUser(t, store, "dev@example.com", "oldpassword", RoleDeveloper)

	// Wrong current password leaves the hash untouched
	err := svc.ChangePassword(context.Background(), u, "not-the-password", "newpassword1")
	assert.ErrorIs(t, err, ErrPasswordMismatch)
	_, err = svc.Authenticate(context.Background(), "dev@example.com", "oldpassword")
	require.NoError(t, err)

	// Too-short replacement is rejected
	err = svc.ChangePassword(context.Background(), u, "oldpassword", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	// Valid change rotates the credential
	err = svc.ChangePassword(context.Background(), u, "oldpassword", "newpassword1")
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), "dev@example.com", "oldpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(context.Background(), "dev@example.com", "newpassword1")
	assert.NoError(t, err)
}
