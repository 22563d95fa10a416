package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelforge/nexus/internal/services/user"
)

type fakeSessionStore struct {
	sessions map[string]*Session
	users    map[string]*user.User // keyed by user ID
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: map[string]*Session{},
		users:    map[string]*user.User{},
	}
}

func (f *fakeSessionStore) Insert(_ context.Context, s *Session) error {
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessionStore) Get(_ context.Context, token string) (*Session, *user.User, error) {
	s, ok := f.sessions[token]
	if !ok {
		return nil, nil, nil
	}
	return s, f.users[s.UserID], nil
}

func (f *fakeSessionStore) Delete(_ context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func newTestService(store *fakeSessionStore, at time.Time) *SessionService {
	svc := NewSessionService(store)
	svc.now = func() time.Time { return at }
	return svc
}

func TestNewTokenUniqueAndOpaque(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		token, err := NewToken()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(token), 43, "32 random bytes encode to at least 43 chars")
		assert.False(t, seen[token], "token %q repeated", token)
		seen[token] = true
	}
}

func TestCreateAndResolve(t *testing.T) {
	store := newFakeSessionStore()
	store.users["u1"] = &user.User{ID: "u1", Email: "dev@example.com", Role: user.RoleDeveloper}

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(store, start)

	sess, err := svc.Create(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, start.Add(TTL), sess.ExpiresAt)

	u, err := svc.Resolve(context.Background(), sess.ID)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)
}

func TestResolveUnknownToken(t *testing.T) {
	svc := newTestService(newFakeSessionStore(), time.Now())

	u, err := svc.Resolve(context.Background(), "no-such-token")
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = svc.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestResolveExpiryBoundary(t *testing.T) {
	store := newFakeSessionStore()
	store.users["u1"] = &user.User{ID: "u1"}

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(store, start)

	sess, err := svc.Create(context.Background(), "u1")
	require.NoError(t, err)

	// One second before the deadline the session is alive
	svc.now = func() time.Time { return start.Add(TTL - time.Second) }
	u, err := svc.Resolve(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.NotNil(t, u)

	// At the deadline exactly it is expired
	svc.now = func() time.Time { return start.Add(TTL) }
	u, err = svc.Resolve(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Nil(t, u)

	// Expired rows are left in place: expiry is a lookup filter, not a delete
	assert.Contains(t, store.sessions, sess.ID)
}

func TestNoSlidingExpiration(t *testing.T) {
	store := newFakeSessionStore()
	store.users["u1"] = &user.User{ID: "u1"}

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(store, start)

	sess, err := svc.Create(context.Background(), "u1")
	require.NoError(t, err)

	// Resolving repeatedly must not push the deadline out
	svc.now = func() time.Time { return start.Add(TTL / 2) }
	_, err = svc.Resolve(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, start.Add(TTL), store.sessions[sess.ID].ExpiresAt)
}

func TestRevokeIdempotent(t *testing.T) {
	store := newFakeSessionStore()
	store.users["u1"] = &user.User{ID: "u1"}
	svc := newTestService(store, time.Now())

	sess, err := svc.Create(context.Background(), "u1")
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(context.Background(), sess.ID))
	require.NoError(t, svc.Revoke(context.Background(), sess.ID))
	require.NoError(t, svc.Revoke(context.Background(), "never-existed"))
	require.NoError(t, svc.Revoke(context.Background(), ""))

	u, err := svc.Resolve(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Nil(t, u)
}
