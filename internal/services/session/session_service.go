package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/pixelforge/nexus/internal/services/user"
)

// TTL is the fixed session lifetime. There is no sliding expiration: the
// window is measured from creation and never refreshed on use.
const TTL = 7 * 24 * time.Hour

// tokenBytes gives 256 bits of entropy per token.
const tokenBytes = 32

// CookieName is the single cookie this service reads and writes through the
// HTTP layer.
const CookieName = "session"

// Store is the persistence surface the service needs. *SessionRepo satisfies it.
type Store interface {
	Insert(ctx context.Context, s *Session) error
	Get(ctx context.Context, token string) (*Session, *user.User, error)
	Delete(ctx context.Context, token string) error
}

type SessionService struct {
	store Store
	now   func() time.Time
}

func NewSessionService(store Store) *SessionService {
	return &SessionService{store: store, now: time.Now}
}

// NewToken returns a cryptographically random, URL-safe token.
func NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Create mints a token, persists the session row and returns it. The caller
// is responsible for setting the cookie with the row's expiry.
func (s *SessionService) Create(ctx context.Context, userID string) (*Session, error) {
	token, err := NewToken()
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:        token,
		UserID:    userID,
		ExpiresAt: s.now().Add(TTL),
	}

	if err := s.store.Insert(ctx, sess); err != nil {
		return nil, err
	}

	return sess, nil
}

// Resolve maps a token to its user. Unknown and expired tokens both resolve
// to nil without error; expired rows are left in place (lazy expiry — the
// lookup filter is the only enforcement, and that is deliberate policy).
func (s *SessionService) Resolve(ctx context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, nil
	}

	sess, u, err := s.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}

	if !sess.ExpiresAt.After(s.now()) {
		return nil, nil
	}

	return u, nil
}

// Revoke deletes the session row. Revoking an absent or already-revoked
// token is a no-op.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.store.Delete(ctx, token)
}
