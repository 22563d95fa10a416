package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pixelforge/nexus/internal/services/user"
)

// SessionRepo handles database operations for sessions
type SessionRepo struct {
	db *sqlx.DB
}

func NewSessionRepo(db *sqlx.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) Insert(ctx context.Context, s *Session) error {
	query := `
		INSERT INTO sessions (id, user_id, expires_at)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, s.ID, s.UserID, s.ExpiresAt); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// Get returns the session row and its owning user, or (nil, nil, nil) when
// the token is unknown. Expiry is not filtered here; the service decides.
func (r *SessionRepo) Get(ctx context.Context, token string) (*Session, *user.User, error) {
	query := `
		SELECT s.id AS session_id, s.user_id, s.expires_at, s.created_at AS session_created_at,
		       u.id, u.name, u.email, u.password_hash, u.role, u.created_at, u.updated_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = $1
	`
	var row struct {
		SessionID        string       `db:"session_id"`
		SessionUserID    string       `db:"user_id"`
		SessionExpiresAt sql.NullTime `db:"expires_at"`
		SessionCreatedAt sql.NullTime `db:"session_created_at"`
		user.User
	}
	err := r.db.GetContext(ctx, &row, query, token)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to get session: %w", err)
	}

	s := &Session{
		ID:        row.SessionID,
		UserID:    row.SessionUserID,
		ExpiresAt: row.SessionExpiresAt.Time,
		CreatedAt: row.SessionCreatedAt.Time,
	}
	u := row.User

	return s, &u, nil
}

// Delete removes the session row. Deleting an absent token affects zero rows
// and is not an error, which makes revocation idempotent.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
