package session

import "time"

// Session binds an opaque cookie token to a user for a fixed window. The
// token is the row's primary key; its value is never derived from user data.
type Session struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
