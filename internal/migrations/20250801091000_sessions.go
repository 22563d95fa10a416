package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20250801091000",
		up:      mig_20250801091000_sessions_up,
		down:    mig_20250801091000_sessions_down,
	})
}

// Sessions are keyed by the opaque token itself. Expired rows are never
// purged here; lookups filter on expires_at.
func mig_20250801091000_sessions_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS sessions (
            id TEXT PRIMARY KEY,
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);
    `)
	if err != nil {
		return err
	}

	return nil
}

func mig_20250801091000_sessions_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS sessions;`)
	return err
}
