package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20250801094000",
		up:      mig_20250801094000_project_documents_up,
		down:    mig_20250801094000_project_documents_down,
	})
}

func mig_20250801094000_project_documents_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS project_documents (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
            name VARCHAR(255) NOT NULL,
            file_path TEXT NOT NULL,
            file_size BIGINT NOT NULL,
            mime_type VARCHAR(255) NOT NULL,
            uploaded_by UUID NOT NULL REFERENCES users(id),
            uploaded_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_project_documents_project_id ON project_documents(project_id);
    `)
	if err != nil {
		return err
	}

	return nil
}

func mig_20250801094000_project_documents_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS project_documents;`)
	return err
}
