package document

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var ErrDocumentNotFound = errors.New("document not found")

// DocumentRepo handles database operations for project documents
type DocumentRepo struct {
	db *sqlx.DB
}

func NewDocumentRepo(db *sqlx.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

func (r *DocumentRepo) Insert(ctx context.Context, d *Document) (*Document, error) {
	query := `
        INSERT INTO project_documents (project_id, name, file_path, file_size, mime_type, uploaded_by)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, project_id, name, file_path, file_size, mime_type, uploaded_by, uploaded_at
    `

	var doc Document
	err := r.db.GetContext(ctx, &doc, query, d.ProjectID, d.Name, d.FilePath, d.FileSize, d.MimeType, d.UploadedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to insert document: %w", err)
	}

	return &doc, nil
}

func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*Document, error) {
	query := `
        SELECT id, project_id, name, file_path, file_size, mime_type, uploaded_by, uploaded_at
        FROM project_documents
        WHERE id = $1
    `

	var doc Document
	err := r.db.GetContext(ctx, &doc, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return &doc, nil
}

func (r *DocumentRepo) ListByProject(ctx context.Context, projectID string) ([]*Document, error) {
	query := `
        SELECT pd.id, pd.project_id, pd.name, pd.file_path, pd.file_size, pd.mime_type,
               pd.uploaded_by, pd.uploaded_at, u.name AS uploader_name
        FROM project_documents pd
        JOIN users u ON pd.uploaded_by = u.id
        WHERE pd.project_id = $1
        ORDER BY pd.uploaded_at DESC
    `

	var docs []*Document
	err := r.db.SelectContext(ctx, &docs, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	return docs, nil
}
