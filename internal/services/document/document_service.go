package document

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/pixelforge/nexus/internal/services/document/disk_storage"
)

// Store is the persistence surface the service needs. *DocumentRepo
// satisfies it.
type Store interface {
	Insert(ctx context.Context, d *Document) (*Document, error)
	GetByID(ctx context.Context, id string) (*Document, error)
	ListByProject(ctx context.Context, projectID string) ([]*Document, error)
}

type DocumentService struct {
	store   Store
	storage *disk_storage.DiskStorage
}

func NewDocumentService(store Store, storage *disk_storage.DiskStorage) *DocumentService {
	return &DocumentService{store: store, storage: storage}
}

// Upload writes the file to disk first and records the row after, so a
// failed write never leaves a dangling database entry.
func (s *DocumentService) Upload(ctx context.Context, projectID uuid.UUID, uploadedBy, filename, mimeType string, content io.Reader) (*Document, error) {
	if filename == "" {
		return nil, errors.New("filename is required")
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	relPath, size, err := s.storage.Save(projectID.String(), filename, content)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	doc, err := s.store.Insert(ctx, &Document{
		ProjectID:  projectID,
		Name:       filename,
		FilePath:   relPath,
		FileSize:   size,
		MimeType:   mimeType,
		UploadedBy: uploadedBy,
	})
	if err != nil {
		return nil, err
	}

	return doc, nil
}

func (s *DocumentService) GetByID(ctx context.Context, id string) (*Document, error) {
	return s.store.GetByID(ctx, id)
}

func (s *DocumentService) ListByProject(ctx context.Context, projectID string) ([]*Document, error) {
	return s.store.ListByProject(ctx, projectID)
}

// OpenContent returns a reader over the stored file
func (s *DocumentService) OpenContent(d *Document) (io.ReadCloser, error) {
	return s.storage.Open(d.FilePath)
}
