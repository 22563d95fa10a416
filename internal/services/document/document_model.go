package document

import (
	"time"

	"github.com/google/uuid"
)

// Document is a file attached to a project. FilePath is relative to the
// uploads root, never absolute.
type Document struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ProjectID  uuid.UUID `json:"project_id" db:"project_id"`
	Name       string    `json:"name" db:"name"`
	FilePath   string    `json:"file_path" db:"file_path"`
	FileSize   int64     `json:"file_size" db:"file_size"`
	MimeType   string    `json:"mime_type" db:"mime_type"`
	UploadedBy string    `json:"uploaded_by" db:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"`

	// UploaderName is populated by listing joins
	UploaderName *string `json:"uploader_name,omitempty" db:"uploader_name"`
}
