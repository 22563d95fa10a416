package disk_storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// DiskStorage writes uploaded documents under a per-project directory below
// a single uploads root.
type DiskStorage struct {
	Root string
}

func NewDiskStorage(root string) *DiskStorage {
	return &DiskStorage{
		Root: root,
	}
}

// Save streams content to <root>/<projectID>/<timestamp>-<sanitized name>
// and returns the path relative to the root together with the byte count.
func (s *DiskStorage) Save(projectID, filename string, content io.Reader) (string, int64, error) {
	projectDir := filepath.Join(s.Root, projectID)
	if err := os.MkdirAll(projectDir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	safeName := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), unsafeChars.ReplaceAllString(filename, "_"))
	fullPath := filepath.Join(projectDir, safeName)

	f, err := os.Create(fullPath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, content)
	if err != nil {
		os.Remove(fullPath)
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}

	return filepath.Join(projectID, safeName), size, nil
}

// Open returns a reader for a previously saved relative path. Paths that
// escape the root are rejected.
func (s *DiskStorage) Open(relPath string) (io.ReadCloser, error) {
	cleaned := filepath.Clean(relPath)
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return nil, errors.New("invalid document path")
	}

	return os.Open(filepath.Join(s.Root, cleaned))
}
