package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/teamforge-api/models"
)

// LocalStorage is the file-storage collaborator: it keeps uploaded
// blobs on the local disk and hands back the metadata the engine
// persists. The engine never touches blobs directly, and deleting a
// project does not reclaim them.
type LocalStorage struct {
	dir string
}

// NewLocalStorage creates the upload directory if needed
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

// Dir returns the directory uploads are stored in
func (s *LocalStorage) Dir() string {
	return s.dir
}

// Save writes one multipart upload to disk under a timestamp-prefixed
// name and returns its stored metadata.
func (s *LocalStorage) Save(file *multipart.FileHeader) (models.ProjectFile, error) {
	src, err := file.Open()
	if err != nil {
		return models.ProjectFile{}, err
	}
	defer src.Close()

	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(file.Filename))
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return models.ProjectFile{}, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return models.ProjectFile{}, err
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return models.ProjectFile{
		Name:        file.Filename,
		Size:        file.Size,
		ContentType: contentType,
		Path:        path,
	}, nil
}
