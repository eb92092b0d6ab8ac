package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/carebridge/portal/backend/internal/domain/providers"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// FilesystemStore implements the BlobStore interface on a local directory
type FilesystemStore struct {
	dir string
}

// Ensure FilesystemStore implements BlobStore
var _ providers.BlobStore = (*FilesystemStore)(nil)

// NewFilesystemStore creates the upload directory if needed and returns a
// filesystem-backed blob store
func NewFilesystemStore(dir string) (*FilesystemStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &FilesystemStore{dir: dir}, nil
}

// Put stores blob content under a timestamped, sanitized key derived from the
// original file name. Size and content type are validated before any bytes
// are written.
func (s *FilesystemStore) Put(ctx context.Context, fileName, contentType string, size int64, content io.Reader) (string, error) {
	if size > providers.MaxUploadSize {
		return "", providers.ErrBlobTooLarge
	}
	if !providers.AllowedUploadTypes[contentType] {
		return "", providers.ErrBlobTypeNotAllowed
	}

	key := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), sanitizeFileName(fileName))

	f, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return "", fmt.Errorf("failed to create blob file: %w", err)
	}
	defer f.Close()

	// LimitReader guards against callers understating size
	written, err := io.Copy(f, io.LimitReader(content, providers.MaxUploadSize+1))
	if err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write blob content: %w", err)
	}
	if written > providers.MaxUploadSize {
		os.Remove(f.Name())
		return "", providers.ErrBlobTooLarge
	}

	return key, nil
}

// Open opens stored blob content for reading
func (s *FilesystemStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, filepath.Base(key)))
	if err != nil {
		return nil, fmt.Errorf("failed to open blob %s: %w", key, err)
	}
	return f, nil
}

// Remove deletes stored blob content
func (s *FilesystemStore) Remove(ctx context.Context, key string) error {
	if err := os.Remove(filepath.Join(s.dir, filepath.Base(key))); err != nil {
		return fmt.Errorf("failed to remove blob %s: %w", key, err)
	}
	return nil
}

func sanitizeFileName(name string) string {
	base := filepath.Base(name)
	return unsafeNameChars.ReplaceAllString(base, "_")
}
