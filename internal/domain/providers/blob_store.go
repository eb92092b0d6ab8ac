package providers

import (
	"context"
	"errors"
	"io"
)

// MaxUploadSize is the largest accepted document upload, in bytes.
const MaxUploadSize = 10 << 20

// AllowedUploadTypes is the closed set of accepted document MIME types.
var AllowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/tiff":      true,
	"image/bmp":       true,
	"application/pdf": true,
	"text/plain":      true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/dicom":        true,
	"application/rtf":          true,
	"text/csv":                 true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

// ErrBlobTooLarge is returned when an upload exceeds MaxUploadSize.
var ErrBlobTooLarge = errors.New("blob exceeds maximum size")

// ErrBlobTypeNotAllowed is returned for content types outside the allowlist.
var ErrBlobTypeNotAllowed = errors.New("blob content type not allowed")

// BlobStore defines the interface for document blob storage
type BlobStore interface {
	// Put stores blob content under a generated storage key derived from
	// the original file name, and returns that key
	Put(ctx context.Context, fileName, contentType string, size int64, content io.Reader) (string, error)

	// Open opens stored blob content for reading
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Remove deletes stored blob content
	Remove(ctx context.Context, key string) error
}
