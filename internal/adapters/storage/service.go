// Package storage provides the S3-compatible object store used for uploaded
// submission photos. Paths are namespaced by the caller; this package never
// invents key names.
package storage

import (
	"context"
	"io"
	"time"
)

// Object describes one stored object.
type Object struct {
	Path         string
	Size         int64
	LastModified time.Time
}

// StorageService defines the object storage operations used by the domain.
type StorageService interface {
	// Upload stores reader under path. It fails with a conflict error when an
	// object already exists at path (no overwrite).
	Upload(ctx context.Context, path, contentType string, reader io.Reader, size int64) error

	// List returns every object whose path starts with prefix.
	List(ctx context.Context, prefix string) ([]Object, error)

	// Delete removes the given paths. Missing objects are not an error.
	Delete(ctx context.Context, paths ...string) error

	// PublicURL resolves the public URL of a stored path.
	PublicURL(path string) string

	// EnsureBucketExists creates the bucket if it doesn't exist.
	EnsureBucketExists(ctx context.Context) error

	// ValidateContentType checks if the content type is allowed.
	ValidateContentType(contentType string) error

	// ValidateFileSize checks if the file size is within limits.
	ValidateFileSize(sizeBytes int64) error
}

// Config defines the configuration interface for storage.
type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	GetMinIOPublicBaseURL() string
	GetMinioBucketUlokPhotos() string
	IsMinIOEnabled() bool
}
