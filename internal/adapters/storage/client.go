package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"ulok_portal_backend/platform/apperr"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOService implements StorageService using MinIO for a single bucket.
type MinIOService struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
	maxFileSize   int64
}

// NewMinIOService creates a new MinIO storage service.
func NewMinIOService(cfg Config) (*MinIOService, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	base := cfg.GetMinIOPublicBaseURL()
	if base == "" {
		base = client.EndpointURL().String()
	}

	return &MinIOService{
		client:        client,
		bucket:        cfg.GetMinioBucketUlokPhotos(),
		publicBaseURL: base,
		maxFileSize:   cfg.GetMinIOMaxFileSize(),
	}, nil
}

// Bucket returns the bucket this service writes to.
func (s *MinIOService) Bucket() string {
	return s.bucket
}

// EnsureBucketExists creates the bucket if it doesn't exist.
func (s *MinIOService) EnsureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
	}

	return nil
}

// Upload stores the object unless something already lives at path. The
// existence check is the PUT's own If-None-Match: * precondition.
func (s *MinIOService) Upload(ctx context.Context, path, contentType string, reader io.Reader, size int64) error {
	opts := minio.PutObjectOptions{ContentType: contentType}
	opts.SetMatchETagExcept("*")

	if _, err := s.client.PutObject(ctx, s.bucket, path, reader, size, opts); err != nil {
		if isPreconditionFailed(err) {
			return apperr.Conflict(fmt.Sprintf("object %s already exists", path))
		}
		return fmt.Errorf("failed to upload file %s: %w", path, err)
	}
	return nil
}

// List returns every object under prefix.
func (s *MinIOService) List(ctx context.Context, prefix string) ([]Object, error) {
	objects := make([]Object, 0)
	for info := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if info.Err != nil {
			return nil, fmt.Errorf("failed to list objects under %q: %w", prefix, info.Err)
		}
		objects = append(objects, Object{Path: info.Key, Size: info.Size, LastModified: info.LastModified})
	}
	return objects, nil
}

// Delete removes every path, collecting per-object failures.
func (s *MinIOService) Delete(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(paths))
	for _, p := range paths {
		objectsCh <- minio.ObjectInfo{Key: p}
	}
	close(objectsCh)

	var errs []error
	for rErr := range s.client.RemoveObjects(ctx, s.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rErr.Err != nil && !isNotFound(rErr.Err) {
			errs = append(errs, fmt.Errorf("failed to delete object %s: %w", rErr.ObjectName, rErr.Err))
		}
	}
	return errors.Join(errs...)
}

// PublicURL resolves the public URL for path.
func (s *MinIOService) PublicURL(path string) string {
	return publicURL(s.publicBaseURL, s.bucket, path)
}

func publicURL(base, bucket, path string) string {
	if path == "" {
		return ""
	}
	segments := strings.Split(strings.TrimLeft(path, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(bucket) + "/" + strings.Join(segments, "/")
}

func isPreconditionFailed(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "PreconditionFailed" || resp.StatusCode == http.StatusPreconditionFailed
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}

var _ StorageService = (*MinIOService)(nil)
