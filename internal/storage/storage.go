package storage

import (
	"context"
	"fmt"
	"io"
	"regexp"

	"github.com/pkg/errors"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/config"
)

// Backend driver names
const (
	DriverLocal = "local"
	DriverMinio = "minio"
	DriverS3    = "s3"
)

var (
	// ErrObjectNotFound is returned when a key does not exist in a bucket
	ErrObjectNotFound = errors.New("object not found")
	// ErrInvalidName is returned for bucket or object names that are not safe
	ErrInvalidName = errors.New("invalid bucket or object name")
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,254}$`)

// ObjectStore is a blob backend holding objects in named buckets
type ObjectStore interface {
	// BucketExists reports whether the bucket exists in the backend
	BucketExists(ctx context.Context, bucket string) (bool, error)

	// CreateBucket creates the bucket; it is a no-op when it already exists
	CreateBucket(ctx context.Context, bucket string) error

	// Put stores size bytes read from r under key
	Put(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error

	// Get opens the object stored under key
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)

	// Delete removes the object stored under key; missing objects are not an error
	Delete(ctx context.Context, bucket, key string) error
}

// New builds the ObjectStore selected by cfg.Driver
func New(ctx context.Context, cfg config.Storage) (ObjectStore, error) {
	switch cfg.Driver {
	case DriverLocal, "":
		return NewLocalStore(cfg.LocalDir)
	case DriverMinio:
		return NewMinioStore(cfg)
	case DriverS3:
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}

func validateBucket(bucket string) error {
	if !namePattern.MatchString(bucket) {
		return errors.Wrapf(ErrInvalidName, "bucket %q", bucket)
	}
	return nil
}

func validateObject(bucket, key string) error {
	if err := validateBucket(bucket); err != nil {
		return err
	}
	if !namePattern.MatchString(key) {
		return errors.Wrapf(ErrInvalidName, "key %q", key)
	}
	return nil
}
