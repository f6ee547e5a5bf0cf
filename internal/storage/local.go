package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// LocalStore keeps each bucket as a directory below a base path
type LocalStore struct {
	basePath string
}

// NewLocalStore creates the base directory if needed
func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create storage directory")
	}
	return &LocalStore{basePath: basePath}, nil
}

func (s *LocalStore) bucketPath(bucket string) string {
	return filepath.Join(s.basePath, bucket)
}

// objectPath shards objects by the first two characters of the key
func (s *LocalStore) objectPath(bucket, key string) string {
	shard := key
	if len(shard) > 2 {
		shard = shard[:2]
	}
	return filepath.Join(s.basePath, bucket, shard, key)
}

func (s *LocalStore) BucketExists(ctx context.Context, bucket string) (bool, error) {
	if err := validateBucket(bucket); err != nil {
		return false, err
	}
	info, err := os.Stat(s.bucketPath(bucket))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "failed to stat bucket")
	}
	return info.IsDir(), nil
}

func (s *LocalStore) CreateBucket(ctx context.Context, bucket string) error {
	if err := validateBucket(bucket); err != nil {
		return err
	}
	return errors.Wrap(os.MkdirAll(s.bucketPath(bucket), 0755), "failed to create bucket directory")
}

func (s *LocalStore) Put(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error {
	if err := validateObject(bucket, key); err != nil {
		return err
	}
	fullPath := s.objectPath(bucket, key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return errors.Wrap(err, "failed to create directory")
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer file.Close()

	written, err := io.Copy(file, r)
	if err == nil && size >= 0 && written != size {
		err = errors.Errorf("short write: wrote %d of %d bytes", written, size)
	}
	if err != nil {
		os.Remove(fullPath)
		return errors.Wrap(err, "failed to write file")
	}
	return nil
}

func (s *LocalStore) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	if err := validateObject(bucket, key); err != nil {
		return nil, err
	}
	file, err := os.Open(s.objectPath(bucket, key))
	if os.IsNotExist(err) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	return file, nil
}

func (s *LocalStore) Delete(ctx context.Context, bucket, key string) error {
	if err := validateObject(bucket, key); err != nil {
		return err
	}
	err := os.Remove(s.objectPath(bucket, key))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to delete file")
	}
	return nil
}
