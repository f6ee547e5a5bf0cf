package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/config"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/models"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/storage"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/utils"
)

var (
	ErrInvalidAPIKey       = errors.New("invalid project or API key")
	ErrBucketNotFound      = errors.New("storage bucket not found")
	ErrBucketDisabled      = errors.New("storage bucket is disabled")
	ErrFileNotFound        = errors.New("file not found")
	ErrFileTooLarge        = errors.New("file exceeds the bucket size limit")
	ErrExtensionNotAllowed = errors.New("file extension is not allowed in this bucket")
)

// BucketRepository is the bucket metadata the file service reads
type BucketRepository interface {
	GetByID(ctx context.Context, id string) (*models.Bucket, error)
}

// FileRepository is the file metadata the file service reads and writes
type FileRepository interface {
	Create(ctx context.Context, file *models.File) error
	GetByID(ctx context.Context, bucketID, id string) (*models.File, error)
	ListByBucket(ctx context.Context, ownerID, bucketID string, offset, limit int) ([]*models.File, int64, error)
	Delete(ctx context.Context, bucketID, id string) error
}

// FileService stores attachments in the object store and keeps their
// metadata in Postgres. It acts as the privileged storage handle: it is
// not bound to any end user.
type FileService struct {
	objects   storage.ObjectStore
	buckets   BucketRepository
	files     FileRepository
	endpoint  string
	projectID string
	apiKey    string
}

func NewFileService(objects storage.ObjectStore, buckets BucketRepository, files FileRepository, sub config.Submission) *FileService {
	return &FileService{
		objects:   objects,
		buckets:   buckets,
		files:     files,
		endpoint:  sub.Endpoint,
		projectID: sub.ProjectID,
		apiKey:    sub.APIKey,
	}
}

// AdminStorage hands out the privileged storage handle to callers that
// present this project's id and API key
func (s *FileService) AdminStorage(ctx context.Context, projectID, apiKey string) (*FileService, error) {
	if s.apiKey == "" || projectID != s.projectID ||
		subtle.ConstantTimeCompare([]byte(apiKey), []byte(s.apiKey)) != 1 {
		return nil, ErrInvalidAPIKey
	}
	return s, nil
}

// ProjectID returns the project files are served under
func (s *FileService) ProjectID() string {
	return s.projectID
}

// GetBucket returns a bucket that is registered, present in the backend and enabled
func (s *FileService) GetBucket(ctx context.Context, bucketID string) (*models.Bucket, error) {
	bucket, err := s.buckets.GetByID(ctx, bucketID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrBucketNotFound, bucketID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket %s: %w", bucketID, err)
	}

	exists, err := s.objects.BucketExists(ctx, bucketID)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucketID, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s is not present in the object store", ErrBucketNotFound, bucketID)
	}

	if !bucket.Enabled {
		return nil, fmt.Errorf("%w: %s", ErrBucketDisabled, bucketID)
	}
	return bucket, nil
}

// CreateFile stores one attachment under fileID and records its metadata
// as owned by ownerID
func (s *FileService) CreateFile(ctx context.Context, bucket *models.Bucket, ownerID, fileID string, a storage.Attachment) (*models.File, error) {
	if bucket.MaximumFileSize > 0 && a.Size() > bucket.MaximumFileSize {
		return nil, fmt.Errorf("%w (%d > %d bytes)", ErrFileTooLarge, a.Size(), bucket.MaximumFileSize)
	}
	if allowed := bucket.Extensions(); len(allowed) > 0 {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(a.Filename()), "."))
		if !utils.Contains(allowed, ext) {
			return nil, fmt.Errorf("%w: %q", ErrExtensionNotAllowed, ext)
		}
	}

	src, err := a.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	if err := s.objects.Put(ctx, bucket.ID, fileID, src, a.Size(), a.ContentType()); err != nil {
		return nil, err
	}

	file := &models.File{
		ID:       fileID,
		BucketID: bucket.ID,
		OwnerID:  ownerID,
		Name:     a.Filename(),
		MimeType: a.ContentType(),
		Size:     a.Size(),
	}
	if err := s.files.Create(ctx, file); err != nil {
		if delErr := s.objects.Delete(ctx, bucket.ID, fileID); delErr != nil {
			logrus.Warnf("Failed to remove object %s/%s after metadata error: %v", bucket.ID, fileID, delErr)
		}
		return nil, fmt.Errorf("failed to save file record: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"bucket_id": bucket.ID,
		"file_id":   fileID,
		"owner_id":  ownerID,
		"size":      file.Size,
	}).Info("File stored")
	return file, nil
}

// ViewURL returns the inline URL of a stored file
func (s *FileService) ViewURL(bucketID, fileID string) string {
	return storage.ViewURL(s.endpoint, bucketID, fileID)
}

// GetFile retrieves the metadata of a stored file
func (s *FileService) GetFile(ctx context.Context, bucketID, fileID string) (*models.File, error) {
	file, err := s.files.GetByID(ctx, bucketID, fileID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	return file, nil
}

// OpenFile returns the metadata and content of a stored file. The caller
// closes the reader.
func (s *FileService) OpenFile(ctx context.Context, bucketID, fileID string) (*models.File, io.ReadCloser, error) {
	file, err := s.GetFile(ctx, bucketID, fileID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.objects.Get(ctx, bucketID, fileID)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, nil, ErrFileNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, rc, nil
}

// DeleteFile removes a stored file and its metadata. Files owned by
// another user are reported as not found.
func (s *FileService) DeleteFile(ctx context.Context, ownerID, bucketID, fileID string) error {
	file, err := s.GetFile(ctx, bucketID, fileID)
	if err != nil {
		return err
	}
	if file.OwnerID != ownerID {
		return ErrFileNotFound
	}
	if err := s.objects.Delete(ctx, bucketID, fileID); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	if err := s.files.Delete(ctx, bucketID, fileID); err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}
	return nil
}

// ListFiles returns a page of the files ownerID stored in a bucket
func (s *FileService) ListFiles(ctx context.Context, ownerID, bucketID string, page, pageSize int) ([]*models.File, utils.PaginationResponse, error) {
	page, pageSize = utils.ValidateAndNormalizePagination(page, pageSize)
	files, total, err := s.files.ListByBucket(ctx, ownerID, bucketID, utils.CalculateOffset(page, pageSize), pageSize)
	if err != nil {
		return nil, utils.PaginationResponse{}, fmt.Errorf("failed to list files: %w", err)
	}
	return files, utils.CalculatePaginationInfo(int(total), page, pageSize), nil
}

// FileToResponse converts a File model to its API representation
func (s *FileService) FileToResponse(file *models.File) models.FileResponse {
	return models.FileResponse{
		ID:          file.ID,
		BucketID:    file.BucketID,
		OwnerID:     file.OwnerID,
		Name:        file.Name,
		MimeType:    file.MimeType,
		Size:        file.Size,
		ViewURL:     storage.WithProject(storage.ViewURL(s.endpoint, file.BucketID, file.ID), s.projectID),
		DownloadURL: storage.WithProject(storage.DownloadURL(s.endpoint, file.BucketID, file.ID), s.projectID),
		CreatedAt:   file.CreatedAt.Format(time.RFC3339),
	}
}
