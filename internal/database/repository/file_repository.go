package repository

import (
	"context"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/models"
	"gorm.io/gorm"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

// Create creates a new file record
func (r *FileRepository) Create(ctx context.Context, file *models.File) error {
	return r.db.WithContext(ctx).Create(file).Error
}

// GetByID retrieves a file of a bucket by ID
func (r *FileRepository) GetByID(ctx context.Context, bucketID, id string) (*models.File, error) {
	var file models.File
	err := r.db.WithContext(ctx).First(&file, "bucket_id = ? AND id = ?", bucketID, id).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// ListByBucket returns a page of an owner's files in a bucket, newest
// first, with the owner's total file count in that bucket
func (r *FileRepository) ListByBucket(ctx context.Context, ownerID, bucketID string, offset, limit int) ([]*models.File, int64, error) {
	var files []*models.File
	var total int64

	query := r.db.WithContext(ctx).Model(&models.File{}).Where("bucket_id = ? AND owner_id = ?", bucketID, ownerID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&files).Error
	return files, total, err
}

// Delete deletes a file record
func (r *FileRepository) Delete(ctx context.Context, bucketID, id string) error {
	return r.db.WithContext(ctx).Delete(&models.File{}, "bucket_id = ? AND id = ?", bucketID, id).Error
}
