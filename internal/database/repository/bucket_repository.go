package repository

import (
	"context"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/models"

	"gorm.io/gorm"
)

type BucketRepository struct {
	db *gorm.DB
}

func NewBucketRepository(db *gorm.DB) *BucketRepository {
	return &BucketRepository{db: db}
}

// GetByID retrieves bucket metadata by ID
func (r *BucketRepository) GetByID(ctx context.Context, id string) (*models.Bucket, error) {
	var bucket models.Bucket
	err := r.db.WithContext(ctx).First(&bucket, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &bucket, nil
}

// Upsert registers a bucket, keeping an existing row untouched. It reports
// whether the row was newly created.
func (r *BucketRepository) Upsert(ctx context.Context, bucket *models.Bucket) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", bucket.ID).FirstOrCreate(bucket)
	return result.RowsAffected > 0, result.Error
}

// SetEnabled switches a bucket on or off
func (r *BucketRepository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	return r.db.WithContext(ctx).Model(&models.Bucket{}).Where("id = ?", id).Update("enabled", enabled).Error
}
