package repository

import (
	"context"
	"time"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/models"

	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create stores a new provider session
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// GetBySecretHash retrieves a session by the hash of its secret
func (r *SessionRepository) GetBySecretHash(ctx context.Context, hash string) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).Where("secret_hash = ?", hash).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes a session by ID
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", id).Error
}

// DeleteExpired removes every session that expired before now and returns
// how many were removed
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}

// CountActiveByUser counts unexpired sessions for a user
func (r *SessionRepository) CountActiveByUser(ctx context.Context, userID string, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Session{}).
		Where("user_id = ? AND expires_at >= ?", userID, now).
		Count(&count).Error
	return count, err
}
