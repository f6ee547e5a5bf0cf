package models

import (
	"time"
)

// Session is a provider session. The secret handed to the client is never
// stored, only its hash.
type Session struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	UserID     string    `json:"user_id" gorm:"type:varchar(36);not null;index"`
	SecretHash string    `json:"-" gorm:"type:varchar(64);not null;uniqueIndex"`
	ExpiresAt  time.Time `json:"expires_at" gorm:"not null;index"`
	UserAgent  string    `json:"user_agent" gorm:"type:varchar(500)"`
	IPAddress  string    `json:"ip_address" gorm:"type:varchar(45)"`
}

// TableName specifies the table name for the Session model
func (Session) TableName() string {
	return "sessions"
}

// IsExpired reports whether the session has passed its expiry at now
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
