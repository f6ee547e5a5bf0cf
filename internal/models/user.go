package models

import (
	"time"
)

// User represents an account registered with the dashboard
type User struct {
	ID           string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Email        string     `json:"email" gorm:"type:varchar(320);not null;uniqueIndex"`
	Name         string     `json:"name" gorm:"type:varchar(128)"`
	PasswordHash string     `json:"-" gorm:"type:varchar(255);not null"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	// Relationships
	Sessions []Session `json:"sessions,omitempty" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
