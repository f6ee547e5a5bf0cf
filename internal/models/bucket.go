package models

import (
	"strings"
	"time"
)

// Bucket is the registered metadata of an object storage bucket
type Bucket struct {
	ID                    string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name                  string    `json:"name" gorm:"type:varchar(128);not null"`
	Enabled               bool      `json:"enabled" gorm:"not null"`
	MaximumFileSize       int64     `json:"maximumFileSize" gorm:"not null"` // 0 means unlimited
	AllowedFileExtensions string    `json:"allowedFileExtensions" gorm:"type:varchar(1000)"` // comma separated, empty allows all
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the Bucket model
func (Bucket) TableName() string {
	return "storage_buckets"
}

// Extensions returns the allowed extensions, lower-cased and without dots
func (b *Bucket) Extensions() []string {
	if strings.TrimSpace(b.AllowedFileExtensions) == "" {
		return nil
	}
	var out []string
	for _, ext := range strings.Split(b.AllowedFileExtensions, ",") {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			out = append(out, ext)
		}
	}
	return out
}
