package models

import (
	"time"
)

// File is the metadata row of a stored object
type File struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	BucketID  string    `json:"bucket_id" gorm:"type:varchar(64);not null;index"`
	OwnerID   string    `json:"owner_id" gorm:"type:varchar(36);index"` // user that uploaded the file
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	MimeType  string    `json:"mime_type" gorm:"type:varchar(255)"`
	Size      int64     `json:"size" gorm:"type:bigint"` // Size in bytes
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the File model
func (File) TableName() string {
	return "storage_files"
}

// MediaReference describes one successfully stored attachment
type MediaReference struct {
	ID           string `json:"id" example:"0b5e6f8e-5c43-4b8f-9d3b-4d1b0a7c9e21"`
	URL          string `json:"url" example:"http://localhost:8080/api/v1/storage/buckets/media/files/0b5e6f8e-5c43-4b8f-9d3b-4d1b0a7c9e21/view"`
	OriginalName string `json:"originalName" example:"banner.png"`
	Size         int64  `json:"size" example:"2048"`
	Type         string `json:"type" example:"image/png"`
}

// FileResponse represents the response for file operations
type FileResponse struct {
	ID          string `json:"id"`
	BucketID    string `json:"bucket_id"`
	OwnerID     string `json:"owner_id"`
	Name        string `json:"name"`
	MimeType    string `json:"mime_type"`
	Size        int64  `json:"size"`
	ViewURL     string `json:"view_url"`
	DownloadURL string `json:"download_url"`
	CreatedAt   string `json:"created_at" example:"2025-01-21T10:00:00Z"`
}
