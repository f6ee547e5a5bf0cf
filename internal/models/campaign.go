package models

import (
	"time"
)

// Campaign statuses
const (
	CampaignStatusDraft = "draft"
)

// Campaign is a campaign draft document. The owning table is chosen at
// runtime from the configured database and collection ids, so TableName is
// only the default. Defaults (daily, USD, draft) are applied when the form
// is decoded, not by the database.
type Campaign struct {
	ID              string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerID         string     `json:"-" gorm:"type:varchar(36);not null;index"`
	UserID          string     `json:"userId" gorm:"type:varchar(100);not null;index"`
	Name            string     `json:"name" gorm:"type:varchar(255);not null"`
	Platform        string     `json:"platform" gorm:"type:varchar(50);not null;index"`
	Budget          float64    `json:"budget" gorm:"not null"`
	BudgetType      string     `json:"budgetType" gorm:"type:varchar(20);not null"`
	Currency        string     `json:"currency" gorm:"type:varchar(10);not null"`
	DateRangeStart  *time.Time `json:"dateRangeStart"`
	DateRangeEnd    *time.Time `json:"dateRangeEnd"`
	Description     string     `json:"description" gorm:"type:varchar(2000)"`
	EnhanceWithAI   bool       `json:"enhanceWithAI" gorm:"column:enhance_with_ai;not null"`
	Status          string     `json:"status" gorm:"type:varchar(50);not null;index"`
	MediaFileURL    string     `json:"mediaFileUrl,omitempty" gorm:"column:media_file_url;type:varchar(500)"`
	MediaFileID     string     `json:"mediaFileId,omitempty" gorm:"type:varchar(100)"`
	MediaFileURLs   string     `json:"mediaFileUrls,omitempty" gorm:"column:media_file_urls;type:varchar(2000)"`
	MediaFileIDs    string     `json:"mediaFileIds,omitempty" gorm:"column:media_file_ids;type:varchar(1000)"`
	PlatformDetails string     `json:"platformDetails,omitempty" gorm:"type:text"` // JSON object
	CreatedAt       time.Time  `json:"createdAt" gorm:"index"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// TableName specifies the default table name for the Campaign model
func (Campaign) TableName() string {
	return "campaigns"
}

// CampaignCreateResponse is the body of a campaign submission
type CampaignCreateResponse struct {
	Success      bool      `json:"success"`
	Message      string    `json:"message"`
	CampaignID   string    `json:"campaignId,omitempty"`
	Data         *Campaign `json:"data,omitempty"`
	UploadErrors []string  `json:"uploadErrors,omitempty"`
}

// CampaignListQuery carries the filters of a campaign listing
type CampaignListQuery struct {
	Platform string
	Status   string
	Offset   int
	Limit    int
}

// DateRangeRequest is the body of a date range check
type DateRangeRequest struct {
	Start string `json:"start" example:"2026-11-01"`
	End   string `json:"end" example:"2026-11-30"`
}

// DateRangeResponse reports the outcome of a date range check
type DateRangeResponse struct {
	IsValid bool   `json:"isValid"`
	Error   string `json:"error,omitempty"`
}
