package repository

import (
	"context"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/models"

	"gorm.io/gorm"
)

// CampaignRepository reads and writes campaign documents in one
// schema qualified table
type CampaignRepository struct {
	db    *gorm.DB
	table string
}

func NewCampaignRepository(db *gorm.DB, table string) *CampaignRepository {
	return &CampaignRepository{db: db, table: table}
}

// Table returns the table this repository writes to
func (r *CampaignRepository) Table() string {
	return r.table
}

// ForOwner returns a view of the repository restricted to rows owned by ownerID
func (r *CampaignRepository) ForOwner(ownerID string) *OwnedCampaignRepository {
	return &OwnedCampaignRepository{repo: r, ownerID: ownerID}
}

func (r *CampaignRepository) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.table)
}

// OwnedCampaignRepository is a CampaignRepository bound to one owner. Every
// row it creates carries the owner and every query filters on it.
type OwnedCampaignRepository struct {
	repo    *CampaignRepository
	ownerID string
}

// OwnerID returns the owner this view is bound to
func (o *OwnedCampaignRepository) OwnerID() string {
	return o.ownerID
}

// Create inserts a campaign owned by the bound owner
func (o *OwnedCampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	campaign.OwnerID = o.ownerID
	return o.repo.scoped(ctx).Create(campaign).Error
}

// GetByID retrieves one of the owner's campaigns
func (o *OwnedCampaignRepository) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	var campaign models.Campaign
	err := o.repo.scoped(ctx).
		Where("owner_id = ? AND id = ?", o.ownerID, id).
		First(&campaign).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// List returns a filtered page of the owner's campaigns, newest first, along
// with the total number of matching rows
func (o *OwnedCampaignRepository) List(ctx context.Context, q models.CampaignListQuery) ([]*models.Campaign, int64, error) {
	var campaigns []*models.Campaign
	var total int64

	query := o.repo.scoped(ctx).Where("owner_id = ?", o.ownerID)
	if q.Platform != "" {
		query = query.Where("platform = ?", q.Platform)
	}
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if q.Limit > 0 {
		query = query.Offset(q.Offset).Limit(q.Limit)
	}
	if err := query.Find(&campaigns).Error; err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}
