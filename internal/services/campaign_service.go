package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/database/repository"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/models"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/utils"
)

var (
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrNoSession        = errors.New("no provider session")
)

// SessionResolver maps a provider session secret to its session
type SessionResolver interface {
	ResolveSession(ctx context.Context, secret string) (*models.Session, error)
}

// CampaignDocuments is a campaign store scoped to one owner
type CampaignDocuments interface {
	OwnerID() string
	Create(ctx context.Context, campaign *models.Campaign) error
	GetByID(ctx context.Context, id string) (*models.Campaign, error)
	List(ctx context.Context, q models.CampaignListQuery) ([]*models.Campaign, int64, error)
}

// CampaignService is the document store of campaign drafts. Every handle
// it returns is bound to the user of a provider session.
type CampaignService struct {
	sessions SessionResolver
	forOwner func(ownerID string) CampaignDocuments
}

func NewCampaignService(repo *repository.CampaignRepository, sessions SessionResolver) *CampaignService {
	return &CampaignService{
		sessions: sessions,
		forOwner: func(ownerID string) CampaignDocuments {
			return repo.ForOwner(ownerID)
		},
	}
}

// SessionDocuments returns the campaign store of the session's user
func (s *CampaignService) SessionDocuments(ctx context.Context, sessionSecret string) (CampaignDocuments, error) {
	if sessionSecret == "" {
		return nil, ErrNoSession
	}
	session, err := s.sessions.ResolveSession(ctx, sessionSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	return s.forOwner(session.UserID), nil
}

// ListCampaigns returns a page of the session user's campaigns
func (s *CampaignService) ListCampaigns(ctx context.Context, sessionSecret string, platform, status string, page, pageSize int) ([]*models.Campaign, utils.PaginationResponse, error) {
	docs, err := s.SessionDocuments(ctx, sessionSecret)
	if err != nil {
		return nil, utils.PaginationResponse{}, err
	}

	page, pageSize = utils.ValidateAndNormalizePagination(page, pageSize)
	campaigns, total, err := docs.List(ctx, models.CampaignListQuery{
		Platform: platform,
		Status:   status,
		Offset:   utils.CalculateOffset(page, pageSize),
		Limit:    pageSize,
	})
	if err != nil {
		return nil, utils.PaginationResponse{}, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return campaigns, utils.CalculatePaginationInfo(int(total), page, pageSize), nil
}

// AllCampaigns returns every campaign of the session user, newest first
func (s *CampaignService) AllCampaigns(ctx context.Context, sessionSecret string) ([]*models.Campaign, error) {
	docs, err := s.SessionDocuments(ctx, sessionSecret)
	if err != nil {
		return nil, err
	}
	campaigns, _, err := docs.List(ctx, models.CampaignListQuery{})
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return campaigns, nil
}

// GetCampaign returns one of the session user's campaigns
func (s *CampaignService) GetCampaign(ctx context.Context, sessionSecret, id string) (*models.Campaign, error) {
	docs, err := s.SessionDocuments(ctx, sessionSecret)
	if err != nil {
		return nil, err
	}
	campaign, err := docs.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCampaignNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return campaign, nil
}
