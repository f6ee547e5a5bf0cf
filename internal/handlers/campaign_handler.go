package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/models"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/services"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/services/campaign"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/services/excel"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/utils"
)

// CampaignSubmitter runs the campaign submission pipeline
type CampaignSubmitter interface {
	Submit(ctx context.Context, req campaign.Request) (*campaign.Result, error)
}

// CampaignQueries reads the session user's campaigns
type CampaignQueries interface {
	ListCampaigns(ctx context.Context, sessionSecret, platform, status string, page, pageSize int) ([]*models.Campaign, utils.PaginationResponse, error)
	GetCampaign(ctx context.Context, sessionSecret, id string) (*models.Campaign, error)
	AllCampaigns(ctx context.Context, sessionSecret string) ([]*models.Campaign, error)
}

// CampaignExporter renders campaigns as a spreadsheet
type CampaignExporter interface {
	ExportCampaigns(w io.Writer, campaigns []*models.Campaign) error
}

type CampaignHandler struct {
	submitter CampaignSubmitter
	queries   CampaignQueries
	exporter  CampaignExporter
	now       func() time.Time
}

func NewCampaignHandler(submitter CampaignSubmitter, queries CampaignQueries, exporter CampaignExporter) *CampaignHandler {
	return &CampaignHandler{
		submitter: submitter,
		queries:   queries,
		exporter:  exporter,
		now:       time.Now,
	}
}

// CreateCampaign godoc
// @Summary Create campaign
// @Description Submit a campaign draft with optional media. Authentication comes from the appSession and localSession cookies.
// @Description Single attachments use the form field "mediaFile", multiple attachments use "mediaFiles".
// @Tags campaigns
// @Accept multipart/form-data
// @Produce json
// @Param name formData string false "Campaign name"
// @Param platform formData string true "reddit, facebook, instagram or hackernews"
// @Param budget formData string false "Budget amount"
// @Param budgetType formData string false "Budget cadence (default daily)"
// @Param currency formData string false "Currency (default USD)"
// @Param mediaFile formData file false "Single media file"
// @Param mediaFiles formData file false "Multiple media files"
// @Success 200 {object} models.CampaignCreateResponse
// @Failure 400 {object} models.CampaignCreateResponse
// @Failure 401 {object} models.CampaignCreateResponse
// @Failure 500 {object} models.CampaignCreateResponse
// @Router /api/v1/campaigns/create [post]
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	secret, localToken := utils.SessionCookies(c)

	result, err := h.submitter.Submit(c.Request.Context(), campaign.Request{
		LocalToken:    localToken,
		SessionSecret: secret,
		Form: func() (*multipart.Form, error) {
			return c.MultipartForm()
		},
	})
	if err != nil {
		var serr *campaign.SubmissionError
		if errors.As(err, &serr) {
			c.JSON(serr.StatusCode(), models.CampaignCreateResponse{Success: false, Message: serr.Message})
			return
		}
		logrus.Errorf("Campaign submission failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.CampaignCreateResponse{Success: false, Message: campaign.MsgPersistenceFailure})
		return
	}

	c.JSON(http.StatusOK, models.CampaignCreateResponse{
		Success:      true,
		Message:      result.Message(),
		CampaignID:   result.Campaign.ID,
		Data:         result.Campaign,
		UploadErrors: result.UploadErrors,
	})
}

// ListCampaigns godoc
// @Summary List campaigns
// @Description List the current user's campaigns, newest first
// @Tags campaigns
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Param platform query string false "Filter by platform"
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/campaigns [get]
func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	if !h.queriesAvailable(c) {
		return
	}
	secret := c.MustGet("session_secret").(string)
	page, pageSize := utils.ParsePaginationFromQuery(c.Query("page"), c.Query("limit"))

	campaigns, pagination, err := h.queries.ListCampaigns(c.Request.Context(), secret, c.Query("platform"), c.Query("status"), page, pageSize)
	if err != nil {
		logrus.Errorf("Failed to list campaigns: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list campaigns"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       campaigns,
		"pagination": pagination,
	})
}

// GetCampaign godoc
// @Summary Get campaign
// @Description Get one of the current user's campaigns
// @Tags campaigns
// @Produce json
// @Param id path string true "Campaign ID"
// @Success 200 {object} models.Campaign
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id} [get]
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	if !h.queriesAvailable(c) {
		return
	}
	secret := c.MustGet("session_secret").(string)

	result, err := h.queries.GetCampaign(c.Request.Context(), secret, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrCampaignNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
			return
		}
		logrus.Errorf("Failed to get campaign: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get campaign"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportCampaigns godoc
// @Summary Export campaigns
// @Description Download the current user's campaigns as an Excel workbook
// @Tags campaigns
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/campaigns/export [get]
func (h *CampaignHandler) ExportCampaigns(c *gin.Context) {
	if !h.queriesAvailable(c) {
		return
	}
	secret := c.MustGet("session_secret").(string)

	campaigns, err := h.queries.AllCampaigns(c.Request.Context(), secret)
	if err != nil {
		logrus.Errorf("Failed to load campaigns for export: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export campaigns"})
		return
	}

	filename := excel.ExportFilename(h.now())
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Cache-Control", "must-revalidate")

	c.Status(http.StatusOK)
	if err := h.exporter.ExportCampaigns(c.Writer, campaigns); err != nil {
		logrus.Errorf("Failed to write campaign export: %v", err)
	}
}

func (h *CampaignHandler) queriesAvailable(c *gin.Context) bool {
	if h.queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Campaign collection is not configured"})
		return false
	}
	return true
}

// ValidateDates godoc
// @Summary Validate campaign dates
// @Description Check a campaign run window: the start may not be in the past and the end must follow it
// @Tags campaigns
// @Accept json
// @Produce json
// @Param request body models.DateRangeRequest true "Date range"
// @Success 200 {object} models.DateRangeResponse
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/campaigns/validate-dates [post]
func (h *CampaignHandler) ValidateDates(c *gin.Context) {
	var req models.DateRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	if err := campaign.ValidateDateRange(req.Start, req.End, h.now()); err != nil {
		c.JSON(http.StatusOK, models.DateRangeResponse{IsValid: false, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.DateRangeResponse{IsValid: true})
}
