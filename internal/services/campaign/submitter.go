package campaign

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/config"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/models"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/storage"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/utils"
)

// ErrorKind classifies a failed submission
type ErrorKind int

const (
	ConfigurationError ErrorKind = iota + 1
	Unauthenticated
	InvalidRequest
	StorageUnavailable
	PersistenceFailure
)

// User facing messages of the fatal failures
const (
	MsgConfiguration       = "Server configuration incomplete. Please contact support."
	MsgUnauthenticated     = "Authentication required. Please log in."
	MsgStorageUnavailable  = "Storage bucket not accessible. Please check bucket configuration."
	MsgStorageConnection   = "Admin storage connection not available"
	MsgDatabaseConnection  = "Database connection failed"
	MsgPersistenceFailure  = "Failed to create campaign. Please try again."
	MsgCreated             = "Campaign created successfully!"
	MsgCreatedWithWarnings = "Campaign created successfully, but some files failed to upload. You can edit the campaign later to add media files."
)

// Queues the submitter publishes to
const (
	QueueCampaignEvents      = "campaign_events"
	QueueCampaignEnhancement = "campaign_enhancement"
)

// SubmissionError is a fatal submission failure. Message is safe to show
// to the client; Err is for logs only.
type SubmissionError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// StatusCode maps the failure kind to an HTTP status
func (e *SubmissionError) StatusCode() int {
	switch e.Kind {
	case Unauthenticated:
		return http.StatusUnauthorized
	case InvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// SessionValidator verifies the local session token
type SessionValidator interface {
	ValidateToken(token string) (string, error)
}

// ObjectStorage is the privileged storage handle
type ObjectStorage interface {
	GetBucket(ctx context.Context, bucketID string) (*models.Bucket, error)
	CreateFile(ctx context.Context, bucket *models.Bucket, ownerID, fileID string, a storage.Attachment) (*models.File, error)
	ViewURL(bucketID, fileID string) string
}

// StorageConnector hands out the privileged storage handle
type StorageConnector interface {
	AdminStorage(ctx context.Context, projectID, apiKey string) (ObjectStorage, error)
}

type StorageConnectorFunc func(ctx context.Context, projectID, apiKey string) (ObjectStorage, error)

func (f StorageConnectorFunc) AdminStorage(ctx context.Context, projectID, apiKey string) (ObjectStorage, error) {
	return f(ctx, projectID, apiKey)
}

// DocumentStore persists campaign drafts on behalf of one user
type DocumentStore interface {
	OwnerID() string
	Create(ctx context.Context, campaign *models.Campaign) error
}

// DocumentConnector hands out a user scoped document store for a provider
// session secret
type DocumentConnector interface {
	SessionDocuments(ctx context.Context, sessionSecret string) (DocumentStore, error)
}

type DocumentConnectorFunc func(ctx context.Context, sessionSecret string) (DocumentStore, error)

func (f DocumentConnectorFunc) SessionDocuments(ctx context.Context, sessionSecret string) (DocumentStore, error) {
	return f(ctx, sessionSecret)
}

// EventPublisher publishes JSON messages to a queue
type EventPublisher interface {
	PublishMessage(ctx context.Context, queueName string, message interface{}) error
}

// Request is one campaign submission. Form parses the multipart body
// and is only called once configuration and authentication have passed.
type Request struct {
	LocalToken    string
	SessionSecret string
	Form          func() (*multipart.Form, error)
}

// Result is a created draft with the non-fatal upload failures
type Result struct {
	Campaign     *models.Campaign
	Media        []models.MediaReference
	UploadErrors []string
}

// Message returns the success message matching the outcome
func (r *Result) Message() string {
	if len(r.UploadErrors) > 0 {
		return MsgCreatedWithWarnings
	}
	return MsgCreated
}

// CampaignEvent is the payload of campaign queue messages
type CampaignEvent struct {
	Type       string    `json:"type"`
	CampaignID string    `json:"campaignId"`
	UserID     string    `json:"userId"`
	Platform   string    `json:"platform"`
	Name       string    `json:"name"`
	MediaCount int       `json:"mediaCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Submitter runs the campaign submission pipeline
type Submitter struct {
	settings    config.Submission
	sessions    SessionValidator
	storage     StorageConnector
	documents   DocumentConnector
	publisher   EventPublisher
	concurrency int
	newID       func() string
	now         func() time.Time
}

// NewSubmitter builds a submitter. publisher may be nil.
func NewSubmitter(settings config.Submission, upload config.Upload, sessions SessionValidator, storage StorageConnector, documents DocumentConnector, publisher EventPublisher) *Submitter {
	return &Submitter{
		settings:    settings,
		sessions:    sessions,
		storage:     storage,
		documents:   documents,
		publisher:   publisher,
		concurrency: upload.Limit(),
		newID:       uuid.NewString,
		now:         time.Now,
	}
}

// Submit validates, uploads and persists one campaign draft. Every step
// runs once, in order, and a fatal step stops the pipeline. Stored files
// are not removed when persisting the draft fails.
func (s *Submitter) Submit(ctx context.Context, req Request) (*Result, error) {
	if missing := s.settings.Missing(); len(missing) > 0 {
		logrus.Errorf("Missing required environment variables: %s", strings.Join(missing, ", "))
		return nil, s.fail(ConfigurationError, MsgConfiguration, fmt.Errorf("missing %s", strings.Join(missing, ", ")))
	}

	userID, err := s.sessions.ValidateToken(req.LocalToken)
	if err != nil {
		logrus.WithError(err).Info("Campaign submission rejected: unauthenticated")
		return nil, &SubmissionError{Kind: Unauthenticated, Message: MsgUnauthenticated, Err: err}
	}
	log := logrus.WithField("user_id", userID)

	if req.Form == nil {
		return nil, &SubmissionError{Kind: InvalidRequest, Message: "request body is not a multipart form"}
	}
	mf, err := req.Form()
	if err != nil {
		log.WithError(err).Warn("Failed to parse multipart body")
		return nil, &SubmissionError{Kind: InvalidRequest, Message: "Invalid form data", Err: err}
	}
	form, err := DecodeForm(mf)
	if err != nil {
		log.WithError(err).Warn("Campaign form rejected")
		return nil, &SubmissionError{Kind: InvalidRequest, Message: err.Error(), Err: err}
	}

	objects, err := s.storage.AdminStorage(ctx, s.settings.ProjectID, s.settings.APIKey)
	if err != nil {
		log.WithError(err).Error("Admin storage connection failed")
		return nil, s.fail(StorageUnavailable, MsgStorageConnection, err)
	}
	docs, err := s.documents.SessionDocuments(ctx, req.SessionSecret)
	if err != nil {
		log.WithError(err).Error("Client database connection failed")
		return nil, s.fail(StorageUnavailable, MsgDatabaseConnection, err)
	}
	if owner := docs.OwnerID(); owner != userID {
		log.WithField("session_user_id", owner).Warn("Campaign submission rejected: local and provider sessions belong to different users")
		return nil, &SubmissionError{
			Kind:    Unauthenticated,
			Message: MsgUnauthenticated,
			Err:     fmt.Errorf("provider session belongs to user %q", owner),
		}
	}

	bucket, err := objects.GetBucket(ctx, s.settings.BucketID)
	if err != nil {
		log.WithError(err).WithField("bucket_id", s.settings.BucketID).Error("Storage bucket verification failed")
		return nil, s.fail(StorageUnavailable, MsgStorageUnavailable, err)
	}

	uploadErrors := append([]string(nil), form.Rejected...)
	campaign := s.draft(userID, form)

	var media []models.MediaReference
	if form.MediaFile != nil {
		refs, errs := s.uploadAll(ctx, objects, bucket, userID, []storage.Attachment{form.MediaFile})
		uploadErrors = append(uploadErrors, errs...)
		if len(refs) > 0 {
			campaign.MediaFileURL = refs[0].URL
			campaign.MediaFileID = refs[0].ID
			media = append(media, refs...)
		}
	}
	if len(form.MediaFiles) > 0 {
		refs, errs := s.uploadAll(ctx, objects, bucket, userID, form.MediaFiles)
		uploadErrors = append(uploadErrors, errs...)
		if len(refs) > 0 {
			campaign.MediaFileURLs, campaign.MediaFileIDs = encodeReferences(refs)
			media = append(media, refs...)
		}
	}
	if len(uploadErrors) > 0 {
		log.Warnf("%d file(s) failed to upload: %v", len(uploadErrors), uploadErrors)
	}

	if err := docs.Create(ctx, campaign); err != nil {
		log.WithError(err).WithField("campaign_id", campaign.ID).Error("Campaign creation failed")
		return nil, s.fail(PersistenceFailure, MsgPersistenceFailure, err)
	}
	log.WithFields(logrus.Fields{
		"campaign_id": campaign.ID,
		"platform":    campaign.Platform,
		"media":       len(media),
	}).Info("Campaign created")

	s.publish(ctx, campaign, len(media))

	return &Result{
		Campaign:     campaign,
		Media:        media,
		UploadErrors: uploadErrors,
	}, nil
}

func (s *Submitter) draft(userID string, form *Form) *models.Campaign {
	campaign := &models.Campaign{
		ID:             s.newID(),
		UserID:         userID,
		Name:           form.Name,
		Platform:       form.Platform,
		Budget:         form.Budget,
		BudgetType:     form.BudgetType,
		Currency:       form.Currency,
		DateRangeStart: form.DateRangeStart,
		DateRangeEnd:   form.DateRangeEnd,
		Description:    form.Description,
		EnhanceWithAI:  form.EnhanceWithAI,
		Status:         models.CampaignStatusDraft,
	}
	if len(form.Details) > 0 {
		if details, err := json.Marshal(form.Details); err == nil {
			campaign.PlatformDetails = string(details)
		}
	}
	return campaign
}

// uploadAll stores each attachment independently with at most
// s.concurrency uploads in flight. References and errors keep the order
// of list. Stored files are owned by ownerID.
func (s *Submitter) uploadAll(ctx context.Context, objects ObjectStorage, bucket *models.Bucket, ownerID string, list []storage.Attachment) ([]models.MediaReference, []string) {
	refs := make([]*models.MediaReference, len(list))
	errs := make([]string, len(list))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, a := range list {
		g.Go(func() error {
			ref, err := s.upload(ctx, objects, bucket, ownerID, a)
			if err != nil {
				errs[i] = fmt.Sprintf("Failed to upload file: %s - %s", a.Filename(), err)
				return nil
			}
			refs[i] = ref
			return nil
		})
	}
	_ = g.Wait()

	var okRefs []models.MediaReference
	var failures []string
	for i := range list {
		if refs[i] != nil {
			okRefs = append(okRefs, *refs[i])
		}
		if errs[i] != "" {
			failures = append(failures, errs[i])
		}
	}
	return okRefs, failures
}

func (s *Submitter) upload(ctx context.Context, objects ObjectStorage, bucket *models.Bucket, ownerID string, a storage.Attachment) (*models.MediaReference, error) {
	file, err := objects.CreateFile(ctx, bucket, ownerID, s.newID(), a)
	if err != nil {
		logrus.WithError(err).WithField("file", a.Filename()).Error("Failed to upload file")
		return nil, err
	}
	if file == nil || file.ID == "" {
		return nil, fmt.Errorf("upload result is missing file ID")
	}
	return &models.MediaReference{
		ID:           file.ID,
		URL:          objects.ViewURL(bucket.ID, file.ID),
		OriginalName: a.Filename(),
		Size:         file.Size,
		Type:         a.ContentType(),
	}, nil
}

func encodeReferences(refs []models.MediaReference) (urls string, ids string) {
	u := make([]string, len(refs))
	i := make([]string, len(refs))
	for n, ref := range refs {
		u[n] = ref.URL
		i[n] = ref.ID
	}
	urlJSON, _ := json.Marshal(u)
	idJSON, _ := json.Marshal(i)
	return string(urlJSON), string(idJSON)
}

func (s *Submitter) publish(ctx context.Context, campaign *models.Campaign, mediaCount int) {
	if s.publisher == nil {
		return
	}
	event := CampaignEvent{
		Type:       "campaign.created",
		CampaignID: campaign.ID,
		UserID:     campaign.UserID,
		Platform:   campaign.Platform,
		Name:       campaign.Name,
		MediaCount: mediaCount,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.publisher.PublishMessage(ctx, QueueCampaignEvents, event); err != nil {
		logrus.WithError(err).Warn("Failed to publish campaign.created")
	}
	if campaign.EnhanceWithAI {
		event.Type = "campaign.enhance"
		if err := s.publisher.PublishMessage(ctx, QueueCampaignEnhancement, event); err != nil {
			logrus.WithError(err).Warn("Failed to publish campaign.enhance")
		}
	}
}

func (s *Submitter) fail(kind ErrorKind, message string, err error) *SubmissionError {
	utils.CaptureError(err, map[string]string{"stage": kindName(kind)})
	return &SubmissionError{Kind: kind, Message: message, Err: err}
}

func kindName(kind ErrorKind) string {
	switch kind {
	case ConfigurationError:
		return "configuration"
	case StorageUnavailable:
		return "storage"
	case PersistenceFailure:
		return "persistence"
	default:
		return "submission"
	}
}
