package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/config"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/middleware"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/models"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/services"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/services/auth"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/services/campaign"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/storage"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testSubmission = config.Submission{
	DatabaseID:   "dashboard",
	CollectionID: "campaigns",
	BucketID:     "media",
	Endpoint:     "http://example.test/api/v1",
	ProjectID:    "dashboard",
	APIKey:       "server-key",
	SigningKey:   "signing-key",
}

type memBuckets struct {
	buckets map[string]*models.Bucket
}

func (m *memBuckets) GetByID(_ context.Context, id string) (*models.Bucket, error) {
	if b, ok := m.buckets[id]; ok {
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type memFiles struct {
	mu    sync.Mutex
	files map[string]*models.File
}

func (m *memFiles) Create(_ context.Context, f *models.File) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f.CreatedAt = time.Now()
	m.files[f.BucketID+"/"+f.ID] = f
	return nil
}

func (m *memFiles) GetByID(_ context.Context, bucketID, id string) (*models.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.files[bucketID+"/"+id]; ok {
		return f, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memFiles) ListByBucket(_ context.Context, ownerID, bucketID string, offset, limit int) ([]*models.File, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.File
	for _, f := range m.files {
		if f.BucketID == bucketID && f.OwnerID == ownerID {
			out = append(out, f)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memFiles) Delete(_ context.Context, bucketID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, bucketID+"/"+id)
	return nil
}

type memDocuments struct {
	mu      sync.Mutex
	owner   string
	created []*models.Campaign
}

func (d *memDocuments) OwnerID() string { return d.owner }

func (d *memDocuments) Create(_ context.Context, c *models.Campaign) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.created = append(d.created, c)
	return nil
}

// stack is a campaign and storage API backed by a local directory
type stack struct {
	router *gin.Engine
	tokens *auth.TokenService
	files  *services.FileService
	docs   *memDocuments
	fileDB *memFiles
}

func newStack(t *testing.T, settings config.Submission) *stack {
	t.Helper()

	objects, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, objects.CreateBucket(context.Background(), "media"))

	buckets := &memBuckets{buckets: map[string]*models.Bucket{
		"media": {ID: "media", Name: "media", Enabled: true},
	}}
	fileDB := &memFiles{files: map[string]*models.File{}}
	fileService := services.NewFileService(objects, buckets, fileDB, settings)
	tokens := auth.NewTokenService(settings.SigningKey)
	docs := &memDocuments{owner: "user-1"}

	submitter := campaign.NewSubmitter(settings, config.Upload{Concurrency: 4}, tokens,
		campaign.StorageConnectorFunc(func(ctx context.Context, projectID, apiKey string) (campaign.ObjectStorage, error) {
			return fileService.AdminStorage(ctx, projectID, apiKey)
		}),
		campaign.DocumentConnectorFunc(func(_ context.Context, secret string) (campaign.DocumentStore, error) {
			if secret != "secret" {
				return nil, auth.ErrSessionNotFound
			}
			return docs, nil
		}),
		nil,
	)

	campaignHandler := NewCampaignHandler(submitter, nil, nil)
	storageHandler := NewStorageHandler(fileService)

	r := gin.New()
	api := r.Group("/api/v1")
	api.POST("/campaigns/create", campaignHandler.CreateCampaign)
	api.GET("/storage/buckets/:bucketId/files/:fileId/view", storageHandler.ViewFile)
	api.GET("/storage/buckets/:bucketId/files/:fileId/download", storageHandler.DownloadFile)

	session := middleware.NewSessionMiddleware(tokens, time.Hour, false)
	protected := api.Group("", session.RequireSession())
	protected.GET("/storage/buckets/:bucketId/files", storageHandler.ListFiles)
	protected.DELETE("/storage/buckets/:bucketId/files/:fileId", storageHandler.DeleteFile)

	return &stack{router: r, tokens: tokens, files: fileService, docs: docs, fileDB: fileDB}
}

type multipartBody struct {
	buf         bytes.Buffer
	w           *multipart.Writer
	contentType string
}

func newMultipart() *multipartBody {
	b := &multipartBody{}
	b.w = multipart.NewWriter(&b.buf)
	return b
}

func (b *multipartBody) field(name, value string) *multipartBody {
	_ = b.w.WriteField(name, value)
	return b
}

func (b *multipartBody) file(field, filename, contentType string, data []byte) *multipartBody {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
	h.Set("Content-Type", contentType)
	pw, _ := b.w.CreatePart(h)
	_, _ = pw.Write(data)
	return b
}

func (b *multipartBody) request(t *testing.T, path string) *http.Request {
	t.Helper()
	require.NoError(t, b.w.Close())
	req := httptest.NewRequest(http.MethodPost, path, &b.buf)
	req.Header.Set("Content-Type", b.w.FormDataContentType())
	return req
}

func withSession(t *testing.T, req *http.Request, tokens *auth.TokenService, expiresAt time.Time) *http.Request {
	t.Helper()
	return withUserSession(t, req, tokens, "user-1", expiresAt)
}

func withUserSession(t *testing.T, req *http.Request, tokens *auth.TokenService, userID string, expiresAt time.Time) *http.Request {
	t.Helper()
	token, err := tokens.Issue(userID, expiresAt)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: utils.AppSessionCookie, Value: "secret"})
	req.AddCookie(&http.Cookie{Name: utils.LocalSessionCookie, Value: token})
	return req
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// localPath turns a public file URL into a request path on the test router
func localPath(url string) string {
	return strings.TrimPrefix(url, "http://example.test")
}
