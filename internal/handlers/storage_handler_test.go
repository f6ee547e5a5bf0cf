package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/storage"
)

type bytesAttachment struct {
	name, contentType string
	data              []byte
}

func (a *bytesAttachment) Filename() string    { return a.name }
func (a *bytesAttachment) ContentType() string { return a.contentType }
func (a *bytesAttachment) Size() int64         { return int64(len(a.data)) }
func (a *bytesAttachment) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(a.data)), nil
}

func storeFile(t *testing.T, s *stack, ownerID, id string, data []byte) {
	t.Helper()
	ctx := context.Background()
	bucket, err := s.files.GetBucket(ctx, "media")
	require.NoError(t, err)
	_, err = s.files.CreateFile(ctx, bucket, ownerID, id, &bytesAttachment{name: "report.pdf", contentType: "application/pdf", data: data})
	require.NoError(t, err)
}

func TestStorageHandler_Download(t *testing.T) {
	s := newStack(t, testSubmission)
	storeFile(t, s, "user-1", "file-1", []byte("%PDF-1.7"))

	url := storage.WithProject(storage.DownloadURL(testSubmission.Endpoint, "media", "file-1"), "dashboard")
	w := serve(s.router, httptest.NewRequest(http.MethodGet, localPath(url), nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="report.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF-1.7", w.Body.String())
}

func TestStorageHandler_NotFound(t *testing.T) {
	s := newStack(t, testSubmission)
	storeFile(t, s, "user-1", "file-1", []byte("data"))

	w := serve(s.router, httptest.NewRequest(http.MethodGet, "/api/v1/storage/buckets/media/files/missing/view", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(s.router, httptest.NewRequest(http.MethodGet, "/api/v1/storage/buckets/media/files/file-1/view?project=other", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStorageHandler_ListAndDelete(t *testing.T) {
	s := newStack(t, testSubmission)
	storeFile(t, s, "user-1", "file-1", []byte("data"))
	expires := time.Now().Add(time.Hour)

	list := httptest.NewRequest(http.MethodGet, "/api/v1/storage/buckets/media/files", nil)
	w := serve(s.router, withSession(t, list, s.tokens, expires))
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON(t, w)
	files := body["data"].([]interface{})
	require.Len(t, files, 1)
	assert.Equal(t, "http://example.test/api/v1/storage/buckets/media/files/file-1/view?project=dashboard", files[0].(map[string]interface{})["view_url"])

	del := httptest.NewRequest(http.MethodDelete, "/api/v1/storage/buckets/media/files/file-1", nil)
	w = serve(s.router, withSession(t, del, s.tokens, expires))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(s.router, httptest.NewRequest(http.MethodGet, "/api/v1/storage/buckets/media/files/file-1/view", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	del = httptest.NewRequest(http.MethodDelete, "/api/v1/storage/buckets/media/files/file-1", nil)
	w = serve(s.router, withSession(t, del, s.tokens, expires))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStorageHandler_RequiresSession(t *testing.T) {
	s := newStack(t, testSubmission)
	storeFile(t, s, "user-1", "file-1", []byte("data"))

	w := serve(s.router, httptest.NewRequest(http.MethodGet, "/api/v1/storage/buckets/media/files", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(s.router, httptest.NewRequest(http.MethodDelete, "/api/v1/storage/buckets/media/files/file-1", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	_, err := s.fileDB.GetByID(context.Background(), "media", "file-1")
	assert.NoError(t, err)
}

func TestStorageHandler_OtherUsersFiles(t *testing.T) {
	s := newStack(t, testSubmission)
	storeFile(t, s, "user-a", "file-a", []byte("from a"))
	storeFile(t, s, "user-b", "file-b", []byte("from b"))
	expires := time.Now().Add(time.Hour)

	del := httptest.NewRequest(http.MethodDelete, "/api/v1/storage/buckets/media/files/file-a", nil)
	w := serve(s.router, withUserSession(t, del, s.tokens, "user-b", expires))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(s.router, httptest.NewRequest(http.MethodGet, "/api/v1/storage/buckets/media/files/file-a/view", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "from a", w.Body.String())

	list := httptest.NewRequest(http.MethodGet, "/api/v1/storage/buckets/media/files", nil)
	w = serve(s.router, withUserSession(t, list, s.tokens, "user-b", expires))
	require.Equal(t, http.StatusOK, w.Code)
	files := decodeJSON(t, w)["data"].([]interface{})
	require.Len(t, files, 1)
	assert.Equal(t, "file-b", files[0].(map[string]interface{})["id"])
}
