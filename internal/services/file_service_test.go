package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/config"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/models"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/storage"
)

type MockBucketRepository struct {
	mock.Mock
}

func (m *MockBucketRepository) GetByID(ctx context.Context, id string) (*models.Bucket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bucket), args.Error(1)
}

type MockFileRepository struct {
	mock.Mock
}

func (m *MockFileRepository) Create(ctx context.Context, file *models.File) error {
	return m.Called(ctx, file).Error(0)
}

func (m *MockFileRepository) GetByID(ctx context.Context, bucketID, id string) (*models.File, error) {
	args := m.Called(ctx, bucketID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.File), args.Error(1)
}

func (m *MockFileRepository) ListByBucket(ctx context.Context, ownerID, bucketID string, offset, limit int) ([]*models.File, int64, error) {
	args := m.Called(ctx, ownerID, bucketID, offset, limit)
	return args.Get(0).([]*models.File), args.Get(1).(int64), args.Error(2)
}

func (m *MockFileRepository) Delete(ctx context.Context, bucketID, id string) error {
	return m.Called(ctx, bucketID, id).Error(0)
}

type memAttachment struct {
	name        string
	contentType string
	data        []byte
}

func (a *memAttachment) Filename() string    { return a.name }
func (a *memAttachment) ContentType() string { return a.contentType }
func (a *memAttachment) Size() int64         { return int64(len(a.data)) }
func (a *memAttachment) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(a.data)), nil
}

var testSubmission = config.Submission{
	DatabaseID:   "dashboard",
	CollectionID: "campaigns",
	BucketID:     "media",
	Endpoint:     "http://localhost:8080/api/v1",
	ProjectID:    "dashboard",
	APIKey:       "server-key",
	SigningKey:   "signing-key",
}

func newTestFileService(t *testing.T) (*FileService, *storage.LocalStore, *MockBucketRepository, *MockFileRepository) {
	t.Helper()
	objects, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	buckets := new(MockBucketRepository)
	files := new(MockFileRepository)
	return NewFileService(objects, buckets, files, testSubmission), objects, buckets, files
}

func TestAdminStorage(t *testing.T) {
	svc, _, _, _ := newTestFileService(t)
	ctx := context.Background()

	handle, err := svc.AdminStorage(ctx, "dashboard", "server-key")
	require.NoError(t, err)
	assert.Same(t, svc, handle)

	_, err = svc.AdminStorage(ctx, "dashboard", "wrong")
	assert.ErrorIs(t, err, ErrInvalidAPIKey)

	_, err = svc.AdminStorage(ctx, "other", "server-key")
	assert.ErrorIs(t, err, ErrInvalidAPIKey)
}

func TestGetBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("not registered", func(t *testing.T) {
		svc, _, buckets, _ := newTestFileService(t)
		buckets.On("GetByID", ctx, "media").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.GetBucket(ctx, "media")
		assert.ErrorIs(t, err, ErrBucketNotFound)
	})

	t.Run("missing in backend", func(t *testing.T) {
		svc, _, buckets, _ := newTestFileService(t)
		buckets.On("GetByID", ctx, "media").Return(&models.Bucket{ID: "media", Enabled: true}, nil)

		_, err := svc.GetBucket(ctx, "media")
		assert.ErrorIs(t, err, ErrBucketNotFound)
	})

	t.Run("disabled", func(t *testing.T) {
		svc, objects, buckets, _ := newTestFileService(t)
		require.NoError(t, objects.CreateBucket(ctx, "media"))
		buckets.On("GetByID", ctx, "media").Return(&models.Bucket{ID: "media", Enabled: false}, nil)

		_, err := svc.GetBucket(ctx, "media")
		assert.ErrorIs(t, err, ErrBucketDisabled)
	})

	t.Run("usable", func(t *testing.T) {
		svc, objects, buckets, _ := newTestFileService(t)
		require.NoError(t, objects.CreateBucket(ctx, "media"))
		buckets.On("GetByID", ctx, "media").Return(&models.Bucket{ID: "media", Name: "Media", Enabled: true}, nil)

		bucket, err := svc.GetBucket(ctx, "media")
		require.NoError(t, err)
		assert.Equal(t, "Media", bucket.Name)
	})
}

func TestCreateFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, objects, _, files := newTestFileService(t)
	require.NoError(t, objects.CreateBucket(ctx, "media"))

	bucket := &models.Bucket{ID: "media", Enabled: true}
	payload := bytes.Repeat([]byte{0x89, 'P', 'N', 'G'}, 512)
	att := &memAttachment{name: "banner.png", contentType: "image/png", data: payload}

	files.On("Create", ctx, mock.MatchedBy(func(f *models.File) bool {
		return f.ID == "f-1" && f.BucketID == "media" && f.OwnerID == "user-1" && f.Size == int64(len(payload)) && f.MimeType == "image/png"
	})).Return(nil)

	file, err := svc.CreateFile(ctx, bucket, "user-1", "f-1", att)
	require.NoError(t, err)
	assert.Equal(t, "banner.png", file.Name)
	files.AssertExpectations(t)

	files.On("GetByID", ctx, "media", "f-1").Return(file, nil)
	meta, rc, err := svc.OpenFile(ctx, "media", "f-1")
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, int64(len(got)), meta.Size)

	assert.Equal(t, "http://localhost:8080/api/v1/storage/buckets/media/files/f-1/view", svc.ViewURL("media", "f-1"))
}

func TestCreateFileLimits(t *testing.T) {
	ctx := context.Background()
	svc, objects, _, files := newTestFileService(t)
	require.NoError(t, objects.CreateBucket(ctx, "media"))

	bucket := &models.Bucket{ID: "media", Enabled: true, MaximumFileSize: 4, AllowedFileExtensions: "jpg, .PNG"}

	_, err := svc.CreateFile(ctx, bucket, "user-1", "f-1", &memAttachment{name: "a.png", contentType: "image/png", data: []byte("too big")})
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = svc.CreateFile(ctx, bucket, "user-1", "f-2", &memAttachment{name: "a.gif", contentType: "image/gif", data: []byte("gif")})
	assert.ErrorIs(t, err, ErrExtensionNotAllowed)

	files.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateFileRemovesObjectWhenRecordFails(t *testing.T) {
	ctx := context.Background()
	svc, objects, _, files := newTestFileService(t)
	require.NoError(t, objects.CreateBucket(ctx, "media"))

	files.On("Create", ctx, mock.Anything).Return(errors.New("insert failed"))

	_, err := svc.CreateFile(ctx, &models.Bucket{ID: "media", Enabled: true}, "user-1", "f-1",
		&memAttachment{name: "a.png", contentType: "image/png", data: []byte("png")})
	require.Error(t, err)

	_, err = objects.Get(ctx, "media", "f-1")
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}

func TestOpenFileNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, _, files := newTestFileService(t)
	files.On("GetByID", ctx, "media", "nope").Return(nil, gorm.ErrRecordNotFound)

	_, _, err := svc.OpenFile(ctx, "media", "nope")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestDeleteFileOwnership(t *testing.T) {
	ctx := context.Background()
	svc, objects, _, files := newTestFileService(t)
	require.NoError(t, objects.CreateBucket(ctx, "media"))
	require.NoError(t, objects.Put(ctx, "media", "f-1", bytes.NewReader([]byte("png")), 3, "image/png"))

	files.On("GetByID", ctx, "media", "f-1").Return(&models.File{ID: "f-1", BucketID: "media", OwnerID: "user-a"}, nil)

	err := svc.DeleteFile(ctx, "user-b", "media", "f-1")
	assert.ErrorIs(t, err, ErrFileNotFound)
	files.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	rc, err := objects.Get(ctx, "media", "f-1")
	require.NoError(t, err)
	rc.Close()

	files.On("Delete", ctx, "media", "f-1").Return(nil)
	require.NoError(t, svc.DeleteFile(ctx, "user-a", "media", "f-1"))
	_, err = objects.Get(ctx, "media", "f-1")
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}

func TestListFilesScopedToOwner(t *testing.T) {
	ctx := context.Background()
	svc, _, _, files := newTestFileService(t)
	files.On("ListByBucket", ctx, "user-a", "media", 0, 20).
		Return([]*models.File{{ID: "f-1", BucketID: "media", OwnerID: "user-a"}}, int64(1), nil)

	list, pagination, err := svc.ListFiles(ctx, "user-a", "media", 1, 20)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, pagination.Total)
	files.AssertExpectations(t)
}

func TestFileToResponse(t *testing.T) {
	svc, _, _, _ := newTestFileService(t)
	resp := svc.FileToResponse(&models.File{ID: "f-1", BucketID: "media", Name: "a.png", Size: 3})
	assert.Equal(t, "http://localhost:8080/api/v1/storage/buckets/media/files/f-1/view?project=dashboard", resp.ViewURL)
	assert.Equal(t, "http://localhost:8080/api/v1/storage/buckets/media/files/f-1/download?project=dashboard", resp.DownloadURL)
}
