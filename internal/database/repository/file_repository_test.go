package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/models"
)

func TestFileCreate(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "storage_files"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := NewFileRepository(db).Create(context.Background(), &models.File{
		ID:       "f-1",
		BucketID: "media",
		OwnerID:  "user-1",
		Name:     "banner.png",
		MimeType: "image/png",
		Size:     2048,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFileListByBucket(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "storage_files" WHERE bucket_id = $1 AND owner_id = $2`)).
		WithArgs("media", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "storage_files" WHERE bucket_id = $1 AND owner_id = $2 ORDER BY created_at DESC LIMIT $3`)).
		WithArgs("media", "user-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "bucket_id", "owner_id", "name"}).AddRow("f-2", "media", "user-1", "b.png"))

	files, total, err := NewFileRepository(db).ListByBucket(context.Background(), "user-1", "media", 0, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, files, 1)
	assert.Equal(t, "f-2", files[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
