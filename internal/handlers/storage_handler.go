package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/models"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/services"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/utils"
)

// FileStore serves stored files
type FileStore interface {
	ProjectID() string
	OpenFile(ctx context.Context, bucketID, fileID string) (*models.File, io.ReadCloser, error)
	DeleteFile(ctx context.Context, ownerID, bucketID, fileID string) error
	ListFiles(ctx context.Context, ownerID, bucketID string, page, pageSize int) ([]*models.File, utils.PaginationResponse, error)
	FileToResponse(file *models.File) models.FileResponse
}

type StorageHandler struct {
	files FileStore
}

func NewStorageHandler(files FileStore) *StorageHandler {
	return &StorageHandler{files: files}
}

// ViewFile godoc
// @Summary View file
// @Description Stream a stored file inline with its original content type
// @Tags storage
// @Produce octet-stream
// @Param bucketId path string true "Bucket ID"
// @Param fileId path string true "File ID"
// @Param project query string false "Project ID"
// @Success 200 {file} file
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/storage/buckets/{bucketId}/files/{fileId}/view [get]
func (h *StorageHandler) ViewFile(c *gin.Context) {
	h.serveFile(c, "inline")
}

// DownloadFile godoc
// @Summary Download file
// @Description Download a stored file as an attachment
// @Tags storage
// @Produce octet-stream
// @Param bucketId path string true "Bucket ID"
// @Param fileId path string true "File ID"
// @Param project query string false "Project ID"
// @Success 200 {file} file
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/storage/buckets/{bucketId}/files/{fileId}/download [get]
func (h *StorageHandler) DownloadFile(c *gin.Context) {
	h.serveFile(c, "attachment")
}

func (h *StorageHandler) serveFile(c *gin.Context, disposition string) {
	if project := c.Query("project"); project != "" && project != h.files.ProjectID() {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	file, rc, err := h.files.OpenFile(c.Request.Context(), c.Param("bucketId"), c.Param("fileId"))
	if err != nil {
		if errors.Is(err, services.ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		logrus.Errorf("Failed to open file: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	defer rc.Close()

	contentType := file.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, file.Size, contentType, rc, map[string]string{
		"Content-Disposition": fmt.Sprintf("%s; filename=%s", disposition, strconv.Quote(file.Name)),
	})
}

// ListFiles godoc
// @Summary List files
// @Description List the files the current user stored in a bucket
// @Tags storage
// @Produce json
// @Param bucketId path string true "Bucket ID"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/storage/buckets/{bucketId}/files [get]
func (h *StorageHandler) ListFiles(c *gin.Context) {
	userID := c.MustGet("user_id").(string)
	page, pageSize := utils.ParsePaginationFromQuery(c.Query("page"), c.Query("page_size"))

	files, pagination, err := h.files.ListFiles(c.Request.Context(), userID, c.Param("bucketId"), page, pageSize)
	if err != nil {
		logrus.Errorf("Failed to list files: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list files"})
		return
	}

	responses := make([]models.FileResponse, len(files))
	for i, file := range files {
		responses[i] = h.files.FileToResponse(file)
	}
	c.JSON(http.StatusOK, gin.H{
		"data":       responses,
		"pagination": pagination,
	})
}

// DeleteFile godoc
// @Summary Delete file
// @Description Delete a file the current user stored, with its metadata
// @Tags storage
// @Produce json
// @Param bucketId path string true "Bucket ID"
// @Param fileId path string true "File ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/storage/buckets/{bucketId}/files/{fileId} [delete]
func (h *StorageHandler) DeleteFile(c *gin.Context) {
	userID := c.MustGet("user_id").(string)
	err := h.files.DeleteFile(c.Request.Context(), userID, c.Param("bucketId"), c.Param("fileId"))
	if err != nil {
		if errors.Is(err, services.ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		logrus.Errorf("Failed to delete file: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}
