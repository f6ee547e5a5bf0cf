package storage

import (
	"fmt"
	"net/url"
	"strings"
)

// ViewURL returns the public inline URL of a stored file
func ViewURL(endpoint, bucketID, fileID string) string {
	return fileURL(endpoint, bucketID, fileID, "view")
}

// DownloadURL returns the public attachment URL of a stored file
func DownloadURL(endpoint, bucketID, fileID string) string {
	return fileURL(endpoint, bucketID, fileID, "download")
}

// WithProject appends the project query parameter to a file URL
func WithProject(fileURL, projectID string) string {
	if projectID == "" {
		return fileURL
	}
	return fileURL + "?project=" + url.QueryEscape(projectID)
}

func fileURL(endpoint, bucketID, fileID, action string) string {
	return fmt.Sprintf("%s/storage/buckets/%s/files/%s/%s",
		strings.TrimRight(endpoint, "/"), bucketID, fileID, action)
}
