package storage

import (
	"io"
	"mime/multipart"
)

// Attachment is one uploaded file waiting to be stored
type Attachment interface {
	Filename() string
	ContentType() string
	Size() int64
	Open() (io.ReadCloser, error)
}

// FileHeaderAttachment adapts a parsed multipart file part to Attachment
type FileHeaderAttachment struct {
	header *multipart.FileHeader
}

func NewFileHeaderAttachment(header *multipart.FileHeader) *FileHeaderAttachment {
	return &FileHeaderAttachment{header: header}
}

func (a *FileHeaderAttachment) Filename() string {
	return a.header.Filename
}

func (a *FileHeaderAttachment) ContentType() string {
	return a.header.Header.Get("Content-Type")
}

func (a *FileHeaderAttachment) Size() int64 {
	return a.header.Size
}

func (a *FileHeaderAttachment) Open() (io.ReadCloser, error) {
	return a.header.Open()
}
