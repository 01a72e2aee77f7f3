// Package storage is the contract for the external file-storage backend
// (S3/R2/etc.). Only file metadata is persisted by this service; bytes live
// behind these calls.
package storage

import "context"

type Upload struct {
	FileName string
	MimeType string
	Size     int64
	Content  []byte
}

type UploadOptions struct {
	Folder           string
	AllowedMimeTypes []string
	MaxSizeBytes     int64
}

// Uploaded describes one stored file. URL is what gets persisted.
type Uploaded struct {
	URL      string
	FileName string
	FileSize int64
	MimeType string
}

type Storage interface {
	UploadFiles(ctx context.Context, files []Upload, opts UploadOptions) ([]Uploaded, error)
	GetFile(ctx context.Context, key string) ([]byte, error)
	ExtractKeyFromURL(url string) (string, error)
}
