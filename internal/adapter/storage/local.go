// Package storage implements the file backend on the local filesystem. Keys
// are {folder}/{random}-{filename}; URLs are the configured base plus the key.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	domain "lendops-backend/internal/domain/storage"
	"lendops-backend/pkg/id"
)

type Local struct {
	dir     string
	baseURL string
}

func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage dir %s: %w", dir, err)
	}
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (l *Local) UploadFiles(_ context.Context, files []domain.Upload, opts domain.UploadOptions) ([]domain.Uploaded, error) {
	out := make([]domain.Uploaded, 0, len(files))
	for _, f := range files {
		if err := checkUpload(f, opts); err != nil {
			return nil, err
		}
		key := filepath.ToSlash(filepath.Join(opts.Folder, id.NewID32()+"-"+sanitizeName(f.FileName)))
		path := filepath.Join(l.dir, filepath.FromSlash(key))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, f.Content, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", key, err)
		}
		out = append(out, domain.Uploaded{
			URL:      l.baseURL + "/" + key,
			FileName: f.FileName,
			FileSize: int64(len(f.Content)),
			MimeType: f.MimeType,
		})
	}
	return out, nil
}

func checkUpload(f domain.Upload, opts domain.UploadOptions) error {
	if opts.MaxSizeBytes > 0 && int64(len(f.Content)) > opts.MaxSizeBytes {
		return fmt.Errorf("file %q exceeds %d bytes", f.FileName, opts.MaxSizeBytes)
	}
	if len(opts.AllowedMimeTypes) == 0 {
		return nil
	}
	for _, m := range opts.AllowedMimeTypes {
		if strings.EqualFold(m, f.MimeType) {
			return nil
		}
	}
	return fmt.Errorf("file %q has disallowed type %s", f.FileName, f.MimeType)
}

// sanitizeName strips path separators so a client-supplied name can never
// escape the storage folder.
func sanitizeName(name string) string {
	name = filepath.Base(filepath.ToSlash(name))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "file"
	}
	return name
}

func (l *Local) GetFile(_ context.Context, key string) ([]byte, error) {
	return os.ReadFile(filepath.Join(l.dir, filepath.FromSlash(key)))
}

func (l *Local) ExtractKeyFromURL(url string) (string, error) {
	if !strings.HasPrefix(url, l.baseURL+"/") {
		return "", fmt.Errorf("url %q is not served by this storage", url)
	}
	return strings.TrimPrefix(url, l.baseURL+"/"), nil
}
