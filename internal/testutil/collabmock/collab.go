// Package collabmock holds small fakes for the remaining collaborator
// interfaces: storage, audit sink and system config.
package collabmock

import (
	"context"
	"fmt"

	"lendops-backend/internal/domain/audit"
	"lendops-backend/internal/domain/storage"
	"lendops-backend/internal/domain/sysconfig"
)

var (
	_ storage.Storage = (*Storage)(nil)
	_ audit.Sink      = (*Audit)(nil)
	_ sysconfig.Store = (*SysConfig)(nil)
)

// Storage fakes the file backend. By default every upload succeeds and gets
// a deterministic URL.
type Storage struct {
	UploadFilesFn func(ctx context.Context, files []storage.Upload, opts storage.UploadOptions) ([]storage.Uploaded, error)
	Uploads       int
}

func (m *Storage) UploadFiles(ctx context.Context, files []storage.Upload, opts storage.UploadOptions) ([]storage.Uploaded, error) {
	if m.UploadFilesFn != nil {
		return m.UploadFilesFn(ctx, files, opts)
	}
	out := make([]storage.Uploaded, 0, len(files))
	for _, f := range files {
		m.Uploads++
		out = append(out, storage.Uploaded{
			URL:      fmt.Sprintf("https://files.test/%s/%s", opts.Folder, f.FileName),
			FileName: f.FileName,
			FileSize: f.Size,
			MimeType: f.MimeType,
		})
	}
	return out, nil
}

func (m *Storage) GetFile(ctx context.Context, key string) ([]byte, error) { return nil, nil }

func (m *Storage) ExtractKeyFromURL(url string) (string, error) { return url, nil }

// Audit records entries in memory.
type Audit struct {
	Entries []audit.Entry
	Err     error
}

func (m *Audit) Log(ctx context.Context, e audit.Entry) error {
	if m.Err != nil {
		return m.Err
	}
	m.Entries = append(m.Entries, e)
	return nil
}

// SysConfig serves values from maps, falling back to defaults.
type SysConfig struct {
	Ints  map[string]int
	Bools map[string]bool
}

func (m *SysConfig) GetInt(ctx context.Context, key string, def int) int {
	if v, ok := m.Ints[key]; ok {
		return v
	}
	return def
}

func (m *SysConfig) GetBool(ctx context.Context, key string, def bool) bool {
	if v, ok := m.Bools[key]; ok {
		return v
	}
	return def
}
