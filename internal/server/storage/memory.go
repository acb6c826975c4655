package storage

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

// MemoryUploader keeps uploaded bytes in process. It backs the in-memory
// deployment and tests.
type MemoryUploader struct {
	mu      sync.Mutex
	baseURL string
	objects map[string][]byte
}

func NewMemoryUploader(baseURL string) *MemoryUploader {
	return &MemoryUploader{baseURL: baseURL, objects: make(map[string][]byte)}
}

func (u *MemoryUploader) Upload(ctx context.Context, folder string, asset models.Asset) (string, error) {
	if asset.Body == nil {
		return "", ErrEmptyAsset
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, asset.Body); err != nil {
		return "", err
	}
	if buf.Len() == 0 {
		return "", ErrEmptyAsset
	}

	key := RandomStorageKey(folder, asset.FileName)

	u.mu.Lock()
	u.objects[key] = buf.Bytes()
	u.mu.Unlock()

	return u.baseURL + "/" + key, nil
}

// Object returns the stored bytes for key.
func (u *MemoryUploader) Object(key string) ([]byte, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	b, ok := u.objects[key]
	return b, ok
}
