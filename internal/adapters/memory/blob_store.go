package memory

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"motoauto-service/internal/domain/shared"
)

// BlobStore keeps uploaded objects in process memory
type BlobStore struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string][]byte
}

// NewBlobStore creates a store whose URLs are rooted at baseURL
func NewBlobStore(baseURL string) *BlobStore {
	return &BlobStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string][]byte),
	}
}

// Put stores body under key and returns its URL
func (store *BlobStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrBlobUpload, err)
	}

	store.mu.Lock()
	store.objects[key] = data
	store.mu.Unlock()

	return store.baseURL + "/" + key, nil
}

// Object returns the bytes stored under key
func (store *BlobStore) Object(key string) ([]byte, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	data, ok := store.objects[key]
	return data, ok
}
