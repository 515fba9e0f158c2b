package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/johnquangdev/voice-memo/internal/domain/repositories"
)

// MemoryStore is an in-process BlobStore. Used for development without an object store and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	items   map[string]*memoryItem
	baseURL string
}

type memoryItem struct {
	data        []byte
	contentType string
	modTime     time.Time
}

// NewMemoryStore creates a new in-memory store. baseURL may be empty.
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		items:   make(map[string]*memoryItem),
		baseURL: baseURL,
	}
}

// PutObject stores a copy of reader's bytes under key
func (ms *MemoryStore) PutObject(_ context.Context, key string, reader io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.items[key] = &memoryItem{
		data:        data,
		contentType: contentType,
		modTime:     time.Now(),
	}
	return nil
}

// GetObject returns a copy of the stored bytes
func (ms *MemoryStore) GetObject(_ context.Context, key string) ([]byte, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	item, exists := ms.items[key]
	if !exists {
		return nil, fmt.Errorf("%s: %w", key, repositories.ErrObjectNotFound)
	}
	return bytes.Clone(item.data), nil
}

// OpenObject returns a seekable view of the stored bytes
func (ms *MemoryStore) OpenObject(_ context.Context, key string) (*repositories.Object, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	item, exists := ms.items[key]
	if !exists {
		return nil, fmt.Errorf("%s: %w", key, repositories.ErrObjectNotFound)
	}
	return &repositories.Object{
		Body:        nopCloser{bytes.NewReader(item.data)},
		Size:        int64(len(item.data)),
		ContentType: item.contentType,
		ModTime:     item.modTime,
	}, nil
}

// ObjectURL returns baseURL/key, or "" without a base URL
func (ms *MemoryStore) ObjectURL(key string) string {
	if ms.baseURL == "" {
		return ""
	}
	return ms.baseURL + "/" + key
}

// Keys lists stored keys in no particular order
func (ms *MemoryStore) Keys() []string {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	keys := make([]string, 0, len(ms.items))
	for k := range ms.items {
		keys = append(keys, k)
	}
	return keys
}

type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }
