package blobstore

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// Memory is an in-process Store for tests. Signed URLs are fakes that embed
// the key and expiry; they are stable enough to assert on and obviously
// unusable outside tests.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.blobs[key] = data
	m.mu.Unlock()
	return nil
}

func (m *Memory) Remove(ctx context.Context, keys []string) []error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.blobs, key)
	}
	return nil
}

func (m *Memory) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.blobs[key]; !ok {
		return "", fmt.Errorf("blob %s does not exist", key)
	}
	expires := time.Now().Add(ttl).Unix()
	return fmt.Sprintf("https://blobs.test/%s?expires=%d", key, expires), nil
}

// Exists reports whether a blob is stored under key. Test helper.
func (m *Memory) Exists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.blobs[key]
	return ok
}

// Len reports how many blobs are stored. Test helper.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}
