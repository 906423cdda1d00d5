package kvstore

import (
	"encoding/json"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-process Store used by tests and local development.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]json.RawMessage
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string]json.RawMessage)}
}

func (m *Memory) Get(key string) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return doc, nil
}

func (m *Memory) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.docs[key] = raw
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	delete(m.docs, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) ScanPrefix(prefix string) ([]json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0)
	for k := range m.docs {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make([]json.RawMessage, 0, len(keys))
	for _, k := range keys {
		out = append(out, m.docs[k])
	}
	return out, nil
}
