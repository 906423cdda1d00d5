package kvstore

import (
	"encoding/json"
	"errors"
)

// ErrKeyNotFound is returned by Get when no document exists under the key.
var ErrKeyNotFound = errors.New("kvstore: key not found")

// Store is a key-value document store. Values are arbitrary JSON documents.
// Set overwrites the whole document under the key (last write wins); there
// is no partial update and no compare-and-swap at this layer.
type Store interface {
	// Get returns the raw JSON document stored under key, or ErrKeyNotFound.
	Get(key string) (json.RawMessage, error)

	// Set marshals value and stores it under key, replacing any previous document.
	Set(key string, value any) error

	// Delete removes the document under key. Deleting a missing key succeeds.
	Delete(key string) error

	// ScanPrefix returns the documents of every key starting with prefix.
	// Order follows key order; an empty result is not an error.
	ScanPrefix(prefix string) ([]json.RawMessage, error)
}
