package blobstore

import (
	"context"
	"io"
	"time"
)

// Store holds photo payloads and issues time-limited read URLs. Keys follow
// the scheme <adminId>/<galleryId>/<timestamp>-<random>.<ext>.
type Store interface {
	// Put uploads size bytes from r under key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Remove deletes the given keys. Best effort: it attempts every key and
	// returns one error per key that failed, never aborting early.
	Remove(ctx context.Context, keys []string) []error

	// SignedURL returns a presigned GET URL for key, valid for ttl.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
