package gqlsc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the interface for caching intermediate compiler results such as
// parsed files. compiler/cache provides an on-disk implementation; users
// may plug in their own (Redis, memcached, in-memory).
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns nil, nil if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with an optional TTL.
	// If ttl is 0, the value should not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// Clear removes all values from the cache.
	Clear(ctx context.Context) error
}

// CacheKey identifies the result of a compiler stage for one input.
type CacheKey struct {
	// Stage names the producer, such as "parse".
	Stage string
	// Version changes when the encoded form of the stage output changes.
	Version string
	// Digest is the SHA-256 of the input path and contents.
	Digest string
}

// NewCacheKey returns the key of a stage output for the given input.
func NewCacheKey(stage, version, path, contents string) CacheKey {
	h := sha256.New()
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write([]byte(contents))
	return CacheKey{Stage: stage, Version: version, Digest: hex.EncodeToString(h.Sum(nil))}
}

// String returns the string representation of the cache key.
func (k CacheKey) String() string {
	return k.Stage + ":" + k.Version + ":" + k.Digest
}
