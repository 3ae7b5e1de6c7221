// Package cache stores compiler results on disk.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/gqlsc"
)

// Current schema version - increment when entry format changes
const schemaVersion uint16 = 1

// DiskCache is a gqlsc.Cache backed by one msgpack file per key.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
	now func() time.Time
}

var _ gqlsc.Cache = (*DiskCache)(nil)

// entry is the on-disk form of a cached value.
type entry struct {
	Schema  uint16 `msgpack:"s"`
	Key     string `msgpack:"k"`
	Expires int64  `msgpack:"e,omitempty"` // unix nanoseconds, 0 never expires
	Value   []byte `msgpack:"v"`
}

// Open returns a disk cache rooted at dir, creating it if needed.
func Open(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir, now: time.Now}, nil
}

// OpenDefault opens the cache at the standard user location.
func OpenDefault(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		var err error
		if base, err = os.UserCacheDir(); err != nil {
			return nil, err
		}
	}
	return Open(filepath.Join(base, app))
}

// Dir returns the cache directory.
func (c *DiskCache) Dir() string {
	return c.dir
}

func (c *DiskCache) pathFor(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, "entries", hex.EncodeToString(sum[:])+".mp")
}

// Get reads a value. Missing, expired and outdated entries return nil, nil.
func (c *DiskCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	b, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var e entry
	if err := msgpack.Unmarshal(b, &e); err != nil {
		return nil, err
	}
	if e.Schema != schemaVersion || e.Key != key {
		return nil, nil
	}
	if e.Expires != 0 && c.now().UnixNano() >= e.Expires {
		return nil, nil
	}
	return e.Value, nil
}

// Set writes a value atomically.
func (c *DiskCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	e := entry{Schema: schemaVersion, Key: key, Value: value}
	if ttl > 0 {
		e.Expires = c.now().Add(ttl).UnixNano()
	}
	b, err := msgpack.Marshal(&e)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()
	if _, err = f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Delete removes a value.
func (c *DiskCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.Remove(c.pathFor(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Clear invalidates the cache.
func (c *DiskCache) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := filepath.Join(c.dir, "entries")
	old := entries + ".old-" + c.now().Format("20060102150405.000000000")
	if err := os.Rename(entries, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}
