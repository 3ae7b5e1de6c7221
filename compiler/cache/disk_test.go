package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestDiskCache(t *testing.T) {
	ctx := context.Background()
	c, err := Open(t.TempDir())
	require.NoError(t, err)

	t.Run("missing key", func(t *testing.T) {
		b, err := c.Get(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, b)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "parse:1:abc", []byte("payload"), 0))
		b, err := c.Get(ctx, "parse:1:abc")
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), b)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "k", []byte("one"), 0))
		require.NoError(t, c.Set(ctx, "k", []byte("two"), 0))
		b, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("two"), b)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "gone", []byte("x"), 0))
		require.NoError(t, c.Delete(ctx, "gone"))
		require.NoError(t, c.Delete(ctx, "gone"))
		b, err := c.Get(ctx, "gone")
		require.NoError(t, err)
		assert.Nil(t, b)
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "a", []byte("x"), 0))
		require.NoError(t, c.Clear(ctx))
		b, err := c.Get(ctx, "a")
		require.NoError(t, err)
		assert.Nil(t, b)
		require.NoError(t, c.Clear(ctx))

		require.NoError(t, c.Set(ctx, "a", []byte("y"), 0))
		b, err = c.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, []byte("y"), b)
	})
}

func TestDiskCache_TTL(t *testing.T) {
	ctx := context.Background()
	c, err := Open(t.TempDir())
	require.NoError(t, err)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	b, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), b)

	now = now.Add(2 * time.Minute)
	b, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestDiskCache_Invalid(t *testing.T) {
	ctx := context.Background()
	c, err := Open(t.TempDir())
	require.NoError(t, err)

	t.Run("outdated schema", func(t *testing.T) {
		b, err := msgpack.Marshal(&entry{Schema: schemaVersion + 1, Key: "k", Value: []byte("v")})
		require.NoError(t, err)
		p := c.pathFor("k")
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, b, 0o644))

		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("corrupt file", func(t *testing.T) {
		p := c.pathFor("bad")
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte{0xc1}, 0o644))

		_, err := c.Get(ctx, "bad")
		require.Error(t, err)
	})

	t.Run("canceled context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := c.Get(canceled, "k")
		require.ErrorIs(t, err, context.Canceled)
		require.ErrorIs(t, c.Set(canceled, "k", nil, 0), context.Canceled)
	})
}
