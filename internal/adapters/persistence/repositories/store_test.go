package repositories

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behavior every KeyValueStore shares
func exerciseStore(t *testing.T, store KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "storeConfig", `{"a":1}`))
	v, ok, err := store.Get(ctx, "storeConfig")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"a":1}`, v)

	require.NoError(t, store.SetMany(ctx, map[string]string{
		"sess:abc:token":        "t1",
		"sess:abc:refreshToken": "r1",
	}))
	got, err := store.GetMany(ctx, "sess:abc:token", "sess:abc:refreshToken", "sess:abc:user")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"sess:abc:token": "t1", "sess:abc:refreshToken": "r1"}, got)

	require.NoError(t, store.Remove(ctx, "sess:abc:token", "never-set"))
	_, ok, err = store.Get(ctx, "sess:abc:token")
	require.NoError(t, err)
	assert.False(t, ok)

	empty, err := store.GetMany(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	assert.NoError(t, store.Ping(ctx))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	exerciseStore(t, store)

	// a second handle on the same file sees the data
	again, err := NewFileStore(path)
	require.NoError(t, err)
	v, ok, err := again.Get(context.Background(), "storeConfig")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"a":1}`, v)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client, time.Hour)
	exerciseStore(t, store)

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "sess:xyz:token", "t"))
	require.NoError(t, store.Set(ctx, "storeConfig", "{}"))
	assert.Equal(t, time.Hour, mr.TTL("sess:xyz:token"))
	assert.Zero(t, mr.TTL("storeConfig"))

	mr.FastForward(2 * time.Hour)
	_, ok, err := store.Get(ctx, "sess:xyz:token")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = store.Get(ctx, "storeConfig")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEncryptedStore(t *testing.T) {
	inner := NewMemoryStore()
	store, err := NewEncryptedStore(inner, "s3cret")
	require.NoError(t, err)
	exerciseStore(t, store)

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "sess:abc:user", `{"id":1}`))

	raw, ok, err := inner.Get(ctx, "sess:abc:user")
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, raw, `"id"`)

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewEncryptedStore(inner, "other")
		require.NoError(t, err)
		_, _, err = other.Get(ctx, "sess:abc:user")
		assert.ErrorIs(t, err, ErrDecrypt)
	})

	t.Run("value moved to another key", func(t *testing.T) {
		require.NoError(t, inner.Set(ctx, "sess:abc:token", raw))
		_, _, err := store.Get(ctx, "sess:abc:token")
		assert.ErrorIs(t, err, ErrDecrypt)
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := NewEncryptedStore(inner, "")
		assert.Error(t, err)
	})
}

func TestSessionNamespace(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	a := SessionNamespace(inner, "a")
	b := SessionNamespace(inner, "b")

	require.NoError(t, a.SetMany(ctx, map[string]string{"token": "ta", "user": "ua"}))
	require.NoError(t, b.Set(ctx, "token", "tb"))

	got, err := a.GetMany(ctx, "token", "user")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"token": "ta", "user": "ua"}, got)

	v, ok, err := inner.Get(ctx, "sess:b:token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tb", v)

	require.NoError(t, a.Remove(ctx, "token"))
	_, ok, _ = a.Get(ctx, "token")
	assert.False(t, ok)
	_, ok, _ = b.Get(ctx, "token")
	assert.True(t, ok)
}

func TestMemoryStore_DeleteOlderThan(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "sess:old:token", "t"))
	require.NoError(t, store.Set(ctx, "storeConfig", "{}"))
	now = now.Add(2 * time.Hour)
	require.NoError(t, store.Set(ctx, "sess:new:token", "t"))

	n, err := store.DeleteOlderThan(ctx, SessionPrefix, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, ok, _ := store.Get(ctx, "sess:old:token")
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, "sess:new:token")
	assert.True(t, ok)
	_, ok, _ = store.Get(ctx, "storeConfig")
	assert.True(t, ok, "entries outside the prefix are never swept")
}
