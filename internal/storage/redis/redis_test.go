package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/storage"
)

func setupTestRedis(t *testing.T) (*Storage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, 24*time.Hour), mr
}

// ---------------------------------------------------------------------------
// Get
// ---------------------------------------------------------------------------

func TestStorage_Get_Success(t *testing.T) {
	s, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("session:abc:cart", `[{"id":1,"quantity":2}]`))

	got, err := s.Get(context.Background(), "session:abc:cart")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"quantity":2}]`, string(got))
}

func TestStorage_Get_NotFound(t *testing.T) {
	s, _ := setupTestRedis(t)

	got, err := s.Get(context.Background(), "session:missing:cart")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStorage_Get_ConnectionError(t *testing.T) {
	s, mr := setupTestRedis(t)
	mr.Close()

	_, err := s.Get(context.Background(), "session:abc:cart")
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)
	assert.Contains(t, err.Error(), "redis get")
}

// ---------------------------------------------------------------------------
// Set
// ---------------------------------------------------------------------------

func TestStorage_Set_WritesValueAndTTL(t *testing.T) {
	s, mr := setupTestRedis(t)

	require.NoError(t, s.Set(context.Background(), "session:abc:wishlist", []byte(`[]`)))

	raw, err := mr.Get("session:abc:wishlist")
	require.NoError(t, err)
	assert.Equal(t, `[]`, raw)

	ttl := mr.TTL("session:abc:wishlist")
	assert.True(t, ttl > 23*time.Hour, "expected TTL > 23h, got %v", ttl)
	assert.True(t, ttl <= 24*time.Hour, "expected TTL <= 24h, got %v", ttl)
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestStorage_Delete(t *testing.T) {
	s, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("session:abc:cart", "x"))

	require.NoError(t, s.Delete(context.Background(), "session:abc:cart"))
	assert.False(t, mr.Exists("session:abc:cart"))

	// Deleting a key that doesn't exist should not return an error.
	assert.NoError(t, s.Delete(context.Background(), "session:abc:cart"))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "session:s1:cart", storage.CartKey("s1"))
	assert.Equal(t, "session:s1:wishlist", storage.WishlistKey("s1"))
}
