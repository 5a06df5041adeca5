package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return &Cache{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}, mr
}

type cachedEvent struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func TestCache_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	var got cachedEvent
	found, err := c.Get(ctx, "ewm:event:1", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "ewm:event:1", cachedEvent{ID: 1, Title: "Jazz night"}, 30*time.Second))
	found, err = c.Get(ctx, "ewm:event:1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Jazz night", got.Title)
	assert.Equal(t, 30*time.Second, mr.TTL("ewm:event:1"))

	require.NoError(t, c.Delete(ctx, "ewm:event:1"))
	assert.False(t, mr.Exists("ewm:event:1"))
	require.NoError(t, c.Delete(ctx))
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, c.Set(ctx, "k", cachedEvent{ID: 2}, time.Second))
	mr.FastForward(2 * time.Second)

	var got cachedEvent
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_CorruptValue(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("k", "{not json"))

	var got cachedEvent
	_, err := c.Get(ctx, "k", &got)
	assert.Error(t, err)
}

func TestAllowRequest_FixedWindow(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	for i := 0; i < 3; i++ {
		ok, err := c.AllowRequest(ctx, "10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i)
	}
	ok, _ := c.AllowRequest(ctx, "10.0.0.1", 3, time.Minute)
	assert.False(t, ok)

	// other clients have their own window
	ok, _ = c.AllowRequest(ctx, "10.0.0.2", 3, time.Minute)
	assert.True(t, ok)

	mr.FastForward(time.Minute + time.Second)
	ok, _ = c.AllowRequest(ctx, "10.0.0.1", 3, time.Minute)
	assert.True(t, ok)
}

func TestAllowRequest_FailsOpen(t *testing.T) {
	ctx := context.Background()
	c := &Cache{Client: redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})}

	ok, err := c.AllowRequest(ctx, "10.0.0.1", 1, time.Minute)
	assert.NoError(t, err)
	assert.True(t, ok)
}
