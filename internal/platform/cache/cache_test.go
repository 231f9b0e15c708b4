package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestJSONRoundTripAndExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewJSON(client, "hrm:")
	ctx := context.Background()

	var got payload
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, c.Set(ctx, "k", payload{Name: "a", Count: 2}, time.Minute))
	require.True(t, mr.Exists("hrm:k"))

	found, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, payload{Name: "a", Count: 2}, got)

	mr.FastForward(2 * time.Minute)
	found, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	require.False(t, found)
}

func TestJSONDelete(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewJSON(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", 1, 0))
	require.NoError(t, c.Delete(ctx, "k"))
	require.False(t, mr.Exists("k"))
}

func TestJSONAddKeepsExistingValue(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewJSON(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "hrm")
	ctx := context.Background()

	added, err := c.Add(ctx, "k", payload{Name: "first"}, time.Minute)
	require.NoError(t, err)
	require.True(t, added)

	added, err = c.Add(ctx, "k", payload{Name: "stale"}, time.Minute)
	require.NoError(t, err)
	require.False(t, added)

	var got payload
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "first", got.Name)
	require.Greater(t, mr.TTL("hrm:k"), time.Duration(0))
}

func TestNilCacheIsAlwaysMissing(t *testing.T) {
	var c *JSON
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", 1, time.Minute))
	added, err := c.Add(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	require.False(t, added)
	var v int
	found, err := c.Get(ctx, "k", &v)
	require.NoError(t, err)
	require.False(t, found)
	require.NoError(t, c.Delete(ctx, "k"))
}

func TestNewFailsWithoutServer(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()
	_, err = New(context.Background(), addr)
	require.Error(t, err)
}
