package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedProfile struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func withTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		client = nil
	})
	return mr
}

func TestGetSetJSON(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	var out cachedProfile
	found, err := GetJSON(ctx, "missing", &out)
	require.NoError(t, err)
	assert.False(t, found)

	in := cachedProfile{ID: 1, Name: "alice"}
	require.NoError(t, SetJSON(ctx, "profile:1", in, time.Minute))

	found, err = GetJSON(ctx, "profile:1", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestAsideFetchesOnMissAndCaches(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedProfile) func() error {
		return func() error {
			fetches++
			*dest = cachedProfile{ID: 2, Name: "bob"}
			return nil
		}
	}

	var first cachedProfile
	require.NoError(t, Aside(ctx, UserKey(2), &first, UserTTL, fetch(&first)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "bob", first.Name)

	// Second read is served from the cache.
	var second cachedProfile
	require.NoError(t, Aside(ctx, UserKey(2), &second, UserTTL, fetch(&second)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "bob", second.Name)
}

func TestAsidePropagatesFetchError(t *testing.T) {
	withTestRedis(t)

	boom := errors.New("db down")
	var out cachedProfile
	err := Aside(context.Background(), "key", &out, time.Minute, func() error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestAsideWithoutRedisDegradesToFetch(t *testing.T) {
	client = nil

	fetches := 0
	var out cachedProfile
	require.NoError(t, Aside(context.Background(), "key", &out, time.Minute, func() error {
		fetches++
		out = cachedProfile{ID: 3, Name: "carol"}
		return nil
	}))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "carol", out.Name)
}

func TestInvalidateUser(t *testing.T) {
	mr := withTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserKey(7), cachedProfile{ID: 7}, time.Minute))
	require.True(t, mr.Exists(UserKey(7)))

	InvalidateUser(ctx, 7)
	assert.False(t, mr.Exists(UserKey(7)))
}

func TestCacheExpiry(t *testing.T) {
	mr := withTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, "short", cachedProfile{ID: 1}, time.Second))
	mr.FastForward(2 * time.Second)

	var out cachedProfile
	found, err := GetJSON(ctx, "short", &out)
	require.NoError(t, err)
	assert.False(t, found)
}
