package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablebooker/api/internal/domain"
	"tablebooker/api/internal/storage"
)

func setupTestRedis(t *testing.T) (*storage.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return storage.NewRedisCache(client), mr
}

func TestRedisCache_JSON(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	var miss domain.Availability
	found, err := cache.GetJSON(ctx, "availability:1:2026-06-02", &miss)
	require.NoError(t, err)
	assert.False(t, found)

	want := domain.Availability{RestaurantID: 1, Date: "2026-06-02", Slots: []domain.Slot{{Time: "19:00", AvailableCapacity: 2, Available: true}}}
	require.NoError(t, cache.SetJSON(ctx, "availability:1:2026-06-02", want, 5*time.Minute))
	assert.Equal(t, 5*time.Minute, mr.TTL("availability:1:2026-06-02"))

	var got domain.Availability
	found, err = cache.GetJSON(ctx, "availability:1:2026-06-02", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	mr.FastForward(6 * time.Minute)
	found, err = cache.GetJSON(ctx, "availability:1:2026-06-02", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_CorruptEntry(t *testing.T) {
	cache, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("restaurant:1", "{not json"))

	var got domain.Restaurant
	_, err := cache.GetJSON(context.Background(), "restaurant:1", &got)
	assert.Error(t, err)
}

func TestRedisCache_DeleteAndVersion(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("a", "1"))
	require.NoError(t, mr.Set("b", "2"))

	require.NoError(t, cache.Delete(ctx, "a", "b"))
	assert.False(t, mr.Exists("a"))
	assert.False(t, mr.Exists("b"))
	require.NoError(t, cache.Delete(ctx))

	v, err := cache.Version(ctx, "restaurants:list:version")
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)

	require.NoError(t, cache.BumpVersion(ctx, "restaurants:list:version"))
	require.NoError(t, cache.BumpVersion(ctx, "restaurants:list:version"))
	v, err = cache.Version(ctx, "restaurants:list:version")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}

func TestRedisCache_TopMembers(t *testing.T) {
	cache, mr := setupTestRedis(t)
	_, err := mr.ZAdd("leaderboard:rating", 4.2, "1")
	require.NoError(t, err)
	_, err = mr.ZAdd("leaderboard:rating", 4.9, "2")
	require.NoError(t, err)
	_, err = mr.ZAdd("leaderboard:rating", 3.1, "3")
	require.NoError(t, err)

	got, err := cache.TopMembers(context.Background(), "leaderboard:rating", 2)

	require.NoError(t, err)
	assert.Equal(t, []domain.ScoredMember{{Member: "2", Score: 4.9}, {Member: "1", Score: 4.2}}, got)
}
