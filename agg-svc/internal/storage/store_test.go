package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablebooker/cachekeys"
)

var fixedNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func setupStore(t *testing.T) (*Store, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()
	mockDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store := NewStore(sqlx.NewDb(mockDB, "sqlmock"), rdb)
	store.now = func() time.Time { return fixedNow }
	return store, sqlMock, mr
}

func TestRefreshRating(t *testing.T) {
	ctx := context.Background()

	t.Run("mirrors aggregate", func(t *testing.T) {
		store, sqlMock, mr := setupStore(t)
		mr.Set(cachekeys.Restaurant(7), `{"id":7}`)
		mr.Set(cachekeys.ListVersion, "4")

		sqlMock.ExpectQuery("UPDATE restaurants").
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows([]string{"id", "avg_rating", "review_count"}).AddRow(7, 4.5, 10))

		rating, err := store.RefreshRating(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, 4.5, rating.AvgRating)
		assert.Equal(t, 10, rating.ReviewCount)

		assert.Equal(t, "4.5", mr.HGet(cachekeys.RestaurantRating(7), "avg_rating"))
		assert.Equal(t, "10", mr.HGet(cachekeys.RestaurantRating(7), "review_count"))
		assert.Equal(t, 24*time.Hour, mr.TTL(cachekeys.RestaurantRating(7)))

		score, err := mr.ZScore(cachekeys.TopRated, "7")
		require.NoError(t, err)
		assert.Equal(t, 4.5, score)

		assert.False(t, mr.Exists(cachekeys.Restaurant(7)))
		version, err := mr.Get(cachekeys.ListVersion)
		require.NoError(t, err)
		assert.Equal(t, "5", version)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("last review removed leaves leaderboard", func(t *testing.T) {
		store, sqlMock, mr := setupStore(t)
		mr.ZAdd(cachekeys.TopRated, 3.0, "7")

		sqlMock.ExpectQuery("UPDATE restaurants").
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows([]string{"id", "avg_rating", "review_count"}).AddRow(7, 0.0, 0))

		_, err := store.RefreshRating(ctx, 7)

		require.NoError(t, err)
		members, err := mr.ZMembers(cachekeys.TopRated)
		if err == nil {
			assert.NotContains(t, members, "7")
		}
	})

	t.Run("database error", func(t *testing.T) {
		store, sqlMock, mr := setupStore(t)
		sqlMock.ExpectQuery("UPDATE restaurants").WithArgs(7).WillReturnError(errors.New("connection reset"))

		_, err := store.RefreshRating(ctx, 7)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "restaurant 7")
		assert.False(t, mr.Exists(cachekeys.TopRated))
	})
}

func TestAdjustPopularity(t *testing.T) {
	ctx := context.Background()
	store, _, mr := setupStore(t)
	key := cachekeys.Popular("2026-06-02")

	require.NoError(t, store.AdjustPopularity(ctx, 3, "2026-06-02", 1))
	require.NoError(t, store.AdjustPopularity(ctx, 3, "2026-06-02", 1))

	score, err := mr.ZScore(key, "3")
	require.NoError(t, err)
	assert.Equal(t, 2.0, score)
	assert.Equal(t, 7*24*time.Hour, mr.TTL(key))

	require.NoError(t, store.AdjustPopularity(ctx, 3, "2026-06-02", -1))
	require.NoError(t, store.AdjustPopularity(ctx, 3, "2026-06-02", -1))

	_, err = mr.ZScore(key, "3")
	assert.Error(t, err)
}

func TestClaimAndRelease(t *testing.T) {
	ctx := context.Background()
	store, _, mr := setupStore(t)

	claimed, err := store.Claim(ctx, "ev-1")
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, 24*time.Hour, mr.TTL("events:processed:ev-1"))

	claimed, err = store.Claim(ctx, "ev-1")
	require.NoError(t, err)
	assert.False(t, claimed)

	require.NoError(t, store.Release(ctx, "ev-1"))
	claimed, err = store.Claim(ctx, "ev-1")
	require.NoError(t, err)
	assert.True(t, claimed)
}
