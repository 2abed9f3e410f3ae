package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tablebooker/api/internal/domain"
	"tablebooker/api/internal/mocks"
	"tablebooker/api/internal/service"
)

type statsFixture struct {
	stats       *mocks.StatsRepository
	restaurants *mocks.RestaurantRepository
	reviews     *mocks.ReviewRepository
	leaderboard *mocks.Leaderboard
	svc         *service.StatsService
}

func newStatsFixture(t *testing.T) statsFixture {
	f := statsFixture{
		stats:       mocks.NewStatsRepository(t),
		restaurants: mocks.NewRestaurantRepository(t),
		reviews:     mocks.NewReviewRepository(t),
		leaderboard: mocks.NewLeaderboard(t),
	}
	logger, _ := nullLogger()
	f.svc = service.NewStatsService(f.stats, f.restaurants, f.reviews, f.leaderboard, testOptions(logger)...)
	return f
}

func TestStatsService_RestaurantStats(t *testing.T) {
	f := newStatsFixture(t)
	f.restaurants.On("GetRestaurant", mock.Anything, 1).Return(sampleRestaurant(), nil).Once()
	f.stats.On("BookingStatusCounts", mock.Anything, 1).Return([]domain.StatusCount{
		{Status: domain.BookingConfirmed, Count: 4, Guests: 10},
		{Status: domain.BookingCancelled, Count: 2, Guests: 6},
		{Status: domain.BookingCompleted, Count: 1, Guests: 2},
	}, nil).Once()
	f.stats.On("UpcomingBookings", mock.Anything, 1, "2026-06-01").Return(3, nil).Once()
	f.stats.On("FavoriteCount", mock.Anything, 1).Return(5, nil).Once()
	f.reviews.On("RatingCounts", mock.Anything, 1).Return([]domain.RatingCount{{Rating: 4, Count: 2}}, nil).Once()

	got, err := f.svc.RestaurantStats(context.Background(), owner, 1)

	require.NoError(t, err)
	assert.Equal(t, 7, got.TotalBookings)
	assert.Equal(t, 12, got.TotalGuests)
	assert.Equal(t, 0, got.BookingsByStatus[domain.BookingPending])
	assert.Equal(t, 2, got.BookingsByStatus[domain.BookingCancelled])
	assert.Equal(t, 3, got.UpcomingBookings)
	assert.Equal(t, 5, got.FavoritesCount)
	assert.Equal(t, 4.0, got.Reviews.Average)
}

func TestStatsService_RestaurantStats_Forbidden(t *testing.T) {
	f := newStatsFixture(t)
	f.restaurants.On("GetRestaurant", mock.Anything, 1).Return(sampleRestaurant(), nil).Once()

	_, err := f.svc.RestaurantStats(context.Background(), stranger, 1)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestStatsService_TopRated(t *testing.T) {
	t.Run("from leaderboard", func(t *testing.T) {
		f := newStatsFixture(t)
		second := *sampleRestaurant()
		second.ID = 2
		hidden := *sampleRestaurant()
		hidden.ID = 3
		hidden.IsActive = false

		f.leaderboard.On("TopMembers", mock.Anything, service.TopRatedKey, 10).Return([]domain.ScoredMember{
			{Member: "2", Score: 4.9},
			{Member: "3", Score: 4.8},
			{Member: "junk", Score: 4.7},
			{Member: "1", Score: 4.5},
		}, nil).Once()
		f.restaurants.On("RestaurantsByIDs", mock.Anything, []int{2, 3, 1}).
			Return([]domain.Restaurant{*sampleRestaurant(), second, hidden}, nil).Once()

		got, err := f.svc.TopRated(context.Background(), 0)

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 2, got[0].Restaurant.ID)
		assert.Equal(t, 4.9, got[0].Score)
		assert.Equal(t, 1, got[1].Restaurant.ID)
	})

	t.Run("falls back to stored averages", func(t *testing.T) {
		f := newStatsFixture(t)
		f.leaderboard.On("TopMembers", mock.Anything, service.TopRatedKey, 5).Return(nil, assert.AnError).Once()
		f.stats.On("TopRatedRestaurants", mock.Anything, 5).Return(nil, nil).Once()

		got, err := f.svc.TopRated(context.Background(), 5)

		require.NoError(t, err)
		assert.Equal(t, []domain.RestaurantScore{}, got)
	})
}

func TestStatsService_PopularToday(t *testing.T) {
	f := newStatsFixture(t)
	key := service.PopularKey("2026-06-01")
	f.leaderboard.On("TopMembers", mock.Anything, key, 10).Return(nil, nil).Once()
	f.stats.On("PopularRestaurants", mock.Anything, "2026-06-01", 10).Return([]domain.RestaurantScore{
		{Restaurant: *sampleRestaurant(), Score: 12},
	}, nil).Once()

	got, err := f.svc.PopularToday(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 12.0, got[0].Score)
}

func TestDefaultQRGenerator(t *testing.T) {
	png, err := service.DefaultQRGenerator{BaseURL: "https://tables.example.com"}.Generate(42)

	require.NoError(t, err)
	require.Greater(t, len(png), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
