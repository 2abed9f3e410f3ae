package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tablebooker/api/internal/domain"
)

type StatsRepository struct {
	mock.Mock
}

func NewStatsRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *StatsRepository {
	m := &StatsRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *StatsRepository) BookingStatusCounts(ctx context.Context, restaurantID int) ([]domain.StatusCount, error) {
	args := m.Called(ctx, restaurantID)
	counts, _ := args.Get(0).([]domain.StatusCount)
	return counts, args.Error(1)
}

func (m *StatsRepository) UpcomingBookings(ctx context.Context, restaurantID int, today string) (int, error) {
	args := m.Called(ctx, restaurantID, today)
	return args.Int(0), args.Error(1)
}

func (m *StatsRepository) FavoriteCount(ctx context.Context, restaurantID int) (int, error) {
	args := m.Called(ctx, restaurantID)
	return args.Int(0), args.Error(1)
}

func (m *StatsRepository) TopRatedRestaurants(ctx context.Context, limit int) ([]domain.RestaurantScore, error) {
	args := m.Called(ctx, limit)
	scores, _ := args.Get(0).([]domain.RestaurantScore)
	return scores, args.Error(1)
}

func (m *StatsRepository) PopularRestaurants(ctx context.Context, date string, limit int) ([]domain.RestaurantScore, error) {
	args := m.Called(ctx, date, limit)
	scores, _ := args.Get(0).([]domain.RestaurantScore)
	return scores, args.Error(1)
}
