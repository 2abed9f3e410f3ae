package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tablebooker/api/internal/domain"
)

type FavoriteRepository struct {
	mock.Mock
}

func NewFavoriteRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *FavoriteRepository {
	m := &FavoriteRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *FavoriteRepository) AddFavorite(ctx context.Context, userID string, restaurantID int) error {
	args := m.Called(ctx, userID, restaurantID)
	return args.Error(0)
}

func (m *FavoriteRepository) RemoveFavorite(ctx context.Context, userID string, restaurantID int) (int64, error) {
	args := m.Called(ctx, userID, restaurantID)
	rows, _ := args.Get(0).(int64)
	return rows, args.Error(1)
}

func (m *FavoriteRepository) ListFavorites(ctx context.Context, userID string) ([]domain.FavoriteRestaurant, error) {
	args := m.Called(ctx, userID)
	favorites, _ := args.Get(0).([]domain.FavoriteRestaurant)
	return favorites, args.Error(1)
}

func (m *FavoriteRepository) IsFavorite(ctx context.Context, userID string, restaurantID int) (bool, error) {
	args := m.Called(ctx, userID, restaurantID)
	return args.Bool(0), args.Error(1)
}
