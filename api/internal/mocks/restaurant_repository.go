package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tablebooker/api/internal/domain"
)

type RestaurantRepository struct {
	mock.Mock
}

func NewRestaurantRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *RestaurantRepository {
	m := &RestaurantRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *RestaurantRepository) CreateRestaurant(ctx context.Context, restaurant *domain.Restaurant) error {
	args := m.Called(ctx, restaurant)
	return args.Error(0)
}

func (m *RestaurantRepository) ListRestaurants(ctx context.Context, filter domain.RestaurantFilter) ([]domain.Restaurant, int, error) {
	args := m.Called(ctx, filter)
	restaurants, _ := args.Get(0).([]domain.Restaurant)
	return restaurants, args.Int(1), args.Error(2)
}

func (m *RestaurantRepository) GetRestaurant(ctx context.Context, id int) (*domain.Restaurant, error) {
	args := m.Called(ctx, id)
	restaurant, _ := args.Get(0).(*domain.Restaurant)
	return restaurant, args.Error(1)
}

func (m *RestaurantRepository) UpdateRestaurant(ctx context.Context, restaurant *domain.Restaurant) error {
	args := m.Called(ctx, restaurant)
	return args.Error(0)
}

func (m *RestaurantRepository) DeactivateRestaurant(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *RestaurantRepository) ListOwnerRestaurants(ctx context.Context, ownerID string) ([]domain.Restaurant, error) {
	args := m.Called(ctx, ownerID)
	restaurants, _ := args.Get(0).([]domain.Restaurant)
	return restaurants, args.Error(1)
}

func (m *RestaurantRepository) UpdateRestaurantImage(ctx context.Context, id int, imageURL string) error {
	args := m.Called(ctx, id, imageURL)
	return args.Error(0)
}

func (m *RestaurantRepository) NearbyRestaurants(ctx context.Context, query domain.NearbyQuery) ([]domain.NearbyRestaurant, int, error) {
	args := m.Called(ctx, query)
	restaurants, _ := args.Get(0).([]domain.NearbyRestaurant)
	return restaurants, args.Int(1), args.Error(2)
}

func (m *RestaurantRepository) RestaurantsByIDs(ctx context.Context, ids []int) ([]domain.Restaurant, error) {
	args := m.Called(ctx, ids)
	restaurants, _ := args.Get(0).([]domain.Restaurant)
	return restaurants, args.Error(1)
}
