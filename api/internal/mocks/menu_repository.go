package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tablebooker/api/internal/domain"
)

type MenuRepository struct {
	mock.Mock
}

func NewMenuRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MenuRepository {
	m := &MenuRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MenuRepository) ListMenuItems(ctx context.Context, restaurantID int) ([]domain.MenuItem, error) {
	args := m.Called(ctx, restaurantID)
	items, _ := args.Get(0).([]domain.MenuItem)
	return items, args.Error(1)
}

func (m *MenuRepository) GetMenuItem(ctx context.Context, restaurantID, itemID int) (*domain.MenuItem, error) {
	args := m.Called(ctx, restaurantID, itemID)
	item, _ := args.Get(0).(*domain.MenuItem)
	return item, args.Error(1)
}

func (m *MenuRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MenuRepository) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MenuRepository) DeleteMenuItem(ctx context.Context, restaurantID, itemID int) (int64, error) {
	args := m.Called(ctx, restaurantID, itemID)
	rows, _ := args.Get(0).(int64)
	return rows, args.Error(1)
}

func (m *MenuRepository) UpdateMenuItemImage(ctx context.Context, restaurantID, itemID int, imageURL string) error {
	args := m.Called(ctx, restaurantID, itemID, imageURL)
	return args.Error(0)
}
