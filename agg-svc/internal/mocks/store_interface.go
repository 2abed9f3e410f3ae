package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tablebooker/agg-svc/internal/domain"
)

type StoreInterface struct {
	mock.Mock
}

func NewStoreInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *StoreInterface {
	m := &StoreInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *StoreInterface) RefreshRating(ctx context.Context, restaurantID int) (domain.Rating, error) {
	args := m.Called(ctx, restaurantID)
	rating, _ := args.Get(0).(domain.Rating)
	return rating, args.Error(1)
}

func (m *StoreInterface) AdjustPopularity(ctx context.Context, restaurantID int, date string, delta float64) error {
	args := m.Called(ctx, restaurantID, date, delta)
	return args.Error(0)
}

func (m *StoreInterface) Claim(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *StoreInterface) Release(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}
