package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tablebooker/api/internal/domain"
)

type BookingRepository struct {
	mock.Mock
}

func NewBookingRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *BookingRepository {
	m := &BookingRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// CreateBooking accepts either an error or a
// func(context.Context, *domain.Booking, domain.AdmitFunc) error as its return value.
func (m *BookingRepository) CreateBooking(ctx context.Context, booking *domain.Booking, admit domain.AdmitFunc) error {
	args := m.Called(ctx, booking, admit)
	if fn, ok := args.Get(0).(func(context.Context, *domain.Booking, domain.AdmitFunc) error); ok {
		return fn(ctx, booking, admit)
	}
	return args.Error(0)
}

func (m *BookingRepository) GetBooking(ctx context.Context, id int) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	booking, _ := args.Get(0).(*domain.Booking)
	return booking, args.Error(1)
}

func (m *BookingRepository) ListCustomerBookings(ctx context.Context, customerID string) ([]domain.Booking, error) {
	args := m.Called(ctx, customerID)
	bookings, _ := args.Get(0).([]domain.Booking)
	return bookings, args.Error(1)
}

func (m *BookingRepository) ListRestaurantBookings(ctx context.Context, restaurantID int, filter domain.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, restaurantID, filter)
	bookings, _ := args.Get(0).([]domain.Booking)
	return bookings, args.Error(1)
}

func (m *BookingRepository) UpdateBookingStatus(ctx context.Context, id int, from, to domain.BookingStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *BookingRepository) SlotCounts(ctx context.Context, restaurantID int, date string) ([]domain.SlotCount, error) {
	args := m.Called(ctx, restaurantID, date)
	counts, _ := args.Get(0).([]domain.SlotCount)
	return counts, args.Error(1)
}
