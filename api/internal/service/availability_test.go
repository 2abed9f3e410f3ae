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

func TestAvailabilityService_Availability(t *testing.T) {
	restaurants := mocks.NewRestaurantRepository(t)
	bookings := mocks.NewBookingRepository(t)
	cache, mr := newCache(t)
	logger, _ := nullLogger()
	svc := service.NewAvailabilityService(restaurants, bookings, cache, testOptions(logger)...)

	restaurants.On("GetRestaurant", mock.Anything, 1).Return(sampleRestaurant(), nil).Once()
	bookings.On("SlotCounts", mock.Anything, 1, "2026-06-02").Return([]domain.SlotCount{
		{Time: "19:00", Guests: 18},
		{Time: "20:00", Guests: 20},
	}, nil).Once()

	got, err := svc.Availability(context.Background(), 1, "2026-06-02")

	require.NoError(t, err)
	assert.False(t, got.Closed)
	assert.Equal(t, "tuesday", got.Day)
	assert.Equal(t, "12:00", got.Open)
	assert.Equal(t, "22:00", got.Close)
	require.Len(t, got.Slots, 20)
	assert.Equal(t, "12:00", got.Slots[0].Time)
	assert.Equal(t, "21:30", got.Slots[19].Time)

	byTime := make(map[string]domain.Slot, len(got.Slots))
	for _, slot := range got.Slots {
		byTime[slot.Time] = slot
	}
	assert.Equal(t, domain.Slot{Time: "19:00", AvailableCapacity: 2, Available: true}, byTime["19:00"])
	assert.Equal(t, domain.Slot{Time: "20:00", AvailableCapacity: 0, Available: false}, byTime["20:00"])
	assert.Equal(t, 20, byTime["12:30"].AvailableCapacity)

	// The second call is served from the cache without touching the stores.
	again, err := svc.Availability(context.Background(), 1, "2026-06-02")
	require.NoError(t, err)
	assert.Equal(t, got, again)
	assert.Equal(t, service.DefaultCacheTTL.Availability, mr.TTL(service.AvailabilityKey(1, "2026-06-02")))
}

func TestAvailabilityService_ClosedDay(t *testing.T) {
	restaurants := mocks.NewRestaurantRepository(t)
	bookings := mocks.NewBookingRepository(t)
	svc := service.NewAvailabilityService(restaurants, bookings, nil)
	restaurants.On("GetRestaurant", mock.Anything, 1).Return(sampleRestaurant(), nil).Once()

	got, err := svc.Availability(context.Background(), 1, "2026-06-07")

	require.NoError(t, err)
	assert.True(t, got.Closed)
	assert.Equal(t, "restaurant is closed on sunday", got.Message)
	assert.Empty(t, got.Slots)
	bookings.AssertNotCalled(t, "SlotCounts", mock.Anything, mock.Anything, mock.Anything)
}

func TestAvailabilityService_Errors(t *testing.T) {
	inactive := sampleRestaurant()
	inactive.IsActive = false

	tests := []struct {
		name       string
		date       string
		restaurant *domain.Restaurant
		lookup     error
		wantErr    error
		wantField  string
	}{
		{name: "malformed date", date: "02/06/2026", wantField: "date"},
		{name: "impossible date", date: "2026-02-30", wantField: "date"},
		{name: "unknown restaurant", date: "2026-06-02", lookup: domain.ErrNotFound, wantErr: service.ErrRestaurantNotFound},
		{name: "inactive restaurant", date: "2026-06-02", restaurant: inactive, wantErr: service.ErrRestaurantNotFound},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			restaurants := mocks.NewRestaurantRepository(t)
			svc := service.NewAvailabilityService(restaurants, mocks.NewBookingRepository(t), nil)
			if testCase.wantField == "" {
				restaurants.On("GetRestaurant", mock.Anything, 1).Return(testCase.restaurant, testCase.lookup).Once()
			}

			_, err := svc.Availability(context.Background(), 1, testCase.date)

			if testCase.wantField != "" {
				var validationErr *service.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, testCase.wantField, validationErr.Field)
				return
			}
			assert.ErrorIs(t, err, testCase.wantErr)
		})
	}
}
