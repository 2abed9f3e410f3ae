package service

import (
	"context"
	"fmt"
	"time"

	"tablebooker/api/internal/domain"
)

type AvailabilityService struct {
	restaurants RestaurantRepository
	bookings    BookingRepository
	cache       Cache
	opts        settings
}

func NewAvailabilityService(restaurants RestaurantRepository, bookings BookingRepository, cache Cache, opts ...Option) *AvailabilityService {
	return &AvailabilityService{
		restaurants: restaurants,
		bookings:    bookings,
		cache:       cacheOrNoop(cache),
		opts:        newSettings(opts),
	}
}

// Availability lists every slot of the day with the seats still free.
func (s *AvailabilityService) Availability(ctx context.Context, restaurantID int, date string) (*domain.Availability, error) {
	day, err := domain.ParseDate(date, time.UTC)
	if err != nil {
		return nil, invalid("date", "date must be in YYYY-MM-DD format")
	}

	key := AvailabilityKey(restaurantID, date)
	var cached domain.Availability
	if s.opts.cached(ctx, s.cache, key, &cached) {
		return &cached, nil
	}

	restaurant, err := activeRestaurant(ctx, s.restaurants, restaurantID)
	if err != nil {
		return nil, err
	}

	result := &domain.Availability{
		RestaurantID: restaurantID,
		Date:         date,
		Day:          domain.WeekdayKey(day.Weekday()),
		Capacity:     restaurant.Capacity,
		Slots:        []domain.Slot{},
	}

	hours, ok := restaurant.OpeningHours.For(day.Weekday())
	if _, _, open := hours.Window(); !ok || !open {
		result.Closed = true
		result.Message = closedMessage(day.Weekday())
		s.opts.store(ctx, s.cache, key, result, s.opts.ttl.Availability)
		return result, nil
	}
	result.Open, result.Close = hours.Open, hours.Close

	counts, err := s.bookings.SlotCounts(ctx, restaurantID, date)
	if err != nil {
		return nil, fmt.Errorf("count booked seats: %w", err)
	}
	held := make(map[string]int, len(counts))
	for _, c := range counts {
		held[c.Time] += c.Guests
	}

	for _, slot := range hours.Slots(domain.SlotInterval) {
		remaining := restaurant.Capacity - held[slot]
		result.Slots = append(result.Slots, domain.Slot{
			Time:              slot,
			AvailableCapacity: remaining,
			Available:         remaining > 0,
		})
	}

	s.opts.store(ctx, s.cache, key, result, s.opts.ttl.Availability)
	return result, nil
}

func closedMessage(day time.Weekday) string {
	return fmt.Sprintf("restaurant is closed on %s", domain.WeekdayKey(day))
}
