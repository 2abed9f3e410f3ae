package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"tablebooker/api/internal/domain"
	"tablebooker/events"
)

type BookingService struct {
	repository  BookingRepository
	restaurants RestaurantRepository
	cache       Cache
	publisher   EventPublisher
	opts        settings
}

func NewBookingService(repository BookingRepository, restaurants RestaurantRepository, cache Cache, publisher EventPublisher, opts ...Option) *BookingService {
	return &BookingService{
		repository:  repository,
		restaurants: restaurants,
		cache:       cacheOrNoop(cache),
		publisher:   publisher,
		opts:        newSettings(opts),
	}
}

// Create books a table. The capacity check and the insert share one
// transaction so concurrent requests cannot both take the last seats.
func (s *BookingService) Create(ctx context.Context, user domain.User, req domain.BookingRequest) (*domain.Booking, error) {
	if err := requireCustomer(user); err != nil {
		return nil, err
	}
	day, err := s.validateRequest(req)
	if err != nil {
		return nil, err
	}

	restaurant, err := activeRestaurant(ctx, s.restaurants, req.RestaurantID)
	if err != nil {
		return nil, err
	}
	hours, ok := restaurant.OpeningHours.For(day.Weekday())
	if _, _, open := hours.Window(); !ok || !open {
		return nil, invalid("date", closedMessage(day.Weekday()))
	}
	if !hours.Accepts(req.Time, domain.SlotInterval) {
		return nil, invalid("time", fmt.Sprintf("time must be a %d minute slot between %s and %s",
			int(domain.SlotInterval/time.Minute), hours.Open, hours.Close))
	}

	booking := &domain.Booking{
		CustomerID:      user.ID,
		RestaurantID:    restaurant.ID,
		RestaurantName:  restaurant.Name,
		OwnerID:         restaurant.OwnerID,
		Date:            req.Date,
		Time:            req.Time,
		Guests:          req.Guests,
		SpecialRequests: req.SpecialRequests,
		Status:          domain.BookingConfirmed,
	}

	if err := s.repository.CreateBooking(ctx, booking, admitGuests(req.Guests)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrRestaurantNotFound
		}
		if IsConflict(err) {
			return nil, err
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.opts.invalidate(ctx, s.cache, AvailabilityKey(booking.RestaurantID, booking.Date), UserBookingsKey(user.ID))
	s.publish(booking, events.TypeBookingCreated)

	s.opts.logger.WithFields(logrus.Fields{
		"booking_id":    booking.ID,
		"restaurant_id": booking.RestaurantID,
		"date":          booking.Date,
		"time":          booking.Time,
		"guests":        booking.Guests,
	}).Info("booking created")
	return booking, nil
}

func (s *BookingService) Cancel(ctx context.Context, user domain.User, id int) (*domain.Booking, error) {
	if err := requireAuthenticated(user); err != nil {
		return nil, err
	}
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != user.ID {
		return nil, ErrForbidden
	}

	switch booking.Status {
	case domain.BookingCancelled:
		return nil, ErrBookingAlreadyCancelled
	case domain.BookingCompleted:
		return nil, ErrBookingCompleted
	}
	if s.started(booking) {
		return nil, ErrPastBooking
	}

	if err := s.repository.UpdateBookingStatus(ctx, id, booking.Status, domain.BookingCancelled); err != nil {
		return nil, bookingLookupError(err)
	}
	booking.Status = domain.BookingCancelled

	s.opts.invalidate(ctx, s.cache, AvailabilityKey(booking.RestaurantID, booking.Date), UserBookingsKey(user.ID))
	s.publish(booking, events.TypeBookingCancelled)

	s.opts.logger.WithFields(logrus.Fields{
		"booking_id":    booking.ID,
		"restaurant_id": booking.RestaurantID,
	}).Info("booking cancelled")
	return booking, nil
}

// Get returns a booking to its customer or to the restaurant owner.
func (s *BookingService) Get(ctx context.Context, user domain.User, id int) (*domain.Booking, error) {
	if err := requireAuthenticated(user); err != nil {
		return nil, err
	}
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != user.ID && booking.OwnerID != user.ID && !user.IsAdmin() {
		return nil, ErrForbidden
	}
	return booking, nil
}

func (s *BookingService) ListMine(ctx context.Context, user domain.User, status domain.BookingStatus) ([]domain.Booking, error) {
	if err := requireAuthenticated(user); err != nil {
		return nil, err
	}
	if status != "" && !status.Valid() {
		return nil, invalid("status", "unknown booking status")
	}

	key := UserBookingsKey(user.ID)
	var bookings []domain.Booking
	if !s.opts.cached(ctx, s.cache, key, &bookings) {
		found, err := s.repository.ListCustomerBookings(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("list bookings: %w", err)
		}
		bookings = found
		if bookings == nil {
			bookings = []domain.Booking{}
		}
		s.opts.store(ctx, s.cache, key, bookings, s.opts.ttl.Bookings)
	}

	if status == "" {
		return bookings, nil
	}
	filtered := make([]domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Status == status {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

func (s *BookingService) ListForRestaurant(ctx context.Context, user domain.User, restaurantID int, filter domain.BookingFilter) ([]domain.Booking, error) {
	if _, err := ownedRestaurant(ctx, s.restaurants, user, restaurantID); err != nil {
		return nil, err
	}
	if filter.Date != "" {
		if _, err := domain.ParseDate(filter.Date, time.UTC); err != nil {
			return nil, invalid("date", "date must be in YYYY-MM-DD format")
		}
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, invalid("status", "unknown booking status")
	}

	bookings, err := s.repository.ListRestaurantBookings(ctx, restaurantID, filter)
	if err != nil {
		return nil, fmt.Errorf("list restaurant bookings: %w", err)
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return bookings, nil
}

// UpdateStatus lets the restaurant owner confirm, complete or cancel a booking.
func (s *BookingService) UpdateStatus(ctx context.Context, user domain.User, id int, status domain.BookingStatus) (*domain.Booking, error) {
	if err := requireOwner(user); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, invalid("status", "unknown booking status")
	}
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.OwnerID != user.ID && !user.IsAdmin() {
		return nil, ErrForbidden
	}
	if !booking.Status.CanTransition(status) {
		return nil, ErrInvalidStatusTransition
	}

	if err := s.repository.UpdateBookingStatus(ctx, id, booking.Status, status); err != nil {
		return nil, bookingLookupError(err)
	}
	booking.Status = status

	s.opts.invalidate(ctx, s.cache, AvailabilityKey(booking.RestaurantID, booking.Date), UserBookingsKey(booking.CustomerID))
	if status == domain.BookingCancelled {
		s.publish(booking, events.TypeBookingCancelled)
	} else {
		s.publish(booking, events.TypeBookingStatusChanged)
	}
	return booking, nil
}

func (s *BookingService) QRCode(ctx context.Context, user domain.User, id int) ([]byte, error) {
	booking, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}
	png, err := s.opts.qr.Generate(booking.ID)
	if err != nil {
		return nil, fmt.Errorf("generate qr code: %w", err)
	}
	return png, nil
}

func (s *BookingService) load(ctx context.Context, id int) (*domain.Booking, error) {
	booking, err := s.repository.GetBooking(ctx, id)
	if err != nil {
		return nil, bookingLookupError(err)
	}
	return booking, nil
}

// started reports whether the booked slot is already in the past.
func (s *BookingService) started(booking *domain.Booking) bool {
	now := s.opts.now()
	at, err := time.ParseInLocation(domain.DateLayout+" "+domain.ClockLayout, booking.Date+" "+booking.Time, now.Location())
	if err != nil {
		return false
	}
	return !at.After(now)
}

func (s *BookingService) validateRequest(req domain.BookingRequest) (time.Time, error) {
	if req.RestaurantID <= 0 {
		return time.Time{}, invalid("restaurant_id", "restaurant_id is required")
	}
	now := s.opts.now()
	day, err := domain.ParseDate(req.Date, now.Location())
	if err != nil {
		return time.Time{}, invalid("date", "date must be in YYYY-MM-DD format")
	}
	minutes, err := domain.ParseClock(req.Time)
	if err != nil {
		return time.Time{}, invalid("time", domain.ErrInvalidClock.Error())
	}
	today := now.Format(domain.DateLayout)
	if req.Date < today {
		return time.Time{}, invalid("date", "date cannot be in the past")
	}
	if req.Date == today && minutes <= now.Hour()*60+now.Minute() {
		return time.Time{}, invalid("time", "time has already passed")
	}
	if req.Guests < domain.MinGuests || req.Guests > domain.MaxGuests {
		return time.Time{}, invalid("guests", fmt.Sprintf("guests must be between %d and %d", domain.MinGuests, domain.MaxGuests))
	}
	if utf8.RuneCountInString(req.SpecialRequests) > domain.MaxSpecialRequestsLen {
		return time.Time{}, invalid("special_requests", fmt.Sprintf("special requests must be at most %d characters", domain.MaxSpecialRequestsLen))
	}
	return day, nil
}

func (s *BookingService) publish(booking *domain.Booking, eventType string) {
	if s.publisher == nil {
		return
	}
	msg := events.BookingMessage{
		ID:           events.NewID(),
		Type:         eventType,
		BookingID:    booking.ID,
		RestaurantID: booking.RestaurantID,
		CustomerID:   booking.CustomerID,
		Date:         booking.Date,
		Time:         booking.Time,
		Guests:       booking.Guests,
		Status:       string(booking.Status),
		Timestamp:    s.opts.now(),
	}
	s.opts.background("publish "+eventType, logrus.Fields{"booking_id": booking.ID}, func(ctx context.Context) error {
		return s.publisher.PublishBooking(ctx, msg)
	})
}

func admitGuests(guests int) domain.AdmitFunc {
	return func(capacity, held int) error {
		remaining := capacity - held
		if remaining <= 0 {
			return ErrNoTablesAvailable
		}
		if guests > remaining {
			return &CapacityError{Remaining: remaining}
		}
		return nil
	}
}

func bookingLookupError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return ErrBookingNotFound
	}
	if errors.Is(err, domain.ErrStale) {
		return ErrBookingChanged
	}
	return fmt.Errorf("load booking: %w", err)
}
