package service

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("you do not have access to this resource")
	ErrOwnerOnly       = errors.New("only restaurant owners can perform this action")
	ErrCustomerOnly    = errors.New("only customers can perform this action")

	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrMenuItemNotFound   = errors.New("menu item not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrReviewNotFound     = errors.New("review not found")
	ErrFavoriteNotFound   = errors.New("restaurant is not in favorites")

	ErrNoTablesAvailable       = errors.New("no tables available at this time")
	ErrBookingAlreadyCancelled = errors.New("booking is already cancelled")
	ErrBookingCompleted        = errors.New("completed bookings cannot be cancelled")
	ErrPastBooking             = errors.New("past bookings cannot be cancelled")
	ErrInvalidStatusTransition = errors.New("booking status cannot be changed that way")
	ErrBookingChanged          = errors.New("booking was changed by someone else, reload and try again")
	ErrDuplicateReview         = errors.New("you have already reviewed this restaurant")
	ErrDuplicateFavorite       = errors.New("restaurant is already in favorites")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// CapacityError is returned when some seats remain but fewer than requested.
type CapacityError struct {
	Remaining int
}

func (e *CapacityError) Error() string {
	if e.Remaining == 1 {
		return "only 1 seat available"
	}
	return fmt.Sprintf("only %d seats available", e.Remaining)
}

// IsConflict reports whether err is a state conflict the caller can resolve
// by changing the request.
func IsConflict(err error) bool {
	var capacity *CapacityError
	if errors.As(err, &capacity) {
		return true
	}
	for _, target := range []error{
		ErrNoTablesAvailable,
		ErrBookingAlreadyCancelled,
		ErrBookingCompleted,
		ErrPastBooking,
		ErrInvalidStatusTransition,
		ErrBookingChanged,
		ErrDuplicateReview,
		ErrDuplicateFavorite,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
