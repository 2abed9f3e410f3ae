package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TopicBookings = "bookings"
	TopicReviews  = "reviews"
)

const (
	TypeBookingCreated       = "booking_created"
	TypeBookingCancelled     = "booking_cancelled"
	TypeBookingStatusChanged = "booking_status_changed"

	TypeReviewCreated = "review_created"
	TypeReviewUpdated = "review_updated"
	TypeReviewDeleted = "review_deleted"
)

type BookingMessage struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	BookingID    int       `json:"booking_id"`
	RestaurantID int       `json:"restaurant_id"`
	CustomerID   string    `json:"customer_id"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Guests       int       `json:"guests"`
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
}

type ReviewMessage struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	ReviewID     int       `json:"review_id"`
	RestaurantID int       `json:"restaurant_id"`
	CustomerID   string    `json:"customer_id"`
	Rating       int       `json:"rating"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewID returns a unique event identifier so consumers can spot redeliveries.
func NewID() string {
	return uuid.NewString()
}
