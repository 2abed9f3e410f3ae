package domain

import "time"

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingPending   BookingStatus = "pending"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

const (
	MinGuests             = 1
	MaxGuests             = 20
	MaxSpecialRequestsLen = 500
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingConfirmed, BookingPending, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// Holding reports whether a booking with this status occupies seats.
func (s BookingStatus) Holding() bool {
	return s == BookingConfirmed || s == BookingPending
}

// CanTransition lists the owner-driven status changes.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	switch s {
	case BookingPending:
		return next == BookingConfirmed || next == BookingCancelled
	case BookingConfirmed:
		return next == BookingCompleted || next == BookingCancelled
	}
	return false
}

type Booking struct {
	ID              int           `json:"id" db:"id"`
	CustomerID      string        `json:"customer_id" db:"customer_id"`
	RestaurantID    int           `json:"restaurant_id" db:"restaurant_id"`
	RestaurantName  string        `json:"restaurant_name,omitempty" db:"restaurant_name"`
	OwnerID         string        `json:"-" db:"owner_id"`
	Date            string        `json:"date" db:"booking_date"`
	Time            string        `json:"time" db:"booking_time"`
	Guests          int           `json:"guests" db:"guests"`
	SpecialRequests string        `json:"special_requests" db:"special_requests"`
	Status          BookingStatus `json:"status" db:"status"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
}

// AdmitFunc decides inside the booking transaction whether the requested
// guests fit, given the restaurant capacity and the seats already held.
type AdmitFunc func(capacity, held int) error

type BookingRequest struct {
	RestaurantID    int    `json:"restaurant_id"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Guests          int    `json:"guests"`
	SpecialRequests string `json:"special_requests"`
}

type BookingFilter struct {
	Date   string
	Status BookingStatus
}

// SlotCount is the number of seats held at one booking time.
type SlotCount struct {
	Time   string `db:"booking_time"`
	Guests int    `db:"guests"`
}

type Slot struct {
	Time              string `json:"time"`
	AvailableCapacity int    `json:"available_capacity"`
	Available         bool   `json:"available"`
}

type Availability struct {
	RestaurantID int    `json:"restaurant_id"`
	Date         string `json:"date"`
	Day          string `json:"day"`
	Open         string `json:"open,omitempty"`
	Close        string `json:"close,omitempty"`
	Capacity     int    `json:"capacity"`
	Closed       bool   `json:"closed"`
	Message      string `json:"message,omitempty"`
	Slots        []Slot `json:"slots"`
}
