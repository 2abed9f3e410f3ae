package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"tablebooker/api/internal/domain"
)

const bookingColumns = `b.id, b.customer_id, b.restaurant_id, r.name AS restaurant_name, r.owner_id,
	to_char(b.booking_date, 'YYYY-MM-DD') AS booking_date, b.booking_time, b.guests,
	COALESCE(b.special_requests, '') AS special_requests, b.status, b.created_at, b.updated_at`

const bookingSource = `FROM bookings b JOIN restaurants r ON r.id = b.restaurant_id`

// CreateBooking locks the restaurant row, totals the seats already held for
// the slot and lets admit decide before inserting. All in one transaction.
func (r *PostgresRepository) CreateBooking(ctx context.Context, booking *domain.Booking, admit domain.AdmitFunc) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var capacity int
	err = tx.GetContext(ctx, &capacity,
		`SELECT capacity FROM restaurants WHERE id = $1 AND is_active FOR UPDATE`, booking.RestaurantID)
	if err != nil {
		return notFound(err)
	}

	var held int
	err = tx.GetContext(ctx, &held, `
		SELECT COALESCE(SUM(guests), 0)
		FROM bookings
		WHERE restaurant_id = $1 AND booking_date = $2 AND booking_time = $3 AND status = ANY($4)`,
		booking.RestaurantID, booking.Date, booking.Time, pq.Array(heldStatuses))
	if err != nil {
		return fmt.Errorf("sum held seats: %w", err)
	}

	if err := admit(capacity, held); err != nil {
		return err
	}

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO bookings (customer_id, restaurant_id, booking_date, booking_time, guests, special_requests, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		booking.CustomerID, booking.RestaurantID, booking.Date, booking.Time, booking.Guests,
		booking.SpecialRequests, booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetBooking(ctx context.Context, id int) (*domain.Booking, error) {
	var booking domain.Booking
	err := r.DB.GetContext(ctx, &booking, `SELECT `+bookingColumns+` `+bookingSource+` WHERE b.id = $1`, id)
	if err != nil {
		return nil, notFound(err)
	}
	return &booking, nil
}

func (r *PostgresRepository) ListCustomerBookings(ctx context.Context, customerID string) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := r.DB.SelectContext(ctx, &bookings, `
		SELECT `+bookingColumns+` `+bookingSource+`
		WHERE b.customer_id = $1
		ORDER BY b.booking_date DESC, b.booking_time DESC`, customerID)
	return bookings, err
}

func (r *PostgresRepository) ListRestaurantBookings(ctx context.Context, restaurantID int, filter domain.BookingFilter) ([]domain.Booking, error) {
	args := []interface{}{restaurantID}
	clauses := []string{"b.restaurant_id = $1"}
	if filter.Date != "" {
		args = append(args, filter.Date)
		clauses = append(clauses, fmt.Sprintf("b.booking_date = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("b.status = $%d", len(args)))
	}

	var bookings []domain.Booking
	err := r.DB.SelectContext(ctx, &bookings, `
		SELECT `+bookingColumns+` `+bookingSource+`
		WHERE `+strings.Join(clauses, " AND ")+`
		ORDER BY b.booking_date, b.booking_time`, args...)
	return bookings, err
}

// UpdateBookingStatus moves a booking from one status to another. It fails
// with domain.ErrStale when the booking no longer has status from.
func (r *PostgresRepository) UpdateBookingStatus(ctx context.Context, id int, from, to domain.BookingStatus) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`, to, id, from)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	var exists bool
	if err := r.DB.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = $1)`, id); err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrStale
}

// SlotCounts totals held seats per booking time for one day.
func (r *PostgresRepository) SlotCounts(ctx context.Context, restaurantID int, date string) ([]domain.SlotCount, error) {
	var counts []domain.SlotCount
	err := r.DB.SelectContext(ctx, &counts, `
		SELECT booking_time, SUM(guests) AS guests
		FROM bookings
		WHERE restaurant_id = $1 AND booking_date = $2 AND status = ANY($3)
		GROUP BY booking_time`,
		restaurantID, date, pq.Array(heldStatuses))
	return counts, err
}
