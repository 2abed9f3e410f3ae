package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"tablebooker/api/internal/domain"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// heldStatuses are the booking states that occupy seats.
var heldStatuses = []string{string(domain.BookingConfirmed), string(domain.BookingPending)}

type PostgresRepository struct {
	DB *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS restaurants (
		id SERIAL PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		cuisine TEXT NOT NULL,
		address TEXT NOT NULL,
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		price_range SMALLINT NOT NULL CHECK (price_range BETWEEN 1 AND 4),
		capacity INTEGER NOT NULL CHECK (capacity > 0),
		opening_hours JSONB NOT NULL DEFAULT '{}',
		phone TEXT,
		image_url TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		avg_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		review_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS restaurants_owner_idx ON restaurants (owner_id)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		id SERIAL PRIMARY KEY,
		restaurant_id INTEGER NOT NULL REFERENCES restaurants(id),
		name TEXT NOT NULL,
		description TEXT,
		price NUMERIC(10,2) NOT NULL DEFAULT 0,
		category TEXT,
		is_available BOOLEAN NOT NULL DEFAULT TRUE,
		image_url TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id SERIAL PRIMARY KEY,
		customer_id TEXT NOT NULL,
		restaurant_id INTEGER NOT NULL REFERENCES restaurants(id),
		booking_date DATE NOT NULL,
		booking_time TEXT NOT NULL,
		guests INTEGER NOT NULL CHECK (guests BETWEEN 1 AND 20),
		special_requests TEXT,
		status TEXT NOT NULL DEFAULT 'confirmed',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS bookings_slot_idx ON bookings (restaurant_id, booking_date, booking_time)`,
	`CREATE INDEX IF NOT EXISTS bookings_customer_idx ON bookings (customer_id)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id SERIAL PRIMARY KEY,
		customer_id TEXT NOT NULL,
		restaurant_id INTEGER NOT NULL REFERENCES restaurants(id),
		rating SMALLINT NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment TEXT,
		owner_reply TEXT,
		replied_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (customer_id, restaurant_id)
	)`,
	`CREATE TABLE IF NOT EXISTS favorites (
		user_id TEXT NOT NULL,
		restaurant_id INTEGER NOT NULL REFERENCES restaurants(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, restaurant_id)
	)`,
}

// geoSchema needs PostGIS. Nearby search reports degraded results without it.
var geoSchema = []string{
	`CREATE EXTENSION IF NOT EXISTS postgis`,
	`CREATE INDEX IF NOT EXISTS restaurants_location_idx ON restaurants
		USING GIST ((ST_SetSRID(ST_MakePoint(longitude, latitude), 4326)::geography))`,
}

// EnsureSchema creates the tables when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context, logger logrus.FieldLogger) error {
	for _, stmt := range schema {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	for _, stmt := range geoSchema {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			logger.WithError(err).Warn("geospatial index unavailable, nearby search will run degraded")
			break
		}
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// constraintError maps driver constraint failures onto domain errors.
func constraintError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return domain.ErrDuplicate
		case foreignKeyViolation:
			return domain.ErrNotFound
		}
	}
	return err
}

func affected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
