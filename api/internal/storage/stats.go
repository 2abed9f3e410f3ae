package storage

import (
	"context"

	"github.com/lib/pq"

	"tablebooker/api/internal/domain"
)

type scoreRow struct {
	domain.Restaurant
	Score float64 `db:"score"`
}

func toScores(rows []scoreRow) []domain.RestaurantScore {
	scores := make([]domain.RestaurantScore, 0, len(rows))
	for _, row := range rows {
		scores = append(scores, domain.RestaurantScore{Restaurant: row.Restaurant, Score: row.Score})
	}
	return scores
}

func (r *PostgresRepository) BookingStatusCounts(ctx context.Context, restaurantID int) ([]domain.StatusCount, error) {
	var counts []domain.StatusCount
	err := r.DB.SelectContext(ctx, &counts, `
		SELECT status, COUNT(*) AS count, COALESCE(SUM(guests), 0) AS guests
		FROM bookings
		WHERE restaurant_id = $1
		GROUP BY status`, restaurantID)
	return counts, err
}

func (r *PostgresRepository) UpcomingBookings(ctx context.Context, restaurantID int, today string) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM bookings
		WHERE restaurant_id = $1 AND booking_date >= $2 AND status = ANY($3)`,
		restaurantID, today, pq.Array(heldStatuses))
	return count, err
}

func (r *PostgresRepository) FavoriteCount(ctx context.Context, restaurantID int) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM favorites WHERE restaurant_id = $1`, restaurantID)
	return count, err
}

func (r *PostgresRepository) TopRatedRestaurants(ctx context.Context, limit int) ([]domain.RestaurantScore, error) {
	var rows []scoreRow
	err := r.DB.SelectContext(ctx, &rows, `
		SELECT `+restaurantColumns+`, r.avg_rating AS score
		FROM restaurants r
		WHERE r.is_active AND r.review_count > 0
		ORDER BY r.avg_rating DESC, r.review_count DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return toScores(rows), nil
}

func (r *PostgresRepository) PopularRestaurants(ctx context.Context, date string, limit int) ([]domain.RestaurantScore, error) {
	var rows []scoreRow
	err := r.DB.SelectContext(ctx, &rows, `
		SELECT `+restaurantColumns+`, COUNT(b.id) AS score
		FROM restaurants r
		JOIN bookings b ON b.restaurant_id = r.id
		WHERE r.is_active AND b.booking_date = $1 AND b.status = ANY($2)
		GROUP BY r.id
		ORDER BY score DESC
		LIMIT $3`, date, pq.Array(heldStatuses), limit)
	if err != nil {
		return nil, err
	}
	return toScores(rows), nil
}
