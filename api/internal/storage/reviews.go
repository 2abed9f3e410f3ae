package storage

import (
	"context"
	"time"

	"tablebooker/api/internal/domain"
)

const reviewColumns = `v.id, v.customer_id, v.restaurant_id, r.name AS restaurant_name, r.owner_id, v.rating,
	COALESCE(v.comment, '') AS comment, COALESCE(v.owner_reply, '') AS owner_reply, v.replied_at,
	v.created_at, v.updated_at`

const reviewSource = `FROM reviews v JOIN restaurants r ON r.id = v.restaurant_id`

func (r *PostgresRepository) CreateReview(ctx context.Context, review *domain.Review) error {
	err := r.DB.QueryRowxContext(ctx, `
		INSERT INTO reviews (customer_id, restaurant_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		review.CustomerID, review.RestaurantID, review.Rating, review.Comment,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	return constraintError(err)
}

func (r *PostgresRepository) GetReview(ctx context.Context, id int) (*domain.Review, error) {
	var review domain.Review
	err := r.DB.GetContext(ctx, &review, `SELECT `+reviewColumns+` `+reviewSource+` WHERE v.id = $1`, id)
	if err != nil {
		return nil, notFound(err)
	}
	return &review, nil
}

func (r *PostgresRepository) UpdateReview(ctx context.Context, review *domain.Review) error {
	err := r.DB.QueryRowxContext(ctx, `
		UPDATE reviews SET rating = $1, comment = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at`,
		review.Rating, review.Comment, review.ID,
	).Scan(&review.UpdatedAt)
	return notFound(err)
}

func (r *PostgresRepository) DeleteReview(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return affected(result)
}

func (r *PostgresRepository) ReplyToReview(ctx context.Context, id int, reply string, at time.Time) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE reviews SET owner_reply = $1, replied_at = $2 WHERE id = $3`, reply, at, id)
	if err != nil {
		return err
	}
	return affected(result)
}

func (r *PostgresRepository) ListRestaurantReviews(ctx context.Context, restaurantID, limit, offset int) ([]domain.Review, error) {
	var reviews []domain.Review
	err := r.DB.SelectContext(ctx, &reviews, `
		SELECT `+reviewColumns+` `+reviewSource+`
		WHERE v.restaurant_id = $1
		ORDER BY v.created_at DESC
		LIMIT $2 OFFSET $3`, restaurantID, limit, offset)
	return reviews, err
}

func (r *PostgresRepository) ListCustomerReviews(ctx context.Context, customerID string) ([]domain.Review, error) {
	var reviews []domain.Review
	err := r.DB.SelectContext(ctx, &reviews, `
		SELECT `+reviewColumns+` `+reviewSource+`
		WHERE v.customer_id = $1
		ORDER BY v.created_at DESC`, customerID)
	return reviews, err
}

func (r *PostgresRepository) RatingCounts(ctx context.Context, restaurantID int) ([]domain.RatingCount, error) {
	var counts []domain.RatingCount
	err := r.DB.SelectContext(ctx, &counts, `
		SELECT rating, COUNT(*) AS count
		FROM reviews
		WHERE restaurant_id = $1
		GROUP BY rating`, restaurantID)
	return counts, err
}
