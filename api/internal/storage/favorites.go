package storage

import (
	"context"

	"tablebooker/api/internal/domain"
)

func (r *PostgresRepository) AddFavorite(ctx context.Context, userID string, restaurantID int) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO favorites (user_id, restaurant_id) VALUES ($1, $2)`, userID, restaurantID)
	return constraintError(err)
}

func (r *PostgresRepository) RemoveFavorite(ctx context.Context, userID string, restaurantID int) (int64, error) {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND restaurant_id = $2`, userID, restaurantID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) ListFavorites(ctx context.Context, userID string) ([]domain.FavoriteRestaurant, error) {
	var favorites []domain.FavoriteRestaurant
	err := r.DB.SelectContext(ctx, &favorites, `
		SELECT `+restaurantColumns+`, f.created_at AS favorited_at
		FROM favorites f
		JOIN restaurants r ON r.id = f.restaurant_id
		WHERE f.user_id = $1 AND r.is_active
		ORDER BY f.created_at DESC`, userID)
	return favorites, err
}

func (r *PostgresRepository) IsFavorite(ctx context.Context, userID string, restaurantID int) (bool, error) {
	var exists bool
	err := r.DB.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND restaurant_id = $2)`, userID, restaurantID)
	return exists, err
}
