package storage

import (
	"context"

	"tablebooker/api/internal/domain"
)

const menuColumns = `id, restaurant_id, name, COALESCE(description, '') AS description, price,
	COALESCE(category, '') AS category, is_available, COALESCE(image_url, '') AS image_url, created_at, updated_at`

func (r *PostgresRepository) ListMenuItems(ctx context.Context, restaurantID int) ([]domain.MenuItem, error) {
	var items []domain.MenuItem
	err := r.DB.SelectContext(ctx, &items, `
		SELECT `+menuColumns+`
		FROM menu_items
		WHERE restaurant_id = $1
		ORDER BY category, name`, restaurantID)
	return items, err
}

func (r *PostgresRepository) GetMenuItem(ctx context.Context, restaurantID, itemID int) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := r.DB.GetContext(ctx, &item,
		`SELECT `+menuColumns+` FROM menu_items WHERE id = $1 AND restaurant_id = $2`, itemID, restaurantID)
	if err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (r *PostgresRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	return r.DB.QueryRowxContext(ctx, `
		INSERT INTO menu_items (restaurant_id, name, description, price, category, is_available, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		item.RestaurantID, item.Name, item.Description, item.Price, item.Category, item.IsAvailable, item.ImageURL,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (r *PostgresRepository) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	err := r.DB.QueryRowxContext(ctx, `
		UPDATE menu_items
		SET name = $1, description = $2, price = $3, category = $4, is_available = $5, updated_at = NOW()
		WHERE id = $6 AND restaurant_id = $7
		RETURNING updated_at`,
		item.Name, item.Description, item.Price, item.Category, item.IsAvailable, item.ID, item.RestaurantID,
	).Scan(&item.UpdatedAt)
	return notFound(err)
}

func (r *PostgresRepository) DeleteMenuItem(ctx context.Context, restaurantID, itemID int) (int64, error) {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM menu_items WHERE id = $1 AND restaurant_id = $2`, itemID, restaurantID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) UpdateMenuItemImage(ctx context.Context, restaurantID, itemID int, imageURL string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE menu_items SET image_url = $1, updated_at = NOW() WHERE id = $2 AND restaurant_id = $3`,
		imageURL, itemID, restaurantID)
	if err != nil {
		return err
	}
	return affected(result)
}
