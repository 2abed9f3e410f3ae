package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"tablebooker/api/internal/domain"
)

const restaurantColumns = `r.id, r.owner_id, r.name, COALESCE(r.description, '') AS description, r.cuisine,
	r.address, r.latitude, r.longitude, r.price_range, r.capacity, r.opening_hours,
	COALESCE(r.phone, '') AS phone, COALESCE(r.image_url, '') AS image_url, r.is_active,
	r.avg_rating, r.review_count, r.created_at, r.updated_at`

const geoPoint = `ST_SetSRID(ST_MakePoint(r.longitude, r.latitude), 4326)::geography`

type nearbyRow struct {
	domain.NearbyRestaurant
	TotalCount int `db:"total_count"`
}

func (r *PostgresRepository) CreateRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	return r.DB.QueryRowxContext(ctx, `
		INSERT INTO restaurants (owner_id, name, description, cuisine, address, latitude, longitude,
			price_range, capacity, opening_hours, phone, image_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, avg_rating, review_count, created_at, updated_at`,
		rest.OwnerID, rest.Name, rest.Description, rest.Cuisine, rest.Address, rest.Latitude, rest.Longitude,
		rest.PriceRange, rest.Capacity, rest.OpeningHours, rest.Phone, rest.ImageURL, rest.IsActive,
	).Scan(&rest.ID, &rest.AvgRating, &rest.ReviewCount, &rest.CreatedAt, &rest.UpdatedAt)
}

// restaurantFilter builds the WHERE clause shared by the public listings.
// Placeholders start at $1.
func restaurantFilter(cuisine string, priceRange int, search string) (string, []interface{}) {
	clauses := []string{"r.is_active"}
	var args []interface{}
	if cuisine != "" {
		args = append(args, cuisine)
		clauses = append(clauses, fmt.Sprintf("r.cuisine = $%d", len(args)))
	}
	if priceRange > 0 {
		args = append(args, priceRange)
		clauses = append(clauses, fmt.Sprintf("r.price_range = $%d", len(args)))
	}
	if search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		clauses = append(clauses, fmt.Sprintf("(r.name ILIKE $%d OR r.address ILIKE $%d)", len(args), len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *PostgresRepository) ListRestaurants(ctx context.Context, filter domain.RestaurantFilter) ([]domain.Restaurant, int, error) {
	where, args := restaurantFilter(filter.Cuisine, filter.PriceRange, filter.Search)

	var total int
	if err := r.DB.GetContext(ctx, &total, `SELECT COUNT(*) FROM restaurants r WHERE `+where, args...); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`SELECT %s FROM restaurants r WHERE %s
		ORDER BY r.avg_rating DESC, r.id
		LIMIT $%d OFFSET $%d`, restaurantColumns, where, len(args)-1, len(args))

	var restaurants []domain.Restaurant
	if err := r.DB.SelectContext(ctx, &restaurants, query, args...); err != nil {
		return nil, 0, err
	}
	return restaurants, total, nil
}

func (r *PostgresRepository) GetRestaurant(ctx context.Context, id int) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	err := r.DB.GetContext(ctx, &rest, `SELECT `+restaurantColumns+` FROM restaurants r WHERE r.id = $1`, id)
	if err != nil {
		return nil, notFound(err)
	}
	return &rest, nil
}

func (r *PostgresRepository) UpdateRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	err := r.DB.QueryRowxContext(ctx, `
		UPDATE restaurants
		SET name = $1, description = $2, cuisine = $3, address = $4, latitude = $5, longitude = $6,
			price_range = $7, capacity = $8, opening_hours = $9, phone = $10, updated_at = NOW()
		WHERE id = $11
		RETURNING updated_at`,
		rest.Name, rest.Description, rest.Cuisine, rest.Address, rest.Latitude, rest.Longitude,
		rest.PriceRange, rest.Capacity, rest.OpeningHours, rest.Phone, rest.ID,
	).Scan(&rest.UpdatedAt)
	return notFound(err)
}

func (r *PostgresRepository) DeactivateRestaurant(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE restaurants SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return affected(result)
}

func (r *PostgresRepository) ListOwnerRestaurants(ctx context.Context, ownerID string) ([]domain.Restaurant, error) {
	var restaurants []domain.Restaurant
	err := r.DB.SelectContext(ctx, &restaurants,
		`SELECT `+restaurantColumns+` FROM restaurants r WHERE r.owner_id = $1 ORDER BY r.created_at DESC`, ownerID)
	return restaurants, err
}

func (r *PostgresRepository) UpdateRestaurantImage(ctx context.Context, id int, imageURL string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE restaurants SET image_url = $1, updated_at = NOW() WHERE id = $2`, imageURL, id)
	if err != nil {
		return err
	}
	return affected(result)
}

// NearbyRestaurants returns active restaurants within the radius, closest
// first, with distances in metres.
func (r *PostgresRepository) NearbyRestaurants(ctx context.Context, q domain.NearbyQuery) ([]domain.NearbyRestaurant, int, error) {
	args := []interface{}{q.Longitude, q.Latitude, q.RadiusKm * 1000}
	clauses := []string{
		"r.is_active",
		"r.latitude IS NOT NULL",
		"r.longitude IS NOT NULL",
		"ST_DWithin(" + geoPoint + ", ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)",
	}
	if q.Cuisine != "" {
		args = append(args, q.Cuisine)
		clauses = append(clauses, fmt.Sprintf("r.cuisine = $%d", len(args)))
	}
	if q.PriceRange > 0 {
		args = append(args, q.PriceRange)
		clauses = append(clauses, fmt.Sprintf("r.price_range = $%d", len(args)))
	}
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	query := fmt.Sprintf(`
		SELECT %s,
			ST_Distance(%s, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) AS distance,
			COUNT(*) OVER() AS total_count
		FROM restaurants r
		WHERE %s
		ORDER BY distance ASC, r.id
		LIMIT $%d OFFSET $%d`,
		restaurantColumns, geoPoint, strings.Join(clauses, " AND "), len(args)-1, len(args))

	var rows []nearbyRow
	if err := r.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, err
	}

	total := 0
	restaurants := make([]domain.NearbyRestaurant, 0, len(rows))
	for _, row := range rows {
		total = row.TotalCount
		restaurants = append(restaurants, row.NearbyRestaurant)
	}
	return restaurants, total, nil
}

func (r *PostgresRepository) RestaurantsByIDs(ctx context.Context, ids []int) ([]domain.Restaurant, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var restaurants []domain.Restaurant
	err := r.DB.SelectContext(ctx, &restaurants,
		`SELECT `+restaurantColumns+` FROM restaurants r WHERE r.id = ANY($1)`, pq.Array(ids))
	return restaurants, err
}
