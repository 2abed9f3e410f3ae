package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"tablebooker/agg-svc/internal/domain"
	"tablebooker/cachekeys"
)

const (
	popularityTTL = 7 * 24 * time.Hour
	ratingTTL     = 24 * time.Hour
	claimTTL      = 24 * time.Hour
)

type Store struct {
	db  *sqlx.DB
	rdb *redis.Client
	now func() time.Time
}

func NewStore(db *sqlx.DB, rdb *redis.Client) *Store {
	return &Store{
		db:  db,
		rdb: rdb,
		now: time.Now,
	}
}

// RefreshRating recomputes the review aggregate in Postgres and mirrors it to
// Redis. The API's cached copy of the restaurant is dropped and the list
// version bumped so readers pick up the new numbers.
func (s *Store) RefreshRating(ctx context.Context, restaurantID int) (domain.Rating, error) {
	var rating domain.Rating
	err := s.db.GetContext(ctx, &rating, `
		UPDATE restaurants
		SET avg_rating = COALESCE((
			SELECT ROUND(AVG(rating)::numeric, 2)
			FROM reviews
			WHERE restaurant_id = $1
		), 0),
		review_count = (
			SELECT COUNT(*)
			FROM reviews
			WHERE restaurant_id = $1
		),
		updated_at = NOW()
		WHERE id = $1
		RETURNING id, avg_rating, review_count`, restaurantID)
	if err != nil {
		return domain.Rating{}, fmt.Errorf("recompute rating for restaurant %d: %w", restaurantID, err)
	}

	member := strconv.Itoa(restaurantID)
	ratingKey := cachekeys.RestaurantRating(restaurantID)

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, ratingKey, map[string]interface{}{
			"avg_rating":   rating.AvgRating,
			"review_count": rating.ReviewCount,
			"last_updated": s.now().Unix(),
		})
		pipe.Expire(ctx, ratingKey, ratingTTL)
		if rating.ReviewCount > 0 {
			pipe.ZAdd(ctx, cachekeys.TopRated, redis.Z{Score: rating.AvgRating, Member: member})
		} else {
			pipe.ZRem(ctx, cachekeys.TopRated, member)
		}
		pipe.Del(ctx, cachekeys.Restaurant(restaurantID))
		pipe.Incr(ctx, cachekeys.ListVersion)
		return nil
	})
	if err != nil {
		return rating, fmt.Errorf("mirror rating for restaurant %d: %w", restaurantID, err)
	}
	return rating, nil
}

// AdjustPopularity moves a restaurant's booking count for date by delta.
// Members that drop to zero leave the set.
func (s *Store) AdjustPopularity(ctx context.Context, restaurantID int, date string, delta float64) error {
	key := cachekeys.Popular(date)
	member := strconv.Itoa(restaurantID)

	score, err := s.rdb.ZIncrBy(ctx, key, delta, member).Result()
	if err != nil {
		return fmt.Errorf("adjust popularity for restaurant %d: %w", restaurantID, err)
	}
	if score <= 0 {
		if err := s.rdb.ZRem(ctx, key, member).Err(); err != nil {
			return fmt.Errorf("trim popularity for restaurant %d: %w", restaurantID, err)
		}
	}
	return s.rdb.Expire(ctx, key, popularityTTL).Err()
}

// Claim marks an event as being processed. It returns false when another
// delivery of the same event already claimed it.
func (s *Store) Claim(ctx context.Context, eventID string) (bool, error) {
	return s.rdb.SetNX(ctx, claimKey(eventID), s.now().Unix(), claimTTL).Result()
}

// Release undoes a claim so a redelivery can retry the event.
func (s *Store) Release(ctx context.Context, eventID string) error {
	return s.rdb.Del(ctx, claimKey(eventID)).Err()
}

func claimKey(eventID string) string {
	return "events:processed:" + eventID
}
