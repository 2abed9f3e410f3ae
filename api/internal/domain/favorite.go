package domain

import "time"

type FavoriteRestaurant struct {
	Restaurant
	FavoritedAt time.Time `json:"favorited_at" db:"favorited_at"`
}
