// Package cachekeys names the Redis keys shared by the API service, which
// reads them, and the aggregation worker, which maintains them.
package cachekeys

import "fmt"

const (
	// ListVersion is bumped on every restaurant write. List cache keys embed
	// it, so a bump orphans every cached page at once.
	ListVersion = "restaurants:list:version"
	TopRated    = "leaderboard:rating"
)

func Restaurant(id int) string {
	return fmt.Sprintf("restaurant:%d", id)
}

func RestaurantRating(id int) string {
	return fmt.Sprintf("restaurant:%d:rating", id)
}

func Popular(date string) string {
	return "analytics:bookings:" + date
}
