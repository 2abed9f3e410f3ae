package service

import (
	"fmt"
	"strings"

	"tablebooker/api/internal/domain"
	"tablebooker/cachekeys"
)

const (
	restaurantListVersionKey = cachekeys.ListVersion
	TopRatedKey              = cachekeys.TopRated
)

func AvailabilityKey(restaurantID int, date string) string {
	return fmt.Sprintf("availability:%d:%s", restaurantID, date)
}

func UserBookingsKey(userID string) string {
	return "bookings:user:" + userID
}

func RestaurantKey(id int) string {
	return cachekeys.Restaurant(id)
}

func PopularKey(date string) string {
	return cachekeys.Popular(date)
}

func restaurantListKey(version int64, f domain.RestaurantFilter) string {
	return fmt.Sprintf("restaurants:list:v%d:%s:%d:%s:%d:%d",
		version, f.Cuisine, f.PriceRange, strings.ToLower(f.Search), f.Page, f.Limit)
}
