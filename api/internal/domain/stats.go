package domain

type RestaurantStats struct {
	RestaurantID     int                   `json:"restaurant_id"`
	BookingsByStatus map[BookingStatus]int `json:"bookings_by_status"`
	TotalBookings    int                   `json:"total_bookings"`
	TotalGuests      int                   `json:"total_guests"`
	UpcomingBookings int                   `json:"upcoming_bookings"`
	FavoritesCount   int                   `json:"favorites_count"`
	Reviews          ReviewSummary         `json:"reviews"`
}

// StatusCount is one row of a bookings-by-status aggregation.
type StatusCount struct {
	Status BookingStatus `db:"status"`
	Count  int           `db:"count"`
	Guests int           `db:"guests"`
}

// ScoredMember is an entry read back from a Redis sorted set.
type ScoredMember struct {
	Member string
	Score  float64
}

type RestaurantScore struct {
	Restaurant Restaurant `json:"restaurant"`
	Score      float64    `json:"score"`
}
