package domain

// Rating is a restaurant's review aggregate after recomputation.
type Rating struct {
	RestaurantID int     `db:"id"`
	AvgRating    float64 `db:"avg_rating"`
	ReviewCount  int     `db:"review_count"`
}
