package domain

import "time"

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 1000
)

type Review struct {
	ID             int        `json:"id" db:"id"`
	CustomerID     string     `json:"customer_id" db:"customer_id"`
	RestaurantID   int        `json:"restaurant_id" db:"restaurant_id"`
	RestaurantName string     `json:"restaurant_name,omitempty" db:"restaurant_name"`
	OwnerID        string     `json:"-" db:"owner_id"`
	Rating         int        `json:"rating" db:"rating"`
	Comment        string     `json:"comment" db:"comment"`
	OwnerReply     string     `json:"owner_reply,omitempty" db:"owner_reply"`
	RepliedAt      *time.Time `json:"replied_at,omitempty" db:"replied_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

type ReviewSummary struct {
	Average      float64     `json:"average"`
	Count        int         `json:"count"`
	Distribution map[int]int `json:"distribution"`
}

type ReviewPage struct {
	Reviews []Review      `json:"reviews"`
	Summary ReviewSummary `json:"summary"`
	Page    int           `json:"page"`
	Limit   int           `json:"limit"`
}

// RatingCount is one row of a rating distribution query.
type RatingCount struct {
	Rating int `db:"rating"`
	Count  int `db:"count"`
}

// NewReviewSummary builds a summary with every rating bucket present.
func NewReviewSummary(counts []RatingCount) ReviewSummary {
	summary := ReviewSummary{Distribution: make(map[int]int, MaxRating)}
	for r := MinRating; r <= MaxRating; r++ {
		summary.Distribution[r] = 0
	}
	total := 0
	for _, c := range counts {
		if c.Rating < MinRating || c.Rating > MaxRating {
			continue
		}
		summary.Distribution[c.Rating] += c.Count
		summary.Count += c.Count
		total += c.Rating * c.Count
	}
	if summary.Count > 0 {
		summary.Average = float64(total) / float64(summary.Count)
	}
	return summary
}
