package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

type Cuisine string

const (
	CuisineItalian       Cuisine = "italian"
	CuisineChinese       Cuisine = "chinese"
	CuisineJapanese      Cuisine = "japanese"
	CuisineMexican       Cuisine = "mexican"
	CuisineIndian        Cuisine = "indian"
	CuisineFrench        Cuisine = "french"
	CuisineThai          Cuisine = "thai"
	CuisineAmerican      Cuisine = "american"
	CuisineMediterranean Cuisine = "mediterranean"
	CuisineKorean        Cuisine = "korean"
	CuisineVietnamese    Cuisine = "vietnamese"
	CuisineSpanish       Cuisine = "spanish"
	CuisineOther         Cuisine = "other"
)

var cuisines = map[Cuisine]struct{}{
	CuisineItalian: {}, CuisineChinese: {}, CuisineJapanese: {}, CuisineMexican: {},
	CuisineIndian: {}, CuisineFrench: {}, CuisineThai: {}, CuisineAmerican: {},
	CuisineMediterranean: {}, CuisineKorean: {}, CuisineVietnamese: {}, CuisineSpanish: {},
	CuisineOther: {},
}

// ParseCuisine normalises user input, returning false for unknown values.
func ParseCuisine(raw string) (Cuisine, bool) {
	c := Cuisine(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := cuisines[c]
	return c, ok
}

// OpeningHours maps lowercase weekday names to the hours for that day.
// Days without an entry are closed. Stored as JSONB.
type OpeningHours map[string]DayHours

func (h OpeningHours) Value() (driver.Value, error) {
	if h == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(h)
}

func (h *OpeningHours) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*h = OpeningHours{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("opening hours: unsupported type %T", src)
	}
	hours := OpeningHours{}
	if err := json.Unmarshal(raw, &hours); err != nil {
		return fmt.Errorf("opening hours: %w", err)
	}
	*h = hours
	return nil
}

// For returns the hours of the given weekday.
func (h OpeningHours) For(day time.Weekday) (DayHours, bool) {
	hours, ok := h[WeekdayKey(day)]
	return hours, ok
}

// Validate checks day names and clock formats. A day whose open equals close
// is allowed and means closed.
func (h OpeningHours) Validate() error {
	for day, hours := range h {
		if _, ok := weekdayKeys[day]; !ok {
			return fmt.Errorf("unknown weekday %q", day)
		}
		open, err := ParseClock(hours.Open)
		if err != nil {
			return fmt.Errorf("%s open: %w", day, err)
		}
		closing, err := ParseClock(hours.Close)
		if err != nil {
			return fmt.Errorf("%s close: %w", day, err)
		}
		if closing < open {
			return errors.New(day + " closes before it opens")
		}
	}
	return nil
}

type Restaurant struct {
	ID           int          `json:"id" db:"id"`
	OwnerID      string       `json:"owner_id" db:"owner_id"`
	Name         string       `json:"name" db:"name"`
	Description  string       `json:"description" db:"description"`
	Cuisine      Cuisine      `json:"cuisine" db:"cuisine"`
	Address      string       `json:"address" db:"address"`
	Latitude     *float64     `json:"latitude,omitempty" db:"latitude"`
	Longitude    *float64     `json:"longitude,omitempty" db:"longitude"`
	PriceRange   int          `json:"price_range" db:"price_range"`
	Capacity     int          `json:"capacity" db:"capacity"`
	OpeningHours OpeningHours `json:"opening_hours" db:"opening_hours"`
	Phone        string       `json:"phone" db:"phone"`
	ImageURL     string       `json:"image_url" db:"image_url"`
	IsActive     bool         `json:"is_active" db:"is_active"`
	AvgRating    float64      `json:"avg_rating" db:"avg_rating"`
	ReviewCount  int          `json:"review_count" db:"review_count"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// RestaurantPatch carries the fields an owner may change. Nil fields are left untouched.
type RestaurantPatch struct {
	Name         *string       `json:"name"`
	Description  *string       `json:"description"`
	Cuisine      *Cuisine      `json:"cuisine"`
	Address      *string       `json:"address"`
	Latitude     *float64      `json:"latitude"`
	Longitude    *float64      `json:"longitude"`
	PriceRange   *int          `json:"price_range"`
	Capacity     *int          `json:"capacity"`
	OpeningHours *OpeningHours `json:"opening_hours"`
	Phone        *string       `json:"phone"`
}

func (p RestaurantPatch) Apply(r *Restaurant) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Cuisine != nil {
		r.Cuisine = *p.Cuisine
	}
	if p.Address != nil {
		r.Address = *p.Address
	}
	if p.Latitude != nil {
		r.Latitude = p.Latitude
	}
	if p.Longitude != nil {
		r.Longitude = p.Longitude
	}
	if p.PriceRange != nil {
		r.PriceRange = *p.PriceRange
	}
	if p.Capacity != nil {
		r.Capacity = *p.Capacity
	}
	if p.OpeningHours != nil {
		r.OpeningHours = *p.OpeningHours
	}
	if p.Phone != nil {
		r.Phone = *p.Phone
	}
}

type RestaurantFilter struct {
	Cuisine    string
	PriceRange int
	Search     string
	Page       int
	Limit      int
}

type RestaurantPage struct {
	Restaurants []Restaurant `json:"restaurants"`
	Total       int          `json:"total"`
	Page        int          `json:"page"`
	Limit       int          `json:"limit"`
}

type NearbyQuery struct {
	Latitude   float64
	Longitude  float64
	RadiusKm   float64
	Cuisine    string
	PriceRange int
	Page       int
	Limit      int
}

// NearbyRestaurant is a restaurant with its distance in metres from the
// search centre. Distance is -1 when the result came from the degraded listing.
type NearbyRestaurant struct {
	Restaurant
	Distance float64 `json:"distance" db:"distance"`
}

type NearbyResult struct {
	Restaurants []NearbyRestaurant `json:"restaurants"`
	Total       int                `json:"total"`
	Page        int                `json:"page"`
	Limit       int                `json:"limit"`
	RadiusKm    float64            `json:"radius_km"`
	Degraded    bool               `json:"degraded"`
}

type MenuItem struct {
	ID           int       `json:"id" db:"id"`
	RestaurantID int       `json:"restaurant_id" db:"restaurant_id"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description" db:"description"`
	Price        float64   `json:"price" db:"price"`
	Category     string    `json:"category" db:"category"`
	IsAvailable  bool      `json:"is_available" db:"is_available"`
	ImageURL     string    `json:"image_url" db:"image_url"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type MenuItemPatch struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	IsAvailable *bool    `json:"is_available"`
}

func (p MenuItemPatch) Apply(item *MenuItem) {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.IsAvailable != nil {
		item.IsAvailable = *p.IsAvailable
	}
}
