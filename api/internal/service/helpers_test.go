package service_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"tablebooker/api/internal/domain"
	"tablebooker/api/internal/service"
	"tablebooker/api/internal/storage"
)

// Monday, noon.
var fixedNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

var (
	owner    = domain.User{ID: "owner-1", Roles: []string{domain.RoleOwner}}
	stranger = domain.User{ID: "owner-2", Roles: []string{domain.RoleOwner}}
	customer = domain.User{ID: "cust-1", Roles: []string{domain.RoleCustomer}}
)

func testOptions(logger logrus.FieldLogger) []service.Option {
	return []service.Option{
		service.WithClock(func() time.Time { return fixedNow }),
		service.WithDispatcher(func(fn func()) { fn() }),
		service.WithLogger(logger),
	}
}

func nullLogger() (*logrus.Logger, *test.Hook) {
	return test.NewNullLogger()
}

func newCache(t *testing.T) (*storage.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return storage.NewRedisCache(client), mr
}

func sampleRestaurant() *domain.Restaurant {
	lat, lng := 52.52, 13.405
	return &domain.Restaurant{
		ID:         1,
		OwnerID:    owner.ID,
		Name:       "Trattoria Roma",
		Cuisine:    domain.CuisineItalian,
		Address:    "Main St 1",
		Latitude:   &lat,
		Longitude:  &lng,
		PriceRange: 2,
		Capacity:   20,
		IsActive:   true,
		OpeningHours: domain.OpeningHours{
			"monday":    {Open: "12:00", Close: "22:00"},
			"tuesday":   {Open: "12:00", Close: "22:00"},
			"wednesday": {Open: "12:00", Close: "22:00"},
			"thursday":  {Open: "12:00", Close: "22:00"},
			"friday":    {Open: "12:00", Close: "23:00"},
			"saturday":  {Open: "12:00", Close: "23:00"},
		},
	}
}
