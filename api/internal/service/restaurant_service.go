package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"tablebooker/api/internal/domain"
)

const (
	DefaultNearbyRadiusKm = 5.0
	MaxNearbyRadiusKm     = 50.0
	maxNameLength         = 100
)

type RestaurantService struct {
	repository RestaurantRepository
	cache      Cache
	opts       settings
}

func NewRestaurantService(repository RestaurantRepository, cache Cache, opts ...Option) *RestaurantService {
	return &RestaurantService{
		repository: repository,
		cache:      cacheOrNoop(cache),
		opts:       newSettings(opts),
	}
}

func (s *RestaurantService) Create(ctx context.Context, user domain.User, restaurant *domain.Restaurant) error {
	if err := requireOwner(user); err != nil {
		return err
	}
	if err := validateRestaurant(restaurant); err != nil {
		return err
	}
	restaurant.OwnerID = user.ID
	restaurant.IsActive = true
	if restaurant.OpeningHours == nil {
		restaurant.OpeningHours = domain.OpeningHours{}
	}

	if err := s.repository.CreateRestaurant(ctx, restaurant); err != nil {
		return fmt.Errorf("create restaurant: %w", err)
	}
	s.bumpListVersion(ctx)

	s.opts.logger.WithFields(logrus.Fields{
		"restaurant_id": restaurant.ID,
		"owner_id":      user.ID,
	}).Info("restaurant created")
	return nil
}

func (s *RestaurantService) List(ctx context.Context, filter domain.RestaurantFilter) (*domain.RestaurantPage, error) {
	filter, err := normalizeRestaurantFilter(filter)
	if err != nil {
		return nil, err
	}

	// Without a version the key could outlive an invalidation, so skip the cache.
	version, versionErr := s.cache.Version(ctx, restaurantListVersionKey)
	if versionErr != nil {
		s.opts.logger.WithError(versionErr).Warn("restaurant list version unavailable")
	}
	key := restaurantListKey(version, filter)

	var page domain.RestaurantPage
	if versionErr == nil && s.opts.cached(ctx, s.cache, key, &page) {
		return &page, nil
	}

	restaurants, total, err := s.repository.ListRestaurants(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	if restaurants == nil {
		restaurants = []domain.Restaurant{}
	}
	page = domain.RestaurantPage{
		Restaurants: restaurants,
		Total:       total,
		Page:        filter.Page,
		Limit:       filter.Limit,
	}
	if versionErr == nil {
		s.opts.store(ctx, s.cache, key, page, s.opts.ttl.Restaurant)
	}
	return &page, nil
}

// Get returns an active restaurant. Inactive restaurants are visible to their owner only.
func (s *RestaurantService) Get(ctx context.Context, user domain.User, id int) (*domain.Restaurant, error) {
	var restaurant domain.Restaurant
	if !s.opts.cached(ctx, s.cache, RestaurantKey(id), &restaurant) {
		found, err := s.repository.GetRestaurant(ctx, id)
		if err != nil {
			return nil, restaurantLookupError(err)
		}
		restaurant = *found
		s.opts.store(ctx, s.cache, RestaurantKey(id), restaurant, s.opts.ttl.Restaurant)
	}

	if !restaurant.IsActive && !ownsRestaurant(user, &restaurant) {
		return nil, ErrRestaurantNotFound
	}
	return &restaurant, nil
}

func (s *RestaurantService) Update(ctx context.Context, user domain.User, id int, patch domain.RestaurantPatch) (*domain.Restaurant, error) {
	restaurant, err := ownedRestaurant(ctx, s.repository, user, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(restaurant)
	if err := validateRestaurant(restaurant); err != nil {
		return nil, err
	}

	if err := s.repository.UpdateRestaurant(ctx, restaurant); err != nil {
		return nil, restaurantLookupError(err)
	}
	s.forget(ctx, id)
	return restaurant, nil
}

// Deactivate hides the restaurant from public listings. Bookings and reviews are kept.
func (s *RestaurantService) Deactivate(ctx context.Context, user domain.User, id int) error {
	if _, err := ownedRestaurant(ctx, s.repository, user, id); err != nil {
		return err
	}
	if err := s.repository.DeactivateRestaurant(ctx, id); err != nil {
		return restaurantLookupError(err)
	}
	s.forget(ctx, id)

	s.opts.logger.WithFields(logrus.Fields{
		"restaurant_id": id,
		"owner_id":      user.ID,
	}).Info("restaurant deactivated")
	return nil
}

func (s *RestaurantService) ListMine(ctx context.Context, user domain.User) ([]domain.Restaurant, error) {
	if err := requireOwner(user); err != nil {
		return nil, err
	}
	restaurants, err := s.repository.ListOwnerRestaurants(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list owner restaurants: %w", err)
	}
	if restaurants == nil {
		restaurants = []domain.Restaurant{}
	}
	return restaurants, nil
}

func (s *RestaurantService) UpdateImage(ctx context.Context, user domain.User, id int, imageURL string) error {
	if _, err := ownedRestaurant(ctx, s.repository, user, id); err != nil {
		return err
	}
	if err := s.repository.UpdateRestaurantImage(ctx, id, imageURL); err != nil {
		return restaurantLookupError(err)
	}
	s.forget(ctx, id)
	return nil
}

// Authorize reports whether user may manage the restaurant without changing it.
func (s *RestaurantService) Authorize(ctx context.Context, user domain.User, id int) error {
	_, err := ownedRestaurant(ctx, s.repository, user, id)
	return err
}

// Nearby runs the distance query. When it fails the result falls back to the
// plain listing, marked degraded, with every distance set to -1.
func (s *RestaurantService) Nearby(ctx context.Context, query domain.NearbyQuery) (*domain.NearbyResult, error) {
	query, err := normalizeNearbyQuery(query)
	if err != nil {
		return nil, err
	}

	result := &domain.NearbyResult{Page: query.Page, Limit: query.Limit, RadiusKm: query.RadiusKm}

	restaurants, total, err := s.repository.NearbyRestaurants(ctx, query)
	if err == nil {
		if restaurants == nil {
			restaurants = []domain.NearbyRestaurant{}
		}
		result.Restaurants = restaurants
		result.Total = total
		return result, nil
	}

	s.opts.logger.WithError(err).WithFields(logrus.Fields{
		"lat":       query.Latitude,
		"lng":       query.Longitude,
		"radius_km": query.RadiusKm,
	}).Warn("geospatial query failed, serving degraded listing")

	plain, total, err := s.repository.ListRestaurants(ctx, domain.RestaurantFilter{
		Cuisine:    query.Cuisine,
		PriceRange: query.PriceRange,
		Page:       query.Page,
		Limit:      query.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("nearby fallback listing: %w", err)
	}

	result.Degraded = true
	result.Total = total
	result.Restaurants = make([]domain.NearbyRestaurant, 0, len(plain))
	for _, r := range plain {
		result.Restaurants = append(result.Restaurants, domain.NearbyRestaurant{Restaurant: r, Distance: -1})
	}
	return result, nil
}

func (s *RestaurantService) forget(ctx context.Context, id int) {
	s.opts.invalidate(ctx, s.cache, RestaurantKey(id))
	s.bumpListVersion(ctx)
}

func (s *RestaurantService) bumpListVersion(ctx context.Context) {
	if err := s.cache.BumpVersion(ctx, restaurantListVersionKey); err != nil {
		s.opts.logger.WithError(err).Warn("restaurant list invalidation failed")
	}
}

func requireAuthenticated(user domain.User) error {
	if !user.Authenticated() {
		return ErrUnauthenticated
	}
	return nil
}

func requireOwner(user domain.User) error {
	if err := requireAuthenticated(user); err != nil {
		return err
	}
	if !user.IsOwner() {
		return ErrOwnerOnly
	}
	return nil
}

func requireCustomer(user domain.User) error {
	if err := requireAuthenticated(user); err != nil {
		return err
	}
	if !user.IsCustomer() {
		return ErrCustomerOnly
	}
	return nil
}

func ownsRestaurant(user domain.User, restaurant *domain.Restaurant) bool {
	if !user.Authenticated() {
		return false
	}
	return restaurant.OwnerID == user.ID || user.IsAdmin()
}

// ownedRestaurant loads a restaurant, active or not, that the caller manages.
func ownedRestaurant(ctx context.Context, repository RestaurantRepository, user domain.User, id int) (*domain.Restaurant, error) {
	if err := requireOwner(user); err != nil {
		return nil, err
	}
	restaurant, err := repository.GetRestaurant(ctx, id)
	if err != nil {
		return nil, restaurantLookupError(err)
	}
	if !ownsRestaurant(user, restaurant) {
		return nil, ErrForbidden
	}
	return restaurant, nil
}

// activeRestaurant loads a restaurant that is open to the public.
func activeRestaurant(ctx context.Context, repository RestaurantRepository, id int) (*domain.Restaurant, error) {
	restaurant, err := repository.GetRestaurant(ctx, id)
	if err != nil {
		return nil, restaurantLookupError(err)
	}
	if !restaurant.IsActive {
		return nil, ErrRestaurantNotFound
	}
	return restaurant, nil
}

func restaurantLookupError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return ErrRestaurantNotFound
	}
	return fmt.Errorf("load restaurant: %w", err)
}

func validateRestaurant(r *domain.Restaurant) error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return invalid("name", "name is required")
	}
	if len(r.Name) > maxNameLength {
		return invalid("name", fmt.Sprintf("name must be at most %d characters", maxNameLength))
	}
	cuisine, ok := domain.ParseCuisine(string(r.Cuisine))
	if !ok {
		return invalid("cuisine", "unknown cuisine")
	}
	r.Cuisine = cuisine
	if strings.TrimSpace(r.Address) == "" {
		return invalid("address", "address is required")
	}
	if r.PriceRange < 1 || r.PriceRange > 4 {
		return invalid("price_range", "price range must be between 1 and 4")
	}
	if r.Capacity <= 0 {
		return invalid("capacity", "capacity must be greater than 0")
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		return invalid("latitude", "latitude and longitude must be set together")
	}
	if r.Latitude != nil {
		if err := validateCoordinates(*r.Latitude, *r.Longitude); err != nil {
			return err
		}
	}
	if err := r.OpeningHours.Validate(); err != nil {
		return invalid("opening_hours", err.Error())
	}
	return nil
}

func validateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return invalid("lat", "latitude must be between -90 and 90")
	}
	if math.IsNaN(lng) || lng < -180 || lng > 180 {
		return invalid("lng", "longitude must be between -180 and 180")
	}
	return nil
}

func normalizeRestaurantFilter(filter domain.RestaurantFilter) (domain.RestaurantFilter, error) {
	if filter.Cuisine != "" {
		cuisine, ok := domain.ParseCuisine(filter.Cuisine)
		if !ok {
			return filter, invalid("cuisine", "unknown cuisine")
		}
		filter.Cuisine = string(cuisine)
	}
	if filter.PriceRange < 0 || filter.PriceRange > 4 {
		return filter, invalid("price", "price range must be between 1 and 4")
	}
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	return filter, nil
}

func normalizeNearbyQuery(query domain.NearbyQuery) (domain.NearbyQuery, error) {
	if err := validateCoordinates(query.Latitude, query.Longitude); err != nil {
		return query, err
	}
	if query.RadiusKm == 0 {
		query.RadiusKm = DefaultNearbyRadiusKm
	}
	if math.IsNaN(query.RadiusKm) || query.RadiusKm < 0 || query.RadiusKm > MaxNearbyRadiusKm {
		return query, invalid("radius", fmt.Sprintf("radius must be between 0 and %.0f km", MaxNearbyRadiusKm))
	}
	filter, err := normalizeRestaurantFilter(domain.RestaurantFilter{
		Cuisine:    query.Cuisine,
		PriceRange: query.PriceRange,
		Page:       query.Page,
		Limit:      query.Limit,
	})
	if err != nil {
		return query, err
	}
	query.Cuisine = filter.Cuisine
	query.PriceRange = filter.PriceRange
	query.Page, query.Limit = filter.Page, filter.Limit
	return query, nil
}
