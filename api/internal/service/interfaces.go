package service

import (
	"context"
	"time"

	"tablebooker/api/internal/domain"
	"tablebooker/events"
)

type RestaurantServiceInterface interface {
	Create(ctx context.Context, user domain.User, restaurant *domain.Restaurant) error
	List(ctx context.Context, filter domain.RestaurantFilter) (*domain.RestaurantPage, error)
	Get(ctx context.Context, user domain.User, id int) (*domain.Restaurant, error)
	Update(ctx context.Context, user domain.User, id int, patch domain.RestaurantPatch) (*domain.Restaurant, error)
	Deactivate(ctx context.Context, user domain.User, id int) error
	ListMine(ctx context.Context, user domain.User) ([]domain.Restaurant, error)
	UpdateImage(ctx context.Context, user domain.User, id int, imageURL string) error
	Authorize(ctx context.Context, user domain.User, id int) error
	Nearby(ctx context.Context, query domain.NearbyQuery) (*domain.NearbyResult, error)
}

type MenuServiceInterface interface {
	List(ctx context.Context, restaurantID int) ([]domain.MenuItem, error)
	Get(ctx context.Context, restaurantID, itemID int) (*domain.MenuItem, error)
	Create(ctx context.Context, user domain.User, item *domain.MenuItem) error
	Update(ctx context.Context, user domain.User, restaurantID, itemID int, patch domain.MenuItemPatch) (*domain.MenuItem, error)
	Delete(ctx context.Context, user domain.User, restaurantID, itemID int) error
	UpdateImage(ctx context.Context, user domain.User, restaurantID, itemID int, imageURL string) error
}

type AvailabilityServiceInterface interface {
	Availability(ctx context.Context, restaurantID int, date string) (*domain.Availability, error)
}

type BookingServiceInterface interface {
	Create(ctx context.Context, user domain.User, req domain.BookingRequest) (*domain.Booking, error)
	Cancel(ctx context.Context, user domain.User, id int) (*domain.Booking, error)
	Get(ctx context.Context, user domain.User, id int) (*domain.Booking, error)
	ListMine(ctx context.Context, user domain.User, status domain.BookingStatus) ([]domain.Booking, error)
	ListForRestaurant(ctx context.Context, user domain.User, restaurantID int, filter domain.BookingFilter) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, user domain.User, id int, status domain.BookingStatus) (*domain.Booking, error)
	QRCode(ctx context.Context, user domain.User, id int) ([]byte, error)
}

type ReviewServiceInterface interface {
	Create(ctx context.Context, user domain.User, review *domain.Review) error
	Get(ctx context.Context, id int) (*domain.Review, error)
	Update(ctx context.Context, user domain.User, id, rating int, comment string) (*domain.Review, error)
	Delete(ctx context.Context, user domain.User, id int) error
	Reply(ctx context.Context, user domain.User, id int, reply string) (*domain.Review, error)
	ListForRestaurant(ctx context.Context, restaurantID, page, limit int) (*domain.ReviewPage, error)
	ListMine(ctx context.Context, user domain.User) ([]domain.Review, error)
}

type FavoriteServiceInterface interface {
	Add(ctx context.Context, user domain.User, restaurantID int) error
	Remove(ctx context.Context, user domain.User, restaurantID int) error
	List(ctx context.Context, user domain.User) ([]domain.FavoriteRestaurant, error)
	IsFavorite(ctx context.Context, user domain.User, restaurantID int) (bool, error)
}

type StatsServiceInterface interface {
	RestaurantStats(ctx context.Context, user domain.User, restaurantID int) (*domain.RestaurantStats, error)
	TopRated(ctx context.Context, limit int) ([]domain.RestaurantScore, error)
	PopularToday(ctx context.Context, limit int) ([]domain.RestaurantScore, error)
}

type RestaurantRepository interface {
	CreateRestaurant(ctx context.Context, restaurant *domain.Restaurant) error
	ListRestaurants(ctx context.Context, filter domain.RestaurantFilter) ([]domain.Restaurant, int, error)
	GetRestaurant(ctx context.Context, id int) (*domain.Restaurant, error)
	UpdateRestaurant(ctx context.Context, restaurant *domain.Restaurant) error
	DeactivateRestaurant(ctx context.Context, id int) error
	ListOwnerRestaurants(ctx context.Context, ownerID string) ([]domain.Restaurant, error)
	UpdateRestaurantImage(ctx context.Context, id int, imageURL string) error
	NearbyRestaurants(ctx context.Context, query domain.NearbyQuery) ([]domain.NearbyRestaurant, int, error)
	RestaurantsByIDs(ctx context.Context, ids []int) ([]domain.Restaurant, error)
}

type MenuRepository interface {
	ListMenuItems(ctx context.Context, restaurantID int) ([]domain.MenuItem, error)
	GetMenuItem(ctx context.Context, restaurantID, itemID int) (*domain.MenuItem, error)
	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
	UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error
	DeleteMenuItem(ctx context.Context, restaurantID, itemID int) (int64, error)
	UpdateMenuItemImage(ctx context.Context, restaurantID, itemID int, imageURL string) error
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, booking *domain.Booking, admit domain.AdmitFunc) error
	GetBooking(ctx context.Context, id int) (*domain.Booking, error)
	ListCustomerBookings(ctx context.Context, customerID string) ([]domain.Booking, error)
	ListRestaurantBookings(ctx context.Context, restaurantID int, filter domain.BookingFilter) ([]domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int, from, to domain.BookingStatus) error
	SlotCounts(ctx context.Context, restaurantID int, date string) ([]domain.SlotCount, error)
}

type ReviewRepository interface {
	CreateReview(ctx context.Context, review *domain.Review) error
	GetReview(ctx context.Context, id int) (*domain.Review, error)
	UpdateReview(ctx context.Context, review *domain.Review) error
	DeleteReview(ctx context.Context, id int) error
	ReplyToReview(ctx context.Context, id int, reply string, at time.Time) error
	ListRestaurantReviews(ctx context.Context, restaurantID, limit, offset int) ([]domain.Review, error)
	ListCustomerReviews(ctx context.Context, customerID string) ([]domain.Review, error)
	RatingCounts(ctx context.Context, restaurantID int) ([]domain.RatingCount, error)
}

type FavoriteRepository interface {
	AddFavorite(ctx context.Context, userID string, restaurantID int) error
	RemoveFavorite(ctx context.Context, userID string, restaurantID int) (int64, error)
	ListFavorites(ctx context.Context, userID string) ([]domain.FavoriteRestaurant, error)
	IsFavorite(ctx context.Context, userID string, restaurantID int) (bool, error)
}

type StatsRepository interface {
	BookingStatusCounts(ctx context.Context, restaurantID int) ([]domain.StatusCount, error)
	UpcomingBookings(ctx context.Context, restaurantID int, today string) (int, error)
	FavoriteCount(ctx context.Context, restaurantID int) (int, error)
	TopRatedRestaurants(ctx context.Context, limit int) ([]domain.RestaurantScore, error)
	PopularRestaurants(ctx context.Context, date string, limit int) ([]domain.RestaurantScore, error)
}

type Cache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Version(ctx context.Context, key string) (int64, error)
	BumpVersion(ctx context.Context, key string) error
}

type Leaderboard interface {
	TopMembers(ctx context.Context, key string, limit int) ([]domain.ScoredMember, error)
}

type EventPublisher interface {
	PublishBooking(ctx context.Context, msg events.BookingMessage) error
	PublishReview(ctx context.Context, msg events.ReviewMessage) error
}

var (
	_ RestaurantServiceInterface   = (*RestaurantService)(nil)
	_ MenuServiceInterface         = (*MenuService)(nil)
	_ AvailabilityServiceInterface = (*AvailabilityService)(nil)
	_ BookingServiceInterface      = (*BookingService)(nil)
	_ ReviewServiceInterface       = (*ReviewService)(nil)
	_ FavoriteServiceInterface     = (*FavoriteService)(nil)
	_ StatsServiceInterface        = (*StatsService)(nil)
)
