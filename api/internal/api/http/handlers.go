package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"tablebooker/api/internal/auth"
	"tablebooker/api/internal/service"
)

const serviceName = "api"

type Services struct {
	Restaurants  service.RestaurantServiceInterface
	Menu         service.MenuServiceInterface
	Availability service.AvailabilityServiceInterface
	Bookings     service.BookingServiceInterface
	Reviews      service.ReviewServiceInterface
	Favorites    service.FavoriteServiceInterface
	Stats        service.StatsServiceInterface
}

type Handler struct {
	Services

	tokens    auth.TokenValidator
	errors    *ErrorMapper
	logger    logrus.FieldLogger
	metrics   *Metrics
	uploadDir string
	now       func() time.Time
}

type Option func(*Handler)

func WithLogger(logger logrus.FieldLogger) Option {
	return func(h *Handler) { h.logger = logger }
}

func WithMetrics(metrics *Metrics) Option {
	return func(h *Handler) { h.metrics = metrics }
}

func WithUploadDir(dir string) Option {
	return func(h *Handler) { h.uploadDir = dir }
}

func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

func NewHandler(services Services, tokens auth.TokenValidator, opts ...Option) *Handler {
	h := &Handler{
		Services:  services,
		tokens:    tokens,
		errors:    NewErrorMapper(),
		logger:    logrus.StandardLogger(),
		uploadDir: "./uploads",
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.Use(h.observe)

	r.HandleFunc("/health", h.healthCheck).Methods(http.MethodGet)
	if h.metrics != nil {
		r.Handle("/metrics", h.metrics.Handler()).Methods(http.MethodGet)
	}
	r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", uploadServer(h.uploadDir)))

	api := r.PathPrefix("/api").Subrouter()
	api.Use(h.authenticate)

	api.HandleFunc("/auth/me", h.requireAuth(h.me)).Methods(http.MethodGet)

	// Literal segments are registered ahead of the numeric id routes.
	api.HandleFunc("/restaurants", h.listRestaurants).Methods(http.MethodGet)
	api.HandleFunc("/restaurants", h.createRestaurant).Methods(http.MethodPost)
	api.HandleFunc("/restaurants/nearby", h.nearbyRestaurants).Methods(http.MethodGet)
	api.HandleFunc("/restaurants/mine", h.myRestaurants).Methods(http.MethodGet)
	api.HandleFunc("/restaurants/{id:[0-9]+}", h.getRestaurant).Methods(http.MethodGet)
	api.HandleFunc("/restaurants/{id:[0-9]+}", h.updateRestaurant).Methods(http.MethodPut)
	api.HandleFunc("/restaurants/{id:[0-9]+}", h.deleteRestaurant).Methods(http.MethodDelete)
	api.HandleFunc("/restaurants/{id:[0-9]+}/image", h.requireAuth(h.uploadRestaurantImage)).Methods(http.MethodPost)
	api.HandleFunc("/restaurants/{id:[0-9]+}/availability", h.restaurantAvailability).Methods(http.MethodGet)
	api.HandleFunc("/restaurants/{id:[0-9]+}/stats", h.restaurantStats).Methods(http.MethodGet)
	api.HandleFunc("/restaurants/{id:[0-9]+}/bookings", h.restaurantBookings).Methods(http.MethodGet)

	api.HandleFunc("/restaurants/{id:[0-9]+}/menu", h.listMenu).Methods(http.MethodGet)
	api.HandleFunc("/restaurants/{id:[0-9]+}/menu", h.createMenuItem).Methods(http.MethodPost)
	api.HandleFunc("/restaurants/{id:[0-9]+}/menu/{itemId:[0-9]+}", h.getMenuItem).Methods(http.MethodGet)
	api.HandleFunc("/restaurants/{id:[0-9]+}/menu/{itemId:[0-9]+}", h.updateMenuItem).Methods(http.MethodPut)
	api.HandleFunc("/restaurants/{id:[0-9]+}/menu/{itemId:[0-9]+}", h.deleteMenuItem).Methods(http.MethodDelete)
	api.HandleFunc("/restaurants/{id:[0-9]+}/menu/{itemId:[0-9]+}/image", h.requireAuth(h.uploadMenuItemImage)).Methods(http.MethodPost)

	api.HandleFunc("/restaurants/{id:[0-9]+}/reviews", h.restaurantReviews).Methods(http.MethodGet)
	api.HandleFunc("/restaurants/{id:[0-9]+}/reviews", h.createReview).Methods(http.MethodPost)

	api.HandleFunc("/bookings", h.createBooking).Methods(http.MethodPost)
	api.HandleFunc("/bookings/mine", h.myBookings).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id:[0-9]+}", h.getBooking).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id:[0-9]+}/cancel", h.cancelBooking).Methods(http.MethodPut)
	api.HandleFunc("/bookings/{id:[0-9]+}/status", h.updateBookingStatus).Methods(http.MethodPut)
	api.HandleFunc("/bookings/{id:[0-9]+}/qrcode", h.bookingQRCode).Methods(http.MethodGet)

	api.HandleFunc("/reviews/mine", h.myReviews).Methods(http.MethodGet)
	api.HandleFunc("/reviews/{id:[0-9]+}", h.getReview).Methods(http.MethodGet)
	api.HandleFunc("/reviews/{id:[0-9]+}", h.updateReview).Methods(http.MethodPut)
	api.HandleFunc("/reviews/{id:[0-9]+}", h.deleteReview).Methods(http.MethodDelete)
	api.HandleFunc("/reviews/{id:[0-9]+}/reply", h.replyToReview).Methods(http.MethodPut)

	api.HandleFunc("/favorites", h.listFavorites).Methods(http.MethodGet)
	api.HandleFunc("/favorites/{id:[0-9]+}", h.addFavorite).Methods(http.MethodPost)
	api.HandleFunc("/favorites/{id:[0-9]+}", h.removeFavorite).Methods(http.MethodDelete)
	api.HandleFunc("/favorites/{id:[0-9]+}/check", h.checkFavorite).Methods(http.MethodGet)

	api.HandleFunc("/analytics/top-rated", h.topRated).Methods(http.MethodGet)
	api.HandleFunc("/analytics/popular-today", h.popularToday).Methods(http.MethodGet)
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   serviceName,
		"timestamp": h.now().Format(time.RFC3339),
	})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, auth.UserFromContext(r.Context()))
}
