package httpapi

import (
	"net/http"
	"strings"

	"tablebooker/api/internal/auth"
	"tablebooker/api/internal/domain"
)

func (h *Handler) listRestaurants(w http.ResponseWriter, r *http.Request) {
	filter := domain.RestaurantFilter{
		Cuisine: r.URL.Query().Get("cuisine"),
		Search:  r.URL.Query().Get("search"),
	}
	var err error
	if filter.PriceRange, err = queryInt(r, "price"); err != nil {
		h.fail(w, r, err)
		return
	}
	if filter.Page, filter.Limit, err = pageParams(r); err != nil {
		h.fail(w, r, err)
		return
	}

	page, err := h.Restaurants.List(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) nearbyRestaurants(w http.ResponseWriter, r *http.Request) {
	query := domain.NearbyQuery{Cuisine: r.URL.Query().Get("cuisine")}
	var err error
	if query.Latitude, err = queryFloat(r, "lat", true); err != nil {
		h.fail(w, r, err)
		return
	}
	if query.Longitude, err = queryFloat(r, "lng", true); err != nil {
		h.fail(w, r, err)
		return
	}
	if query.RadiusKm, err = queryFloat(r, "radius", false); err != nil {
		h.fail(w, r, err)
		return
	}
	if query.PriceRange, err = queryInt(r, "price"); err != nil {
		h.fail(w, r, err)
		return
	}
	if query.Page, query.Limit, err = pageParams(r); err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.Restaurants.Nearby(r.Context(), query)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) myRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.Restaurants.ListMine(r.Context(), auth.UserFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurants)
}

func (h *Handler) createRestaurant(w http.ResponseWriter, r *http.Request) {
	var rest domain.Restaurant
	if !h.decode(w, r, &rest) {
		return
	}
	if err := h.Restaurants.Create(r.Context(), auth.UserFromContext(r.Context()), &rest); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rest)
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	rest, err := h.Restaurants.Get(r.Context(), auth.UserFromContext(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *Handler) updateRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var patch domain.RestaurantPatch
	if !h.decode(w, r, &patch) {
		return
	}
	rest, err := h.Restaurants.Update(r.Context(), auth.UserFromContext(r.Context()), id, patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *Handler) deleteRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Restaurants.Deactivate(r.Context(), auth.UserFromContext(r.Context()), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) uploadRestaurantImage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	user := auth.UserFromContext(r.Context())
	h.upload(w, r, imageName("restaurant", id), func() error {
		return h.Restaurants.Authorize(r.Context(), user, id)
	}, func(imageURL string) error {
		return h.Restaurants.UpdateImage(r.Context(), user, id, imageURL)
	})
}

func (h *Handler) restaurantAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		h.badRequest(w, r, "date", "date is required")
		return
	}
	availability, err := h.Availability.Availability(r.Context(), id, date)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, availability)
}

func (h *Handler) restaurantStats(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	stats, err := h.Stats.RestaurantStats(r.Context(), auth.UserFromContext(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) restaurantBookings(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	filter := domain.BookingFilter{
		Date:   r.URL.Query().Get("date"),
		Status: domain.BookingStatus(r.URL.Query().Get("status")),
	}
	bookings, err := h.Bookings.ListForRestaurant(r.Context(), auth.UserFromContext(r.Context()), id, filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func pageParams(r *http.Request) (page, limit int, err error) {
	if page, err = queryInt(r, "page"); err != nil {
		return 0, 0, err
	}
	if limit, err = queryInt(r, "limit"); err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}
