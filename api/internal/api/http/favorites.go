package httpapi

import (
	"net/http"

	"tablebooker/api/internal/auth"
)

type favoriteStatus struct {
	RestaurantID int  `json:"restaurant_id"`
	IsFavorite   bool `json:"is_favorite"`
}

func (h *Handler) listFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.Favorites.List(r.Context(), auth.UserFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, favorites)
}

func (h *Handler) addFavorite(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Favorites.Add(r.Context(), auth.UserFromContext(r.Context()), restaurantID); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, favoriteStatus{RestaurantID: restaurantID, IsFavorite: true})
}

func (h *Handler) removeFavorite(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Favorites.Remove(r.Context(), auth.UserFromContext(r.Context()), restaurantID); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) checkFavorite(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	isFavorite, err := h.Favorites.IsFavorite(r.Context(), auth.UserFromContext(r.Context()), restaurantID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, favoriteStatus{RestaurantID: restaurantID, IsFavorite: isFavorite})
}
