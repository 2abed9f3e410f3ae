package httpapi

import (
	"net/http"

	"tablebooker/api/internal/auth"
	"tablebooker/api/internal/domain"
)

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	items, err := h.Menu.List(r.Context(), restaurantID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var item domain.MenuItem
	if !h.decode(w, r, &item) {
		return
	}
	item.RestaurantID = restaurantID
	if err := h.Menu.Create(r.Context(), auth.UserFromContext(r.Context()), &item); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathID(w, r, "itemId")
	if !ok {
		return
	}
	item, err := h.Menu.Get(r.Context(), restaurantID, itemID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathID(w, r, "itemId")
	if !ok {
		return
	}
	var patch domain.MenuItemPatch
	if !h.decode(w, r, &patch) {
		return
	}
	item, err := h.Menu.Update(r.Context(), auth.UserFromContext(r.Context()), restaurantID, itemID, patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathID(w, r, "itemId")
	if !ok {
		return
	}
	if err := h.Menu.Delete(r.Context(), auth.UserFromContext(r.Context()), restaurantID, itemID); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) uploadMenuItemImage(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathID(w, r, "itemId")
	if !ok {
		return
	}
	user := auth.UserFromContext(r.Context())
	h.upload(w, r, imageName("menu", restaurantID, itemID), func() error {
		return h.Restaurants.Authorize(r.Context(), user, restaurantID)
	}, func(imageURL string) error {
		return h.Menu.UpdateImage(r.Context(), user, restaurantID, itemID, imageURL)
	})
}
