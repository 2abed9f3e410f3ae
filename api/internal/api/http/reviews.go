package httpapi

import (
	"net/http"

	"tablebooker/api/internal/auth"
	"tablebooker/api/internal/domain"
)

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type replyRequest struct {
	Reply string `json:"reply"`
}

func (h *Handler) restaurantReviews(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	page, limit, err := pageParams(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	reviews, err := h.Reviews.ListForRestaurant(r.Context(), restaurantID, page, limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req reviewRequest
	if !h.decode(w, r, &req) {
		return
	}
	review := domain.Review{RestaurantID: restaurantID, Rating: req.Rating, Comment: req.Comment}
	if err := h.Reviews.Create(r.Context(), auth.UserFromContext(r.Context()), &review); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *Handler) myReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.Reviews.ListMine(r.Context(), auth.UserFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *Handler) getReview(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	review, err := h.Reviews.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (h *Handler) updateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req reviewRequest
	if !h.decode(w, r, &req) {
		return
	}
	review, err := h.Reviews.Update(r.Context(), auth.UserFromContext(r.Context()), id, req.Rating, req.Comment)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (h *Handler) deleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Reviews.Delete(r.Context(), auth.UserFromContext(r.Context()), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) replyToReview(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req replyRequest
	if !h.decode(w, r, &req) {
		return
	}
	review, err := h.Reviews.Reply(r.Context(), auth.UserFromContext(r.Context()), id, req.Reply)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}
