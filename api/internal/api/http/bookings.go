package httpapi

import (
	"net/http"
	"strconv"

	"tablebooker/api/internal/auth"
	"tablebooker/api/internal/domain"
)

type statusRequest struct {
	Status domain.BookingStatus `json:"status"`
}

func (h *Handler) createBooking(w http.ResponseWriter, r *http.Request) {
	var req domain.BookingRequest
	if !h.decode(w, r, &req) {
		return
	}
	booking, err := h.Bookings.Create(r.Context(), auth.UserFromContext(r.Context()), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *Handler) myBookings(w http.ResponseWriter, r *http.Request) {
	status := domain.BookingStatus(r.URL.Query().Get("status"))
	bookings, err := h.Bookings.ListMine(r.Context(), auth.UserFromContext(r.Context()), status)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *Handler) getBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	booking, err := h.Bookings.Get(r.Context(), auth.UserFromContext(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *Handler) cancelBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	booking, err := h.Bookings.Cancel(r.Context(), auth.UserFromContext(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *Handler) updateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !h.decode(w, r, &req) {
		return
	}
	booking, err := h.Bookings.UpdateStatus(r.Context(), auth.UserFromContext(r.Context()), id, req.Status)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *Handler) bookingQRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	png, err := h.Bookings.QRCode(r.Context(), auth.UserFromContext(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(png)
}
