package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"tablebooker/api/internal/service"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// fail writes the mapped error. Server-side failures log the cause, which the
// client never sees.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	info := h.errors.Map(err)
	if info.Status >= http.StatusInternalServerError {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": requestID(r.Context()),
		}).Error("request failed")
	}
	writeJSON(w, info.Status, errorBody{Error: info.Message, Field: info.Field})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, field, message string) {
	h.fail(w, r, &service.ValidationError{Field: field, Message: message})
}

// decode reads a JSON body. Unknown fields are tolerated.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		message := "invalid JSON body"
		if errors.Is(err, io.EOF) {
			message = "request body is required"
		}
		h.badRequest(w, r, "body", message)
		return false
	}
	return true
}

// pathID parses a numeric route variable. Routes constrain the pattern, so
// failures only come from overflow.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		h.badRequest(w, r, name, "must be a positive integer")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &service.ValidationError{Field: name, Message: "must be an integer"}
	}
	return v, nil
}

func queryFloat(r *http.Request, name string, required bool) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		if required {
			return 0, &service.ValidationError{Field: name, Message: "is required"}
		}
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &service.ValidationError{Field: name, Message: "must be a number"}
	}
	return v, nil
}
