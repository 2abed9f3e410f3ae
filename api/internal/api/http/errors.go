package httpapi

import (
	"context"
	"errors"
	"net/http"

	"tablebooker/api/internal/auth"
	"tablebooker/api/internal/service"
)

// ErrorInfo is what a client sees for a failed request.
type ErrorInfo struct {
	Status  int
	Message string
	Field   string
}

type errorMapping struct {
	target error
	status int
}

// ErrorMapper translates service errors into statuses. Mapped errors keep
// their own message. Anything unmapped becomes a generic 500.
type ErrorMapper struct {
	mappings       []errorMapping
	defaultStatus  int
	defaultMessage string
}

func NewErrorMapper() *ErrorMapper {
	m := &ErrorMapper{
		defaultStatus:  http.StatusInternalServerError,
		defaultMessage: "internal server error",
	}
	m.WithMapping(http.StatusUnauthorized, service.ErrUnauthenticated, auth.ErrMissingToken, auth.ErrInvalidToken)
	m.WithMapping(http.StatusForbidden, service.ErrForbidden, service.ErrOwnerOnly, service.ErrCustomerOnly)
	m.WithMapping(http.StatusNotFound,
		service.ErrRestaurantNotFound,
		service.ErrMenuItemNotFound,
		service.ErrBookingNotFound,
		service.ErrReviewNotFound,
		service.ErrFavoriteNotFound,
	)
	return m
}

func (m *ErrorMapper) WithMapping(status int, targets ...error) *ErrorMapper {
	for _, target := range targets {
		m.mappings = append(m.mappings, errorMapping{target: target, status: status})
	}
	return m
}

func (m *ErrorMapper) Map(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{Status: http.StatusOK}
	}

	var validation *service.ValidationError
	if errors.As(err, &validation) {
		return ErrorInfo{Status: http.StatusBadRequest, Message: validation.Message, Field: validation.Field}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorInfo{Status: http.StatusGatewayTimeout, Message: "request timeout"}
	}
	if errors.Is(err, context.Canceled) {
		return ErrorInfo{Status: http.StatusServiceUnavailable, Message: "request cancelled"}
	}

	for _, mapping := range m.mappings {
		if errors.Is(err, mapping.target) {
			return ErrorInfo{Status: mapping.status, Message: mapping.target.Error()}
		}
	}

	// Conflicts are returned unwrapped, so their text is the client message.
	if service.IsConflict(err) {
		return ErrorInfo{Status: http.StatusConflict, Message: err.Error()}
	}

	return ErrorInfo{Status: m.defaultStatus, Message: m.defaultMessage}
}
