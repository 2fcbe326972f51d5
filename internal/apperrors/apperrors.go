package apperrors

import (
	"errors"
	"net/http"
)

// Sentinel errors returned by the booking core. Handlers translate them to
// HTTP statuses with StatusCode; services wrap them with %w for context.
var (
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("not authorized")
	ErrMalformedRange = errors.New("start time must be before end time")
	ErrOutOfBounds    = errors.New("ride range not contained in rental range")
	ErrConflict       = errors.New("overlapping reservation")
	ErrNoSeats        = errors.New("no seats available")
	ErrTimeConflict   = errors.New("passenger already joined an overlapping ride")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidInput       = errors.New("invalid input")
)

// StatusCode maps a core error to the HTTP status the transport layer should
// answer with. Unknown errors are internal.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrConflict), errors.Is(err, ErrNoSeats),
		errors.Is(err, ErrTimeConflict), errors.Is(err, ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, ErrMalformedRange), errors.Is(err, ErrOutOfBounds),
		errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
