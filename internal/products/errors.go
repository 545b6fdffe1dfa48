package products

import (
	"errors"
	"net/http"
)

// Domain errors for product operations.
var (
	ErrNotFound         = errors.New("product not found")
	ErrDuplicate        = errors.New("product already exists")
	ErrInvalidCondition = errors.New("invalid condition")
)

// MapHTTPStatus maps product domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidCondition) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
