package analyses

import (
	"errors"
	"net/http"

	"github.com/lumenlabs/lumen/consensus"
	"github.com/lumenlabs/lumen/internal/classifier"
)

// Domain errors for analysis operations.
var (
	ErrNotFound     = errors.New("analysis not found")
	ErrDuplicate    = errors.New("analysis already exists")
	ErrFileTooLarge = errors.New("image exceeds maximum upload size")
	ErrInvalidImage = errors.New("invalid image")
)

// MapHTTPStatus maps analysis domain and pipeline errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrInvalidImage) {
		return http.StatusBadRequest
	}
	if errors.Is(err, classifier.ErrUnavailable) ||
		errors.Is(err, classifier.ErrBadResponse) ||
		errors.Is(err, consensus.ErrInvalidInput) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
