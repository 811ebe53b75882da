package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eun2ce/uha-backend/internal/cafe"
	"github.com/eun2ce/uha-backend/internal/llm"
	"github.com/eun2ce/uha-backend/internal/stream"
	"github.com/eun2ce/uha-backend/internal/youtube"
)

// Error represents an API error
type Error struct {
	Code    int
	Message string
}

// NewError creates a new API error
func NewError(code int, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Code, e.Message)
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}

	var upstream *youtube.APIError
	switch {
	case errors.Is(err, stream.ErrFeedNotFound), errors.Is(err, youtube.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, llm.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, llm.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, cafe.ErrUnavailable), errors.As(err, &upstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a JSON error body with the mapped status
func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
