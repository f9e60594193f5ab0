// Package response centralizes HTTP response shapes and helpers.
// Handlers rely on it to keep controllers thin and uniform.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/settings-service/internal/repository"
	"github.com/maxviazov/settings-service/internal/service"
)

// ErrorPayload is the canonical error envelope returned by the API.
// Storage and corrupt-data details never appear here; they are logged server-side.
type ErrorPayload struct {
	Error       string               `json:"error"`
	Status      int                  `json:"status"`
	Message     string               `json:"message,omitempty"`
	FieldErrors []service.FieldError `json:"field_errors,omitempty"`
}

// MapError converts a domain / infrastructure error into an HTTP status and payload.
// Extend here as new domain error categories emerge.
func MapError(err error) (int, ErrorPayload) {
	if err == nil {
		return http.StatusOK, ErrorPayload{Error: "ok", Status: http.StatusOK}
	}

	if errors.Is(err, service.ErrInvalidInput) {
		return http.StatusBadRequest, ErrorPayload{
			Error:       "invalid_input",
			Status:      http.StatusBadRequest,
			Message:     "one or more fields are invalid",
			FieldErrors: service.FieldErrors(err),
		}
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, ErrorPayload{Error: "not_found", Status: http.StatusNotFound, Message: "resource not found"}
	case errors.Is(err, repository.ErrCorruptData):
		return http.StatusInternalServerError, ErrorPayload{Error: "internal_error", Status: http.StatusInternalServerError}
	case errors.Is(err, repository.ErrStorage):
		return http.StatusInternalServerError, ErrorPayload{Error: "storage_error", Status: http.StatusInternalServerError}
	default:
		return http.StatusInternalServerError, ErrorPayload{Error: "internal_error", Status: http.StatusInternalServerError}
	}
}

// WriteError writes an error response and aborts the context.
func WriteError(c *gin.Context, err error) {
	status, payload := MapError(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, payload)
}

// WriteData writes a successful JSON response.
func WriteData(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

// WriteRawJSON writes an already encoded JSON document without re-encoding it.
func WriteRawJSON(c *gin.Context, status int, body []byte) {
	c.Data(status, "application/json; charset=utf-8", body)
}
