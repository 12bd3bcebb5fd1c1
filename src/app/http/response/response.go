// Package response defines consistent HTTP response structures.
// Every failure returns a JSON body with a machine-readable error kind and
// a human-readable message.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lexbridge/src/core/domain"
)

// Error kinds on the wire, one per domain error base.
const (
	KindConfiguration = "configuration_error"
	KindConnection    = "connection_error"
	KindValidation    = "validation_error"
	KindQuery         = "query_error"
	KindInternal      = "internal_error"
)

// Error is the error response body.
type Error struct {
	// Kind is the machine-readable error kind (e.g., "validation_error")
	Kind string `json:"error"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// RequestID is the request ID for debugging
	RequestID string `json:"request_id,omitempty"`
}

// BadRequest sends a 400 response.
func BadRequest(c *gin.Context, message, requestID string) {
	c.JSON(http.StatusBadRequest, Error{
		Kind:      KindValidation,
		Message:   message,
		RequestID: requestID,
	})
}

// Unavailable sends a 503 response for connection and configuration failures.
func Unavailable(c *gin.Context, kind, message, requestID string) {
	c.JSON(http.StatusServiceUnavailable, Error{
		Kind:      kind,
		Message:   message,
		RequestID: requestID,
	})
}

// InternalError sends a 500 response.
func InternalError(c *gin.Context, kind, message, requestID string) {
	c.JSON(http.StatusInternalServerError, Error{
		Kind:      kind,
		Message:   message,
		RequestID: requestID,
	})
}

// FromDomainError converts a domain error to an appropriate HTTP response.
// This centralizes error handling and ensures consistent error responses:
// validation is the caller's fault (4xx), configuration and connection
// failures mean storage is unavailable (503), and query errors surface the
// engine's message (5xx).
func FromDomainError(c *gin.Context, err error, requestID string) {
	switch {
	case domain.IsValidationError(err):
		BadRequest(c, err.Error(), requestID)
	case domain.IsConfiguration(err):
		Unavailable(c, KindConfiguration, err.Error(), requestID)
	case domain.IsConnection(err):
		Unavailable(c, KindConnection, err.Error(), requestID)
	case domain.IsQuery(err):
		InternalError(c, KindQuery, err.Error(), requestID)
	default:
		InternalError(c, KindInternal, "An unexpected error occurred", requestID)
	}
}
