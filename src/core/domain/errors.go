// Package domain contains domain entities, value objects, and domain-specific errors.
// This package should have no external dependencies except the standard library.
package domain

import (
	"errors"
	"fmt"
)

// Domain error types for consistent error handling across the application.
// Every failure the bridge reports to a client maps onto one of these bases.

var (
	// ErrConfiguration is returned when the connection configuration is
	// missing or contains an unsubstituted template placeholder. Fatal to
	// data operations, never to process startup.
	ErrConfiguration = errors.New("configuration error")

	// ErrConnection is returned when the database is unreachable: no pool
	// constructed yet, DNS failure, network unreachable, or timeout.
	ErrConnection = errors.New("connection error")

	// ErrInvalidInput is returned when a write payload fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrQuery wraps anything the storage engine reports for an otherwise
	// well-formed request.
	ErrQuery = errors.New("query error")
)

// DomainError wraps a base error with additional context.
// It provides a standard way to add details to domain errors.
type DomainError struct {
	// Base is the underlying error type (e.g., ErrConnection)
	Base error

	// Message provides human-readable context
	Message string

	// Field indicates which field caused the error (for validation errors)
	Field string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Base.Error(), e.Message, e.Field)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Base.Error(), e.Message)
	}
	return e.Base.Error()
}

// Unwrap returns the base error for errors.Is/As support.
func (e *DomainError) Unwrap() error {
	return e.Base
}

// NewConfigurationError creates a configuration error with context.
func NewConfigurationError(message string) *DomainError {
	return &DomainError{
		Base:    ErrConfiguration,
		Message: message,
	}
}

// NewConnectionError creates a connection error with context.
func NewConnectionError(message string) *DomainError {
	return &DomainError{
		Base:    ErrConnection,
		Message: message,
	}
}

// NewValidationError creates a validation error for a specific field.
func NewValidationError(field, message string) *DomainError {
	return &DomainError{
		Base:    ErrInvalidInput,
		Message: message,
		Field:   field,
	}
}

// NewQueryError wraps a storage engine error, preserving its message.
func NewQueryError(err error) *DomainError {
	return &DomainError{
		Base:    ErrQuery,
		Message: err.Error(),
	}
}

// IsConfiguration checks if an error is a configuration error.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsConnection checks if an error is a connection error.
func IsConnection(err error) bool {
	return errors.Is(err, ErrConnection)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsQuery checks if an error is a query error.
func IsQuery(err error) bool {
	return errors.Is(err, ErrQuery)
}
