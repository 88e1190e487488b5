package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType defines the category of the error
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "VALIDATION_ERROR"
	ErrorTypeProvider   ErrorType = "PROVIDER_ERROR"
	ErrorTypeParse      ErrorType = "PARSE_ERROR"
	ErrorTypeGeneration ErrorType = "GENERATION_ERROR"
	ErrorTypeRateLimit  ErrorType = "RATE_LIMIT_ERROR"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND_ERROR"
	ErrorTypeForbidden  ErrorType = "FORBIDDEN_ERROR"
	ErrorTypeInternal   ErrorType = "INTERNAL_ERROR"
)

// AppError represents a structured error for the application
type AppError struct {
	Type          ErrorType         `json:"type"`
	Message       string            `json:"message"`
	StatusCode    int               `json:"statusCode"`
	ErrorCode     string            `json:"errorCode"`
	IsOperational bool              `json:"isOperational"`
	Recovery      string            `json:"recoverySuggestion,omitempty"`
	Fields        map[string]string `json:"fields,omitempty"`
	Err           error             `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Code returns the application-specific error code
func (e *AppError) Code() string {
	return e.ErrorCode
}

// RecoverySuggestion returns the suggestion on how to recover from the error
func (e *AppError) RecoverySuggestion() string {
	return e.Recovery
}

// WithFields attaches per-field validation messages.
func (e *AppError) WithFields(fields map[string]string) *AppError {
	e.Fields = fields
	return e
}

// IsType reports whether err wraps an AppError of type t.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// As is a shorthand for errors.As with an *AppError target.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

// NewValidationError creates a new validation error (400)
func NewValidationError(message string, errorCode string, suggestion string) *AppError {
	return &AppError{
		Type:          ErrorTypeValidation,
		Message:       message,
		StatusCode:    http.StatusBadRequest,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      suggestion,
	}
}

// NewNotFoundError creates a new not found error (404)
func NewNotFoundError(message string, errorCode string, suggestion string) *AppError {
	return &AppError{
		Type:          ErrorTypeNotFound,
		Message:       message,
		StatusCode:    http.StatusNotFound,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      suggestion,
	}
}

// NewForbiddenError creates a new ownership error (403)
func NewForbiddenError(message string, errorCode string) *AppError {
	return &AppError{
		Type:          ErrorTypeForbidden,
		Message:       message,
		StatusCode:    http.StatusForbidden,
		ErrorCode:     errorCode,
		IsOperational: true,
	}
}

// NewRateLimitError creates a new rate limit error (429)
func NewRateLimitError(message string, errorCode string, suggestion string) *AppError {
	return &AppError{
		Type:          ErrorTypeRateLimit,
		Message:       message,
		StatusCode:    http.StatusTooManyRequests,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      suggestion,
	}
}

// NewProviderError wraps a transport or API failure from an AI provider (502)
func NewProviderError(message string, errorCode string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeProvider,
		Message:       message,
		StatusCode:    http.StatusBadGateway,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      "Check the provider credentials or wait for the provider to become available.",
		Err:           err,
	}
}

// NewParseError signals that provider output held no extractable recipe document (502)
func NewParseError(message string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeParse,
		Message:       message,
		StatusCode:    http.StatusBadGateway,
		ErrorCode:     "PARSE_FAILED",
		IsOperational: true,
		Err:           err,
	}
}

// NewGenerationError creates a new recipe generation error (500)
func NewGenerationError(message string, errorCode string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeGeneration,
		Message:       message,
		StatusCode:    http.StatusInternalServerError,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      "Try adjusting the prompt or wait for the service to be available.",
		Err:           err,
	}
}

// NewInternalError wraps an unexpected failure (500)
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeInternal,
		Message:       message,
		StatusCode:    http.StatusInternalServerError,
		ErrorCode:     "INTERNAL",
		IsOperational: false,
		Err:           err,
	}
}
