// Package apperror defines the error taxonomy shared by the services and
// the HTTP layer. Services return *AppError values; controllers render them
// with the mapped status code and an {"error": ...} body.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorType int

const (
	UnknownError ErrorType = iota
	ValidationError
	DuplicateError
	NotFoundError
	StoreUnavailableError
	RateLimitError
)

type AppError struct {
	Type    ErrorType
	Message string
	Err     error // Underlying error, never shown to clients
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error type to an HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case ValidationError, DuplicateError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case RateLimitError:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func New(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlyingError,
	}
}

func NewValidationError(message string, underlyingError error) *AppError {
	return New(ValidationError, message, underlyingError)
}

func NewDuplicateError(message string, underlyingError error) *AppError {
	return New(DuplicateError, message, underlyingError)
}

func NewNotFoundError(message string, underlyingError error) *AppError {
	return New(NotFoundError, message, underlyingError)
}

func NewStoreUnavailableError(message string, underlyingError error) *AppError {
	return New(StoreUnavailableError, message, underlyingError)
}

func NewRateLimitError(message string) *AppError {
	return New(RateLimitError, message, nil)
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message}
}

// FromError returns err as an *AppError, wrapping anything unrecognised
// as an internal store failure so that callers always get a renderable value.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return New(UnknownError, "Internal Server Error", err)
}

func IsNotFound(err error) bool {
	return is(err, NotFoundError)
}

func IsDuplicate(err error) bool {
	return is(err, DuplicateError)
}

func IsValidation(err error) bool {
	return is(err, ValidationError)
}

func IsStoreUnavailable(err error) bool {
	return is(err, StoreUnavailableError)
}

func is(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}
