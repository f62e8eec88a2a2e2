package domain

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned before any network call when credentials are missing.
var ErrNotConfigured = errors.New("completion backend is not configured")

// ErrNotFound is returned by repositories for unknown identifiers.
var ErrNotFound = errors.New("not found")

// BackendError carries the human-readable message returned by a completion backend.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("backend error %d: %s", e.Status, e.Message)
	}
	return "backend error: " + e.Message
}

// Result is the uniform success/failure envelope returned by every use case.
type Result[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

// OK wraps a successful payload.
func OK[T any](message string, data T) Result[T] {
	return Result[T]{Success: true, Message: message, Data: data}
}

// Fail builds a failure result with a user-facing message.
func Fail[T any](message string) Result[T] {
	return Result[T]{Message: message}
}

// FailErr builds a failure result from err, surfacing backend messages verbatim.
func FailErr[T any](err error) Result[T] {
	if errors.Is(err, ErrNotConfigured) {
		return Fail[T]("API key not configured")
	}
	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return Fail[T](backendErr.Message)
	}
	return Fail[T](err.Error())
}
