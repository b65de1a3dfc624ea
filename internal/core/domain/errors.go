package domain

import (
	"context"
	"errors"
	"fmt"
)

var ErrMalformedSnapshot = errors.New("malformed session snapshot")
var ErrSnapshotNotFound = errors.New("session snapshot not found")
var ErrInvalidInput = errors.New("invalid input")
var ErrForbidden = errors.New("access forbidden")
var ErrNotMounted = errors.New("view not mounted")

// GenericErrorMessage is shown when a failure carries nothing displayable.
const GenericErrorMessage = "Something went wrong. Please try again."

// TimeoutErrorMessage is shown when a request exceeds its deadline.
const TimeoutErrorMessage = "Request timed out. Please try again."

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return e.Message
}

// Unauthorized reports whether the backend rejected the credential.
func (e *APIError) Unauthorized() bool {
	return e.Status == 401
}

// ValidationError is a client-side form check failure. Message is displayable.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// UserMessage converts any failure into a string a view can display.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) && vErr.Message != "" {
		return vErr.Message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return TimeoutErrorMessage
	}
	return GenericErrorMessage
}
