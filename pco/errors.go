package pco

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingID is returned before any request when a required id is empty.
	ErrMissingID = errors.New("pco: missing required id")

	// ErrInvalidResource is wrapped by every ValidationError.
	ErrInvalidResource = errors.New("pco: invalid resource")

	// ErrNoCredentials is returned by New when neither app credentials nor a
	// token source are configured.
	ErrNoCredentials = errors.New("pco: app id and secret or a token source are required")
)

// ErrorObject is one entry of a JSON-API "errors" array.
type ErrorObject struct {
	Status string `json:"status,omitempty"`
	Code   string `json:"code,omitempty"`
	Title  string `json:"title,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	// Status is the status text, e.g. "Not Found".
	Status    string
	Body      []byte
	Errors    []ErrorObject
	RequestID string
}

func (e *APIError) Error() string {
	return "pco: remote API error: " + e.Status
}

// Temporary reports whether the failure is on the remote side (5xx or 429).
func (e *APIError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// ValidationError describes a response that failed boundary validation.
type ValidationError struct {
	Resource string // resource type, e.g. "Plan"
	ID       string
	Field    string
	Reason   string
}

func (e *ValidationError) Error() string {
	msg := "pco: invalid " + e.Resource
	if e.ID != "" {
		msg += " " + e.ID
	}
	if e.Field != "" {
		msg += ": " + e.Field
	}
	return msg + ": " + e.Reason
}

// Unwrap returns ErrInvalidResource.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidResource
}

// IsNotFound reports whether err is a 404 from the remote API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUpstreamFailure reports whether err should count against a circuit
// breaker: transport failures and 5xx/429 responses. Client errors and
// validation failures do not.
func IsUpstreamFailure(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	if errors.Is(err, ErrInvalidResource) || errors.Is(err, ErrMissingID) || errors.Is(err, context.Canceled) {
		return false
	}
	return true
}

func missingID(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingID, name)
}
