package shared

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed   = fmt.Errorf("authentication failed")
	ErrMissingToken = fmt.Errorf("no access token available")
	ErrInvalidState = fmt.Errorf("invalid state parameter")
	ErrTimeout      = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrTrackNotFound      = fmt.Errorf("track not found")
	ErrKeyNotFound        = fmt.Errorf("key not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// AuthError reports a failed token exchange (authorization code or client credentials).
//
// StatusCode is zero when the exchange never reached the token endpoint.
type AuthError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *AuthError) Error() string {
	msg := fmt.Sprintf("%v: %s", ErrAuthFailed, e.Op)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AuthError) Unwrap() error { return e.Err }

// Is matches [ErrAuthFailed] so callers can test with [errors.Is].
func (e *AuthError) Is(target error) bool { return target == ErrAuthFailed }

// APIRequestError is returned for any provider response outside the 2xx range.
type APIRequestError struct {
	StatusCode int
	Status     string
}

func (e *APIRequestError) Error() string {
	return fmt.Sprintf("%v: %s", ErrAPIRequest, e.Status)
}

// Is matches [ErrAPIRequest].
func (e *APIRequestError) Is(target error) bool { return target == ErrAPIRequest }

// UpstreamLookupError means the chart entry has no matching track on the provider.
type UpstreamLookupError struct {
	Title  string
	Artist string
}

func (e *UpstreamLookupError) Error() string {
	return fmt.Sprintf("%v: %q by %q", ErrTrackNotFound, e.Title, e.Artist)
}

// Is matches [ErrTrackNotFound].
func (e *UpstreamLookupError) Is(target error) bool { return target == ErrTrackNotFound }

// StatusCode extracts the HTTP status from an [APIRequestError] or [AuthError] chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIRequestError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.StatusCode
	}
	return 0
}
