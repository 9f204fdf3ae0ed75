package shared

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestErrors(t *testing.T) {
	t.Run("AuthError", func(t *testing.T) {
		cause := errors.New("boom")
		err := fmt.Errorf("login: %w", &AuthError{Op: "client credentials", StatusCode: 401, Err: cause})

		if !errors.Is(err, ErrAuthFailed) {
			t.Error("expected error to match ErrAuthFailed")
		}
		if !errors.Is(err, cause) {
			t.Error("expected error to unwrap to its cause")
		}
		if !strings.Contains(err.Error(), "status 401") {
			t.Errorf("expected status in message, got %q", err.Error())
		}
		if StatusCode(err) != 401 {
			t.Errorf("expected status 401, got %d", StatusCode(err))
		}
	})

	t.Run("AuthError Without Status", func(t *testing.T) {
		err := &AuthError{Op: "code exchange", Err: ErrMissingCredentials}

		if strings.Contains(err.Error(), "status") {
			t.Errorf("expected no status in message, got %q", err.Error())
		}
		if !errors.Is(err, ErrMissingCredentials) {
			t.Error("expected error to match ErrMissingCredentials")
		}
	})

	t.Run("APIRequestError", func(t *testing.T) {
		err := fmt.Errorf("playlists: %w", &APIRequestError{StatusCode: http.StatusNotFound, Status: "404 Not Found"})

		if !errors.Is(err, ErrAPIRequest) {
			t.Error("expected error to match ErrAPIRequest")
		}
		if errors.Is(err, ErrAuthFailed) {
			t.Error("did not expect ErrAuthFailed")
		}
		if StatusCode(err) != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", StatusCode(err))
		}
	})

	t.Run("UpstreamLookupError", func(t *testing.T) {
		err := &UpstreamLookupError{Title: "Song", Artist: "Band"}

		if !errors.Is(err, ErrTrackNotFound) {
			t.Error("expected error to match ErrTrackNotFound")
		}
		if StatusCode(err) != 0 {
			t.Errorf("expected no status, got %d", StatusCode(err))
		}
	})
}
