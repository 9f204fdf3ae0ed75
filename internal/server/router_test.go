package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/shared"
)

func TestBasicRouter(t *testing.T) {
	t.Run("Method Patterns", func(t *testing.T) {
		router := NewBasicRouter()
		router.HandleFunc(http.MethodGet, "/items/{id}", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "get "+r.PathValue("id"))
		})
		router.HandleFunc(http.MethodDelete, "/items/{id}", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "delete "+r.PathValue("id"))
		})

		tests := []struct {
			method string
			want   string
			status int
		}{
			{http.MethodGet, "get 42", http.StatusOK},
			{http.MethodDelete, "delete 42", http.StatusOK},
			{http.MethodPost, "", http.StatusMethodNotAllowed},
		}

		for _, tt := range tests {
			t.Run(tt.method, func(t *testing.T) {
				rec := httptest.NewRecorder()
				router.ServeHTTP(rec, httptest.NewRequest(tt.method, "/items/42", nil))

				if rec.Code != tt.status {
					t.Errorf("expected status %d, got %d", tt.status, rec.Code)
				}
				if tt.want != "" && rec.Body.String() != tt.want {
					t.Errorf("expected body %q, got %q", tt.want, rec.Body.String())
				}
			})
		}
	})

	t.Run("Middleware Order", func(t *testing.T) {
		var order []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mw("first"), mw("second"))
		router.HandleFunc(http.MethodGet, "/", func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		if got := strings.Join(order, ","); got != "first,second,handler" {
			t.Errorf("expected first,second,handler, got %s", got)
		}
	})

	t.Run("RequestLogger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(&buf)

		router := NewBasicRouter()
		router.Use(RequestLogger(logger))
		router.HandleFunc(http.MethodGet, "/teapot", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/teapot", nil))

		out := buf.String()
		if !strings.Contains(out, "path=/teapot") || !strings.Contains(out, "status=418") {
			t.Errorf("expected path and status in log, got %q", out)
		}
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"Missing Token", shared.ErrMissingToken, http.StatusUnauthorized},
		{"Wrapped Missing Token", fmt.Errorf("me: %w", shared.ErrMissingToken), http.StatusUnauthorized},
		{"API Request", &shared.APIRequestError{StatusCode: 404, Status: "Not Found"}, http.StatusNotFound},
		{"Auth", &shared.AuthError{Op: "client credentials"}, http.StatusBadGateway},
		{"Upstream Lookup", &shared.UpstreamLookupError{Title: "a", Artist: "b"}, http.StatusNotFound},
		{"Invalid Input", shared.ErrInvalidInput, http.StatusBadRequest},
		{"Other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFor(tt.err); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
