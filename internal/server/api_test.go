package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/services"
	"github.com/desertthunder/setlist/internal/shared"
)

type fakePlaylists struct {
	err     error
	created []string
	updated []string
	deleted []string
	added   []string
	removed []string
}

func (f *fakePlaylists) Me(context.Context) (*services.SpotifyUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.SpotifyUser{ID: "user1"}, nil
}

func (f *fakePlaylists) UserPlaylists(context.Context) ([]models.Playlist, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.Playlist{{ID: "p1", Name: "Road Trip"}}, nil
}

func (f *fakePlaylists) Playlist(_ context.Context, id string) (*models.PlaylistDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.PlaylistDetail{Playlist: models.Playlist{ID: id}}, nil
}

func (f *fakePlaylists) CreatePlaylist(_ context.Context, userID, name, _ string) (*models.Playlist, error) {
	f.created = append(f.created, userID+"/"+name)
	return &models.Playlist{ID: "new", Name: name}, f.err
}

func (f *fakePlaylists) CreatePlaylistForMe(ctx context.Context, name, description string) (*models.Playlist, error) {
	me, err := f.Me(ctx)
	if err != nil {
		return nil, err
	}
	return f.CreatePlaylist(ctx, me.ID, name, description)
}

func (f *fakePlaylists) UpdatePlaylist(_ context.Context, id, name, _ string) error {
	f.updated = append(f.updated, id+"="+name)
	return f.err
}

func (f *fakePlaylists) DeletePlaylist(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakePlaylists) AddTracks(_ context.Context, id string, uris []string) (string, error) {
	f.added = append(f.added, id+":"+strings.Join(uris, ","))
	return "snap", f.err
}

func (f *fakePlaylists) AddTrackToPlaylists(ctx context.Context, uri string, ids ...string) error {
	for _, id := range ids {
		if _, err := f.AddTracks(ctx, id, []string{uri}); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakePlaylists) RemoveTrack(_ context.Context, id, uri string) error {
	f.removed = append(f.removed, id+":"+uri)
	return f.err
}

type fakeSearcher struct{}

func (fakeSearcher) Tracks(_ context.Context, q string) ([]models.Track, error) {
	if strings.TrimSpace(q) == "" {
		return nil, shared.ErrInvalidInput
	}
	return []models.Track{{ID: "t1", Title: q}}, nil
}

type fakeResolver struct{}

func (fakeResolver) MustResolve(_ context.Context, title, artist string) (*services.Match, error) {
	if title == "missing" {
		return nil, &shared.UpstreamLookupError{Title: title, Artist: artist}
	}
	return &services.Match{Track: models.Track{ID: "t1", Title: title, Artist: artist}, Exact: true}, nil
}

type fakeChart struct {
	body  string
	err   error
	limit int
}

func (f *fakeChart) Raw(_ context.Context, limit int) (json.RawMessage, error) {
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.body), nil
}

func (f *fakeChart) TopTracks(context.Context, int) ([]models.ChartEntry, error) {
	return nil, f.err
}

func newAPIRouter(playlists *fakePlaylists, chart *fakeChart) *BasicRouter {
	router := NewBasicRouter()
	NewAPI(playlists, fakeSearcher{}, fakeResolver{}, chart, nil).Register(router)
	return router
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON error body, got %q", rec.Body.String())
	}
	return body["error"]
}

func TestAPI(t *testing.T) {
	t.Run("Chart Relay", func(t *testing.T) {
		t.Run("Passes Body Through", func(t *testing.T) {
			chart := &fakeChart{body: `{"data":[{"id":1}],"total":1}`}
			rec := serve(newAPIRouter(&fakePlaylists{}, chart), http.MethodGet, "/api/deezer/top-tracks", "")

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if rec.Body.String() != chart.body {
				t.Errorf("expected body unchanged, got %s", rec.Body.String())
			}
			if chart.limit != services.DefaultChartLimit {
				t.Errorf("expected default limit, got %d", chart.limit)
			}
		})

		t.Run("Failure Is 500", func(t *testing.T) {
			chart := &fakeChart{err: &shared.APIRequestError{StatusCode: 503, Status: "Service Unavailable"}}
			rec := serve(newAPIRouter(&fakePlaylists{}, chart), http.MethodGet, "/api/deezer/top-tracks", "")

			if rec.Code != http.StatusInternalServerError {
				t.Errorf("expected 500, got %d", rec.Code)
			}
			if msg := errorMessage(t, rec); msg != chartRelayError {
				t.Errorf("expected %q, got %q", chartRelayError, msg)
			}
		})
	})

	t.Run("Error Mapping", func(t *testing.T) {
		tests := []struct {
			name string
			err  error
			want int
		}{
			{"Missing Token", shared.ErrMissingToken, http.StatusUnauthorized},
			{"Provider 404", &shared.APIRequestError{StatusCode: 404, Status: "Not Found"}, http.StatusNotFound},
			{"Provider 429", &shared.APIRequestError{StatusCode: 429, Status: "Too Many Requests"}, http.StatusTooManyRequests},
			{"Other", errors.New("boom"), http.StatusInternalServerError},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec := serve(newAPIRouter(&fakePlaylists{err: tt.err}, &fakeChart{}), http.MethodGet, "/api/playlists", "")
				if rec.Code != tt.want {
					t.Errorf("expected %d, got %d", tt.want, rec.Code)
				}
				if msg := errorMessage(t, rec); msg != tt.err.Error() {
					t.Errorf("expected message %q, got %q", tt.err.Error(), msg)
				}
			})
		}
	})

	t.Run("Playlists", func(t *testing.T) {
		t.Run("List", func(t *testing.T) {
			rec := serve(newAPIRouter(&fakePlaylists{}, &fakeChart{}), http.MethodGet, "/api/playlists", "")

			var body struct {
				Playlists []models.Playlist `json:"playlists"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || len(body.Playlists) != 1 {
				t.Errorf("expected one playlist, got %s", rec.Body.String())
			}
		})

		t.Run("Get", func(t *testing.T) {
			rec := serve(newAPIRouter(&fakePlaylists{}, &fakeChart{}), http.MethodGet, "/api/playlists/p7", "")
			if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"id":"p7"`) {
				t.Errorf("unexpected response %d %s", rec.Code, rec.Body.String())
			}
		})

		t.Run("Create", func(t *testing.T) {
			playlists := &fakePlaylists{}
			rec := serve(newAPIRouter(playlists, &fakeChart{}), http.MethodPost, "/api/playlists", `{"name":"New"}`)

			if rec.Code != http.StatusCreated {
				t.Errorf("expected 201, got %d", rec.Code)
			}
			if len(playlists.created) != 1 || playlists.created[0] != "user1/New" {
				t.Errorf("expected create for user1, got %v", playlists.created)
			}
		})

		t.Run("Create Without Name", func(t *testing.T) {
			playlists := &fakePlaylists{}
			rec := serve(newAPIRouter(playlists, &fakeChart{}), http.MethodPost, "/api/playlists", `{}`)
			if rec.Code != http.StatusBadRequest || len(playlists.created) != 0 {
				t.Errorf("expected 400 and no create, got %d %v", rec.Code, playlists.created)
			}
		})

		t.Run("Malformed Body", func(t *testing.T) {
			rec := serve(newAPIRouter(&fakePlaylists{}, &fakeChart{}), http.MethodPost, "/api/playlists", `{`)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})

		t.Run("Rename", func(t *testing.T) {
			playlists := &fakePlaylists{}
			rec := serve(newAPIRouter(playlists, &fakeChart{}), http.MethodPut, "/api/playlists/p1", `{"name":"Renamed"}`)
			if rec.Code != http.StatusNoContent || len(playlists.updated) != 1 || playlists.updated[0] != "p1=Renamed" {
				t.Errorf("unexpected %d %v", rec.Code, playlists.updated)
			}
		})

		t.Run("Delete", func(t *testing.T) {
			playlists := &fakePlaylists{}
			rec := serve(newAPIRouter(playlists, &fakeChart{}), http.MethodDelete, "/api/playlists/p1", "")
			if rec.Code != http.StatusNoContent || len(playlists.deleted) != 1 {
				t.Errorf("unexpected %d %v", rec.Code, playlists.deleted)
			}
		})

		t.Run("Add Tracks", func(t *testing.T) {
			playlists := &fakePlaylists{}
			rec := serve(newAPIRouter(playlists, &fakeChart{}), http.MethodPost, "/api/playlists/p1/tracks", `{"uris":["spotify:track:a"]}`)
			if rec.Code != http.StatusCreated || !strings.Contains(rec.Body.String(), `"snapshot_id":"snap"`) {
				t.Errorf("unexpected %d %s", rec.Code, rec.Body.String())
			}
			if len(playlists.added) != 1 || playlists.added[0] != "p1:spotify:track:a" {
				t.Errorf("unexpected adds %v", playlists.added)
			}
		})

		t.Run("Remove Track", func(t *testing.T) {
			playlists := &fakePlaylists{}
			rec := serve(newAPIRouter(playlists, &fakeChart{}), http.MethodDelete, "/api/playlists/p1/tracks", `{"uri":"spotify:track:a"}`)
			if rec.Code != http.StatusNoContent || len(playlists.removed) != 1 {
				t.Errorf("unexpected %d %v", rec.Code, playlists.removed)
			}
		})
	})

	t.Run("Search", func(t *testing.T) {
		router := newAPIRouter(&fakePlaylists{}, &fakeChart{})

		if rec := serve(router, http.MethodGet, "/api/search?q=espresso", ""); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "espresso") {
			t.Errorf("unexpected %d %s", rec.Code, rec.Body.String())
		}
		if rec := serve(router, http.MethodGet, "/api/search", ""); rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for empty query, got %d", rec.Code)
		}
	})

	t.Run("Resolve", func(t *testing.T) {
		router := newAPIRouter(&fakePlaylists{}, &fakeChart{})

		if rec := serve(router, http.MethodGet, "/api/chart/resolve?title=Espresso&artist=Sabrina", ""); rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if rec := serve(router, http.MethodGet, "/api/chart/resolve?title=missing&artist=x", ""); rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
		if rec := serve(router, http.MethodGet, "/api/chart/resolve?title=only", ""); rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}

func TestNewAppRouter(t *testing.T) {
	tokens := services.NewTokenContext()
	router, oauth := NewAppRouter(Deps{
		Auth:      &fakeAuthorizer{},
		Store:     &memStore{},
		Tokens:    tokens,
		Playlists: &fakePlaylists{},
		Searcher:  fakeSearcher{},
		Resolver:  fakeResolver{},
		Chart:     &fakeChart{body: `{}`},
	})
	if oauth == nil {
		t.Fatal("expected oauth handler")
	}

	for _, path := range []string{"/", "/login", "/api/deezer/top-tracks", "/api/playlists"} {
		t.Run(path, func(t *testing.T) {
			if rec := serve(router, http.MethodGet, path, ""); rec.Code == http.StatusNotFound {
				t.Errorf("expected %s to be routed", path)
			}
		})
	}

	if rec := serve(router, http.MethodGet, "/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown path, got %d", rec.Code)
	}
}
