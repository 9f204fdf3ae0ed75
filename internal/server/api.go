package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/services"
	"github.com/desertthunder/setlist/internal/shared"
)

const chartRelayError = "failed to fetch top tracks from Deezer"

// TrackSearcher runs public track searches.
type TrackSearcher interface {
	Tracks(ctx context.Context, query string) ([]models.Track, error)
}

// TrackResolver joins a chart title/artist pair to a provider track.
type TrackResolver interface {
	MustResolve(ctx context.Context, title, artist string) (*services.Match, error)
}

// API serves the JSON endpoints backed by the access layer.
type API struct {
	playlists services.PlaylistManager
	searcher  TrackSearcher
	resolver  TrackResolver
	chart     services.ChartFeed
	logger    *log.Logger
}

// NewAPI creates an API.
func NewAPI(playlists services.PlaylistManager, searcher TrackSearcher, resolver TrackResolver, chart services.ChartFeed, logger *log.Logger) *API {
	if logger == nil {
		logger = log.Default()
	}
	return &API{playlists: playlists, searcher: searcher, resolver: resolver, chart: chart, logger: logger}
}

// Register adds every API route to router.
func (a *API) Register(router Router) {
	router.Handle(http.MethodGet, "/api/deezer/top-tracks", http.HandlerFunc(a.topTracks))
	router.Handle(http.MethodGet, "/api/me", http.HandlerFunc(a.me))
	router.Handle(http.MethodGet, "/api/playlists", http.HandlerFunc(a.listPlaylists))
	router.Handle(http.MethodPost, "/api/playlists", http.HandlerFunc(a.createPlaylist))
	router.Handle(http.MethodGet, "/api/playlists/{id}", http.HandlerFunc(a.getPlaylist))
	router.Handle(http.MethodPut, "/api/playlists/{id}", http.HandlerFunc(a.updatePlaylist))
	router.Handle(http.MethodDelete, "/api/playlists/{id}", http.HandlerFunc(a.deletePlaylist))
	router.Handle(http.MethodPost, "/api/playlists/{id}/tracks", http.HandlerFunc(a.addTracks))
	router.Handle(http.MethodDelete, "/api/playlists/{id}/tracks", http.HandlerFunc(a.removeTrack))
	router.Handle(http.MethodGet, "/api/search", http.HandlerFunc(a.search))
	router.Handle(http.MethodGet, "/api/chart/resolve", http.HandlerFunc(a.resolve))
}

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type tracksRequest struct {
	URIs []string `json:"uris"`
}

type removeTrackRequest struct {
	URI string `json:"uri"`
}

// topTracks relays the chart body unchanged so browsers avoid a cross-origin call.
func (a *API) topTracks(w http.ResponseWriter, r *http.Request) {
	limit := services.DefaultChartLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	body, err := a.chart.Raw(r.Context(), limit)
	if err != nil {
		a.logger.Error("chart fetch failed", "error", err)
		writeError(w, http.StatusInternalServerError, chartRelayError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (a *API) me(w http.ResponseWriter, r *http.Request) {
	user, err := a.playlists.Me(r.Context())
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *API) listPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := a.playlists.UserPlaylists(r.Context())
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"playlists": playlists})
}

func (a *API) getPlaylist(w http.ResponseWriter, r *http.Request) {
	detail, err := a.playlists.Playlist(r.Context(), r.PathValue("id"))
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (a *API) createPlaylist(w http.ResponseWriter, r *http.Request) {
	var req playlistRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		a.fail(w, fmt.Errorf("%w: name", shared.ErrMissingArgument))
		return
	}

	playlist, err := a.playlists.CreatePlaylistForMe(r.Context(), req.Name, req.Description)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, playlist)
}

func (a *API) updatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req playlistRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	if err := a.playlists.UpdatePlaylist(r.Context(), r.PathValue("id"), req.Name, req.Description); err != nil {
		a.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) deletePlaylist(w http.ResponseWriter, r *http.Request) {
	if err := a.playlists.DeletePlaylist(r.Context(), r.PathValue("id")); err != nil {
		a.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) addTracks(w http.ResponseWriter, r *http.Request) {
	var req tracksRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	if len(req.URIs) == 0 {
		a.fail(w, fmt.Errorf("%w: uris", shared.ErrMissingArgument))
		return
	}

	snapshot, err := a.playlists.AddTracks(r.Context(), r.PathValue("id"), req.URIs)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"snapshot_id": snapshot})
}

func (a *API) removeTrack(w http.ResponseWriter, r *http.Request) {
	var req removeTrackRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	if req.URI == "" {
		a.fail(w, fmt.Errorf("%w: uri", shared.ErrMissingArgument))
		return
	}

	if err := a.playlists.RemoveTrack(r.Context(), r.PathValue("id"), req.URI); err != nil {
		a.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) search(w http.ResponseWriter, r *http.Request) {
	tracks, err := a.searcher.Tracks(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tracks": tracks})
}

func (a *API) resolve(w http.ResponseWriter, r *http.Request) {
	title, artist := r.URL.Query().Get("title"), r.URL.Query().Get("artist")
	if title == "" || artist == "" {
		a.fail(w, fmt.Errorf("%w: title and artist", shared.ErrMissingArgument))
		return
	}

	match, err := a.resolver.MustResolve(r.Context(), title, artist)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, match)
}

func (a *API) fail(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("request failed", "status", status, "error", err)
	}
	writeError(w, status, err.Error())
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", shared.ErrInvalidInput, err)
	}
	return nil
}
