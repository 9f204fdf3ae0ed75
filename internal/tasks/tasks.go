package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/services"
	"github.com/desertthunder/setlist/internal/shared"
)

// Resolver joins a chart entry to a provider track.
type Resolver interface {
	ResolveEntry(ctx context.Context, entry models.ChartEntry) (*services.Match, bool, error)
}

// EntryMatch is the outcome of resolving one chart entry.
type EntryMatch struct {
	Entry models.ChartEntry
	Match *services.Match // nil when not found or failed
	Error error
}

// ImportOpts selects the destination of [ChartEngine.Import].
//
// With an empty PlaylistID a new private playlist called Name is created.
type ImportOpts struct {
	PlaylistID  string
	Name        string
	Description string
	Limit       int
}

// ImportResult contains all data from a chart import.
type ImportResult struct {
	PlaylistID      string           // Destination playlist
	Created         *models.Playlist // Set when the playlist was created by the import
	Matches         []EntryMatch     // Per-entry results, in chart order
	SuccessCount    int              // Entries resolved to a track
	FailedCount     int              // Entries left out
	TotalEntries    int              // Entries fetched from the chart
	MatchPercentage float64          // Success rate as percentage
	SnapshotID      string           // Playlist snapshot after the add
}

// URIs returns the matched track URIs in chart order.
func (r *ImportResult) URIs() []string {
	uris := make([]string, 0, r.SuccessCount)
	for _, m := range r.Matches {
		if m.Match != nil {
			uris = append(uris, m.Match.Track.URI)
		}
	}
	return uris
}

// DiffResult compares a playlist with the chart.
type DiffResult struct {
	Playlist *models.PlaylistDetail
	Present  []models.ChartEntry // Chart entries already in the playlist
	Missing  []models.ChartEntry // Chart entries not in the playlist
}

// ChartEngine runs chart-driven playlist operations.
type ChartEngine struct {
	chart     services.ChartFeed
	resolver  Resolver
	playlists services.PlaylistManager
}

// NewChartEngine creates a new ChartEngine with the provided services.
func NewChartEngine(chart services.ChartFeed, resolver Resolver, playlists services.PlaylistManager) *ChartEngine {
	return &ChartEngine{chart: chart, resolver: resolver, playlists: playlists}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *ChartEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Import resolves the top chart entries and adds the matches to a playlist.
//
// Entries without a match are reported in the result. A token exchange failure stops the run.
func (e *ChartEngine) Import(ctx context.Context, progress chan<- ProgressUpdate, opts ImportOpts) (*ImportResult, error) {
	if e.chart == nil || e.resolver == nil || e.playlists == nil {
		return nil, fmt.Errorf("%w: chart engine not initialized", shared.ErrServiceUnavailable)
	}
	if opts.PlaylistID == "" && strings.TrimSpace(opts.Name) == "" {
		return nil, fmt.Errorf("%w: playlist ID or name", shared.ErrMissingArgument)
	}
	if opts.Limit <= 0 {
		opts.Limit = services.DefaultChartLimit
	}

	e.sendProgress(progress, fetchChartUpdate(opts.Limit))
	entries, err := e.chart.TopTracks(ctx, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart: %w", err)
	}

	result := &ImportResult{TotalEntries: len(entries), Matches: make([]EntryMatch, 0, len(entries))}

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		e.sendProgress(progress, resolveUpdate(i+1, len(entries), entry))

		match, found, err := e.resolver.ResolveEntry(ctx, entry)
		if errors.Is(err, shared.ErrAuthFailed) {
			return result, err
		}
		if err == nil && !found {
			err = &shared.UpstreamLookupError{Title: entry.Title, Artist: entry.Artist}
		}

		result.Matches = append(result.Matches, EntryMatch{Entry: entry, Match: match, Error: err})
		if err == nil {
			result.SuccessCount++
		}
	}

	result.FailedCount = result.TotalEntries - result.SuccessCount
	if result.TotalEntries > 0 {
		result.MatchPercentage = float64(result.SuccessCount) / float64(result.TotalEntries) * 100
	}

	if result.SuccessCount == 0 {
		return result, fmt.Errorf("%w: no chart entries matched", shared.ErrTrackNotFound)
	}

	result.PlaylistID = opts.PlaylistID
	if result.PlaylistID == "" {
		created, err := e.playlists.CreatePlaylistForMe(ctx, opts.Name, opts.Description)
		if err != nil {
			return result, fmt.Errorf("failed to create playlist: %w", err)
		}
		result.Created = created
		result.PlaylistID = created.ID
		e.sendProgress(progress, createPlaylistUpdate(created))
	}

	e.sendProgress(progress, addTracksUpdate(result.SuccessCount, result.PlaylistID))
	snapshot, err := e.playlists.AddTracks(ctx, result.PlaylistID, result.URIs())
	if err != nil {
		return result, fmt.Errorf("failed to add tracks: %w", err)
	}
	result.SnapshotID = snapshot

	return result, nil
}

// Diff reports which of the top chart entries a playlist already contains.
func (e *ChartEngine) Diff(ctx context.Context, progress chan<- ProgressUpdate, playlistID string, limit int) (*DiffResult, error) {
	if e.chart == nil || e.playlists == nil {
		return nil, fmt.Errorf("%w: chart engine not initialized", shared.ErrServiceUnavailable)
	}
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist ID", shared.ErrMissingArgument)
	}

	e.sendProgress(progress, fetchPlaylistUpdate(1, 2, playlistID))
	detail, err := e.playlists.Playlist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, fetchChartUpdate(limit))
	entries, err := e.chart.TopTracks(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart: %w", err)
	}

	e.sendProgress(progress, compareUpdate(len(entries)))
	result := &DiffResult{Playlist: detail}
	for _, entry := range entries {
		if containsEntry(detail.Tracks, entry) {
			result.Present = append(result.Present, entry)
		} else {
			result.Missing = append(result.Missing, entry)
		}
	}
	return result, nil
}

// containsEntry matches on normalized title, and on artist either exactly or as one of the
// track's credited artists.
func containsEntry(tracks []models.Track, entry models.ChartEntry) bool {
	want := shared.NormalizeTrackKey(entry.Title, entry.Artist)
	wantTitle, wantArtist, _ := strings.Cut(want, "|")

	for _, t := range tracks {
		key := shared.NormalizeTrackKey(t.Title, t.Artist)
		if key == want {
			return true
		}
		title, artists, _ := strings.Cut(key, "|")
		if title != wantTitle {
			continue
		}
		for _, a := range strings.Split(artists, ",") {
			if strings.TrimSpace(a) == wantArtist {
				return true
			}
		}
	}
	return false
}
