package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

// Match is a provider track found for a chart entry.
type Match struct {
	Track models.Track `json:"track"`
	// Exact is set when title and artist agree after normalization.
	Exact bool `json:"exact"`
}

// Resolver joins chart entries to Spotify tracks by free-text title/artist search.
type Resolver struct {
	searcher *Searcher
}

// NewResolver creates a Resolver on top of searcher.
func NewResolver(searcher *Searcher) *Resolver {
	return &Resolver{searcher: searcher}
}

// Resolve looks up the best match for title by artist.
//
// A lookup with no hits returns (nil, false, nil) so callers can tell "no match" from a failed request.
func (r *Resolver) Resolve(ctx context.Context, title, artist string) (*Match, bool, error) {
	query := fmt.Sprintf("%s artist:%s", title, artist)

	var resp SpotifySearchResponse
	if err := r.searcher.search(ctx, query, 1).Decode(&resp); err != nil {
		return nil, false, err
	}

	tracks := resp.Tracks.toModels()
	if len(tracks) == 0 {
		return nil, false, nil
	}

	first := tracks[0]
	return &Match{
		Track: first,
		Exact: shared.NormalizeTrackKey(first.Title, first.Artist) == shared.NormalizeTrackKey(title, artist),
	}, true, nil
}

// MustResolve is [Resolver.Resolve] with "no match" reported as [shared.UpstreamLookupError].
func (r *Resolver) MustResolve(ctx context.Context, title, artist string) (*Match, error) {
	match, found, err := r.Resolve(ctx, title, artist)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &shared.UpstreamLookupError{Title: title, Artist: artist}
	}
	return match, nil
}

// ResolveEntry resolves a chart entry.
func (r *Resolver) ResolveEntry(ctx context.Context, entry models.ChartEntry) (*Match, bool, error) {
	return r.Resolve(ctx, entry.Title, entry.Artist)
}
