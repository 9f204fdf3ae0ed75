// Spotify Web API playlist operations over [Gateway]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

type followers struct {
	Total int `json:"total"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Email       string         `json:"email"`
	Country     string         `json:"country"`
	Product     string         `json:"product"` // premium, free, etc.
	Followers   followers      `json:"followers"`
	Images      []SpotifyImage `json:"images"`
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	Explicit   bool            `json:"explicit"`
	Popularity int             `json:"popularity"`
	URI        string          `json:"uri"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
	URI    string         `json:"uri"`
}

// Owner is the user a playlist belongs to.
type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type playlistTracks struct {
	Total int                    `json:"total"`
	Items []SpotifyPlaylistTrack `json:"items"`
}

// SpotifyPlaylist represents a Spotify playlist, simplified or full.
type SpotifyPlaylist struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Owner       Owner          `json:"owner"`
	Public      bool           `json:"public"`
	Followers   followers      `json:"followers"`
	Tracks      playlistTracks `json:"tracks"`
	Images      []SpotifyImage `json:"images"`
	URI         string         `json:"uri"`
}

// SpotifyPlaylistTrack represents a track within a playlist context.
type SpotifyPlaylistTrack struct {
	AddedAt string        `json:"added_at"`
	Track   *SpotifyTrack `json:"track"`
}

// SpotifyPaginatedPlaylists represents GET /me/playlists.
type SpotifyPaginatedPlaylists struct {
	Items []SpotifyPlaylist `json:"items"`
	Total int               `json:"total"`
	Next  *string           `json:"next"`
}

// SpotifyTrackPage is the "tracks" page of a search response.
type SpotifyTrackPage struct {
	Items []SpotifyTrack `json:"items"`
	Total int            `json:"total"`
}

// SpotifySearchResponse represents GET /search?type=track.
type SpotifySearchResponse struct {
	Tracks SpotifyTrackPage `json:"tracks"`
}

type snapshot struct {
	SnapshotID string `json:"snapshot_id"`
}

func (p SpotifyTrackPage) toModels() []models.Track {
	tracks := make([]models.Track, 0, len(p.Items))
	for _, t := range p.Items {
		tracks = append(tracks, t.toModel())
	}
	return tracks
}

func (t SpotifyTrack) toModel() models.Track {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return models.Track{
		ID:       t.ID,
		URI:      t.URI,
		Title:    t.Name,
		Artist:   strings.Join(names, ", "),
		Album:    t.Album.Name,
		Duration: t.DurationMS / 1000,
		ImageURL: firstImage(t.Album.Images),
	}
}

func (p SpotifyPlaylist) toModel() models.Playlist {
	owner := p.Owner.DisplayName
	if owner == "" {
		owner = p.Owner.ID
	}
	return models.Playlist{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Owner:       owner,
		TrackCount:  p.Tracks.Total,
		Followers:   p.Followers.Total,
		Public:      p.Public,
		ImageURL:    firstImage(p.Images),
	}
}

func firstImage(images []SpotifyImage) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}

// PlaylistManager is the playlist surface the CLI and HTTP API depend on.
type PlaylistManager interface {
	Me(ctx context.Context) (*SpotifyUser, error)
	UserPlaylists(ctx context.Context) ([]models.Playlist, error)
	Playlist(ctx context.Context, playlistID string) (*models.PlaylistDetail, error)
	CreatePlaylist(ctx context.Context, userID, name, description string) (*models.Playlist, error)
	CreatePlaylistForMe(ctx context.Context, name, description string) (*models.Playlist, error)
	UpdatePlaylist(ctx context.Context, playlistID, name, description string) error
	DeletePlaylist(ctx context.Context, playlistID string) error
	AddTracks(ctx context.Context, playlistID string, uris []string) (string, error)
	AddTrackToPlaylists(ctx context.Context, uri string, playlistIDs ...string) error
	RemoveTrack(ctx context.Context, playlistID, uri string) error
}

// SpotifyService implements [PlaylistManager] on a [Gateway].
type SpotifyService struct {
	gateway *Gateway
}

var _ PlaylistManager = (*SpotifyService)(nil)

// NewSpotifyService creates a SpotifyService.
func NewSpotifyService(gateway *Gateway) *SpotifyService {
	return &SpotifyService{gateway: gateway}
}

// Me retrieves the current user's profile.
func (s *SpotifyService) Me(ctx context.Context) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := s.gateway.Do(ctx, Request{Endpoint: "/me"}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserPlaylists retrieves the first page of the user's playlists.
func (s *SpotifyService) UserPlaylists(ctx context.Context) ([]models.Playlist, error) {
	var resp SpotifyPaginatedPlaylists
	if err := s.gateway.Do(ctx, Request{Endpoint: "/me/playlists"}).Decode(&resp); err != nil {
		return nil, err
	}

	playlists := make([]models.Playlist, 0, len(resp.Items))
	for _, p := range resp.Items {
		playlists = append(playlists, p.toModel())
	}
	return playlists, nil
}

// Playlist retrieves a playlist and its tracks.
func (s *SpotifyService) Playlist(ctx context.Context, playlistID string) (*models.PlaylistDetail, error) {
	var sp SpotifyPlaylist
	if err := s.gateway.Do(ctx, Request{Endpoint: playlistPath(playlistID)}).Decode(&sp); err != nil {
		return nil, err
	}

	detail := &models.PlaylistDetail{Playlist: sp.toModel(), Tracks: []models.Track{}}
	for _, item := range sp.Tracks.Items {
		if item.Track == nil {
			continue
		}
		detail.Tracks = append(detail.Tracks, item.Track.toModel())
	}
	return detail, nil
}

// CreatePlaylist creates a private playlist owned by userID.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, userID, name, description string) (*models.Playlist, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}

	req := Request{
		Method:   http.MethodPost,
		Endpoint: fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID)),
		Body: map[string]any{
			"name":        name,
			"description": description,
			"public":      false,
		},
	}

	var sp SpotifyPlaylist
	if err := s.gateway.Do(ctx, req).Decode(&sp); err != nil {
		return nil, err
	}
	p := sp.toModel()
	return &p, nil
}

// CreatePlaylistForMe resolves the current user and creates a playlist for them.
func (s *SpotifyService) CreatePlaylistForMe(ctx context.Context, name, description string) (*models.Playlist, error) {
	me, err := s.Me(ctx)
	if err != nil {
		return nil, err
	}
	return s.CreatePlaylist(ctx, me.ID, name, description)
}

// UpdatePlaylist renames a playlist and replaces its description.
func (s *SpotifyService) UpdatePlaylist(ctx context.Context, playlistID, name, description string) error {
	req := Request{
		Method:   http.MethodPut,
		Endpoint: playlistPath(playlistID),
		Body:     map[string]string{"name": name, "description": description},
	}
	return s.gateway.Do(ctx, req).Err()
}

// DeletePlaylist unfollows the playlist, which is how Spotify deletes one for its owner.
func (s *SpotifyService) DeletePlaylist(ctx context.Context, playlistID string) error {
	req := Request{Method: http.MethodDelete, Endpoint: playlistPath(playlistID) + "/followers"}
	return s.gateway.Do(ctx, req).Err()
}

// AddTracks appends uris to a playlist and returns the new snapshot ID.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, uris []string) (string, error) {
	if len(uris) == 0 {
		return "", fmt.Errorf("%w: no track URIs provided", shared.ErrInvalidInput)
	}

	req := Request{
		Method:   http.MethodPost,
		Endpoint: playlistPath(playlistID) + "/tracks",
		Body:     map[string][]string{"uris": uris},
	}

	var snap snapshot
	if err := s.gateway.Do(ctx, req).Decode(&snap); err != nil {
		return "", err
	}
	return snap.SnapshotID, nil
}

// AddTrackToPlaylists adds one track to each playlist in order, stopping at the first failure.
func (s *SpotifyService) AddTrackToPlaylists(ctx context.Context, uri string, playlistIDs ...string) error {
	for _, id := range playlistIDs {
		if _, err := s.AddTracks(ctx, id, []string{uri}); err != nil {
			return fmt.Errorf("playlist %s: %w", id, err)
		}
	}
	return nil
}

// RemoveTrack removes every occurrence of uri from a playlist.
func (s *SpotifyService) RemoveTrack(ctx context.Context, playlistID, uri string) error {
	req := Request{
		Method:   http.MethodDelete,
		Endpoint: playlistPath(playlistID) + "/tracks",
		Body: map[string]any{
			"tracks": []map[string]string{{"uri": uri}},
		},
	}
	return s.gateway.Do(ctx, req).Err()
}

func playlistPath(id string) string {
	return "/playlists/" + url.PathEscape(id)
}
