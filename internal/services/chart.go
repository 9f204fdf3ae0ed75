package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/models"
)

const (
	// DefaultChartURL is the Deezer API base.
	DefaultChartURL = "https://api.deezer.com"
	// DefaultChartLimit is the number of chart entries fetched when no limit is given.
	DefaultChartLimit = 50
)

// ChartFeed is the chart surface the CLI and HTTP relay depend on.
type ChartFeed interface {
	Raw(ctx context.Context, limit int) (json.RawMessage, error)
	TopTracks(ctx context.Context, limit int) ([]models.ChartEntry, error)
}

type deezerArtist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type deezerAlbum struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	CoverMedium string `json:"cover_medium"`
}

// DeezerTrack is one entry of GET /chart/0/tracks.
type DeezerTrack struct {
	ID       int64        `json:"id"`
	Title    string       `json:"title"`
	Duration int          `json:"duration"` // seconds
	Position int          `json:"position"`
	Artist   deezerArtist `json:"artist"`
	Album    deezerAlbum  `json:"album"`
}

// DeezerChart is the response envelope of GET /chart/0/tracks.
type DeezerChart struct {
	Data  []DeezerTrack `json:"data"`
	Total int           `json:"total"`
}

// ChartService reads the public Deezer top-tracks chart. No token is involved.
type ChartService struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

var _ ChartFeed = (*ChartService)(nil)

// NewChartService creates a ChartService. Gateway options apply to the base URL, client and logger.
func NewChartService(opts ...GatewayOption) *ChartService {
	g := NewGateway(nil, append([]GatewayOption{WithBaseURL(DefaultChartURL)}, opts...)...)
	return &ChartService{baseURL: g.baseURL, httpClient: g.httpClient, logger: g.logger}
}

// Raw fetches the chart and returns the body unchanged.
func (c *ChartService) Raw(ctx context.Context, limit int) (json.RawMessage, error) {
	if limit <= 0 {
		limit = DefaultChartLimit
	}

	endpoint := c.baseURL + "/chart/0/tracks?limit=" + strconv.Itoa(limit)
	req, err := newRequest(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return nil, err
	}
	return execute(c.httpClient, req, c.logger).Unwrap()
}

// TopTracks fetches the chart and ranks its entries.
func (c *ChartService) TopTracks(ctx context.Context, limit int) ([]models.ChartEntry, error) {
	body, err := c.Raw(ctx, limit)
	if err != nil {
		return nil, err
	}

	var chart DeezerChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("failed to decode chart: %w", err)
	}

	entries := make([]models.ChartEntry, 0, len(chart.Data))
	for i, t := range chart.Data {
		rank := t.Position
		if rank == 0 {
			rank = i + 1
		}
		entries = append(entries, models.ChartEntry{
			ID:       t.ID,
			Rank:     rank,
			Title:    strings.TrimSpace(t.Title),
			Artist:   strings.TrimSpace(t.Artist.Name),
			Album:    t.Album.Title,
			Duration: t.Duration,
			CoverURL: t.Album.CoverMedium,
		})
	}
	return entries, nil
}
