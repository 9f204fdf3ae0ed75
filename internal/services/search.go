package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

// SearchLimit is the page size for public track search.
const SearchLimit = 20

// Searcher runs public track searches with an app-level token.
type Searcher struct {
	credentials AppTokenSource
	baseURL     string
	httpClient  *http.Client
	logger      *log.Logger
}

// NewSearcher creates a Searcher. Gateway options apply to the base URL, client and logger.
func NewSearcher(credentials AppTokenSource, opts ...GatewayOption) *Searcher {
	g := NewGateway(nil, opts...)
	return &Searcher{
		credentials: credentials,
		baseURL:     g.baseURL,
		httpClient:  g.httpClient,
		logger:      g.logger,
	}
}

// SearchTracks issues GET /search?q=<query>&type=track&limit=20.
func (s *Searcher) SearchTracks(ctx context.Context, query string) Result {
	return s.search(ctx, query, SearchLimit)
}

// Tracks is [Searcher.SearchTracks] decoded into provider-neutral tracks.
func (s *Searcher) Tracks(ctx context.Context, query string) ([]models.Track, error) {
	var resp SpotifySearchResponse
	if err := s.SearchTracks(ctx, query).Decode(&resp); err != nil {
		return nil, err
	}
	return resp.Tracks.toModels(), nil
}

func (s *Searcher) search(ctx context.Context, query string, limit int) Result {
	if strings.TrimSpace(query) == "" {
		return failedResult(fmt.Errorf("%w: query must not be empty", shared.ErrInvalidInput))
	}

	token, err := s.credentials.Token(ctx)
	if err != nil {
		return failedResult(err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", strconv.Itoa(limit))

	req, err := newRequest(ctx, http.MethodGet, s.baseURL+"/search?"+params.Encode(), nil, nil)
	if err != nil {
		return failedResult(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	return execute(s.httpClient, req, s.logger)
}
