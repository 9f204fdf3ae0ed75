package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/services"
)

// Deps are the collaborators the application routes are built from.
type Deps struct {
	Auth      Authorizer
	Store     services.TokenPersister
	Tokens    *services.TokenContext
	Playlists services.PlaylistManager
	Searcher  TrackSearcher
	Resolver  TrackResolver
	Chart     services.ChartFeed
	Logger    *log.Logger
}

// NewAppRouter registers the landing page, OAuth routes and the JSON API behind request logging.
func NewAppRouter(d Deps) (*BasicRouter, *OAuthHandler) {
	logger := d.Logger
	if logger == nil {
		logger = log.Default()
	}

	router := NewBasicRouter()
	router.Use(RequestLogger(logger))

	oauth := NewOAuthHandler(d.Auth, d.Store, d.Tokens, logger)
	router.Handler(oauth)
	router.Handle(http.MethodGet, "/{$}", IndexHandler(d.Tokens))

	NewAPI(d.Playlists, d.Searcher, d.Resolver, d.Chart, logger).Register(router)
	return router, oauth
}
