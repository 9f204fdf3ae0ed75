package services

import (
	"context"
	"net/http"

	"github.com/desertthunder/setlist/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"

	// DefaultRedirectURI is where the provider sends the authorization code.
	DefaultRedirectURI = "http://localhost:3000/api/auth/callback/token"
)

// DefaultScopes are requested when the configuration lists none.
var DefaultScopes = []string{
	"user-read-email",
	"user-read-private",
	"user-library-read",
	"user-library-modify",
	"playlist-read-private",
	"playlist-modify-public",
	"playlist-modify-private",
}

// OAuth drives the authorization-code flow.
type OAuth struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// NewOAuth builds the flow from credentials and endpoints. Empty endpoints use Spotify's.
//
// Missing credentials are reported by [OAuth.Exchange], not here.
func NewOAuth(creds shared.SpotifyConfig, endpoints shared.EndpointsConfig, client *http.Client) *OAuth {
	authURL, tokenURL := spotifyAuthURL, spotifyTokenURL
	if endpoints.AccountsURL != "" {
		authURL, tokenURL = endpoints.AuthURL(), endpoints.TokenURL()
	}

	redirect := creds.RedirectURI
	if redirect == "" {
		redirect = DefaultRedirectURI
	}

	scopes := creds.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	if client == nil {
		client = http.DefaultClient
	}

	return &OAuth{
		config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  redirect,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		httpClient: client,
	}
}

// AuthURL returns the authorize URL carrying client_id, response_type=code, redirect_uri, scope and state.
func (o *OAuth) AuthURL(state string) string {
	return o.config.AuthCodeURL(state)
}

// RedirectURL returns the configured callback.
func (o *OAuth) RedirectURL() string {
	return o.config.RedirectURL
}

// Exchange trades an authorization code for a user token.
func (o *OAuth) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if o.config.ClientID == "" || o.config.ClientSecret == "" {
		return nil, &shared.AuthError{Op: "authorization code", Err: shared.ErrMissingCredentials}
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, o.httpClient)
	token, err := o.config.Exchange(ctx, code)
	if err != nil {
		return nil, exchangeError("authorization code", err)
	}
	return token, nil
}
