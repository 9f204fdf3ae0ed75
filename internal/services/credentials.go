package services

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

// AppTokenSource supplies an app-level bearer token for public endpoints.
type AppTokenSource interface {
	Token(ctx context.Context) (string, error)
}

// ClientCredentials fetches and caches a client-credentials token.
type ClientCredentials struct {
	config     clientcredentials.Config
	httpClient *http.Client
	now        Clock
	logger     *log.Logger

	mu     sync.Mutex
	token  string
	expiry time.Time
}

var _ AppTokenSource = (*ClientCredentials)(nil)

// CredentialsOption configures a [ClientCredentials].
type CredentialsOption func(*ClientCredentials)

// WithClock overrides the clock used for expiry checks.
func WithClock(now Clock) CredentialsOption {
	return func(c *ClientCredentials) {
		if now != nil {
			c.now = now
		}
	}
}

// WithCredentialsHTTPClient overrides the HTTP client used for the token exchange.
func WithCredentialsHTTPClient(client *http.Client) CredentialsOption {
	return func(c *ClientCredentials) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithCredentialsLogger sets the logger.
func WithCredentialsLogger(l *log.Logger) CredentialsOption {
	return func(c *ClientCredentials) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClientCredentials creates a provider for tokenURL.
//
// Missing credentials are not rejected here; the first [ClientCredentials.Token] call fails instead.
func NewClientCredentials(clientID, clientSecret, tokenURL string, opts ...CredentialsOption) *ClientCredentials {
	c := &ClientCredentials{
		config: clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: http.DefaultClient,
		now:        time.Now,
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewAppCredentials builds the provider from configured credentials. An empty AccountsURL uses Spotify's.
func NewAppCredentials(creds shared.SpotifyConfig, endpoints shared.EndpointsConfig, opts ...CredentialsOption) *ClientCredentials {
	tokenURL := spotifyTokenURL
	if endpoints.AccountsURL != "" {
		tokenURL = endpoints.TokenURL()
	}
	return NewClientCredentials(creds.ClientID, creds.ClientSecret, tokenURL, opts...)
}

// Token returns the cached token while now < expiry, otherwise exchanges for a new one.
func (c *ClientCredentials) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.token != "" && now.Before(c.expiry) {
		return c.token, nil
	}

	if c.config.ClientID == "" || c.config.ClientSecret == "" {
		return "", &shared.AuthError{Op: "client credentials", Err: shared.ErrMissingCredentials}
	}

	c.logger.Debug("requesting client credentials token", "url", c.config.TokenURL)

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := c.config.Token(ctx)
	if err != nil {
		return "", exchangeError("client credentials", err)
	}

	c.token = tok.AccessToken
	c.expiry = now.Add(lifetime(tok))
	return c.token, nil
}

// lifetime reads the relative expires_in from the token response.
//
// oauth2 keeps only the absolute Expiry, taken from the wall clock, so the raw field is used
// to keep expiry on the injected clock. JSON numbers, form integers and numeric strings are
// accepted; anything else counts as already expired.
func lifetime(tok *oauth2.Token) time.Duration {
	if tok.ExpiresIn > 0 {
		return time.Duration(tok.ExpiresIn) * time.Second
	}

	var secs float64
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		secs = v
	case int64:
		secs = float64(v)
	case string:
		secs, _ = strconv.ParseFloat(strings.TrimSpace(v), 64)
	}
	if secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

// exchangeError converts an oauth2 failure into a [shared.AuthError], keeping the HTTP status.
func exchangeError(op string, err error) error {
	authErr := &shared.AuthError{Op: op, Err: err}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		authErr.StatusCode = retrieveErr.Response.StatusCode
	}
	return authErr
}
