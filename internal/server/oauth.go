package server

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/services"
	"github.com/desertthunder/setlist/internal/shared"
	"golang.org/x/oauth2"
)

const (
	// CallbackPath receives the authorization code from the provider.
	CallbackPath = "/api/auth/callback/token"
	// LoginPath starts the authorization-code flow.
	LoginPath = "/login"

	stateCookie = "setlist_oauth_state"
	failureURL  = "/?error=authentication_failed"
)

// Authorizer is the part of [services.OAuth] the handlers use.
type Authorizer interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}

// OAuthResult contains the result of an OAuth authorization flow.
type OAuthResult struct {
	Token *oauth2.Token
	err   error
}

func (o *OAuthResult) Error() error {
	return o.err
}

// OAuthHandler serves the login redirect, the code callback, and logout.
//
// A successful callback persists the token and authenticates the shared [services.TokenContext].
// The first outcome is also published on [OAuthHandler.Result] for the CLI login command.
type OAuthHandler struct {
	auth       Authorizer
	store      services.TokenPersister
	tokens     *services.TokenContext
	logger     *log.Logger
	resultChan chan OAuthResult
	once       sync.Once
}

// NewOAuthHandler creates a new OAuth handler.
func NewOAuthHandler(auth Authorizer, store services.TokenPersister, tokens *services.TokenContext, logger *log.Logger) *OAuthHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &OAuthHandler{
		auth:       auth,
		store:      store,
		tokens:     tokens,
		logger:     logger,
		resultChan: make(chan OAuthResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *OAuthHandler) Routes() []string {
	return []string{
		"GET " + LoginPath,
		"GET " + CallbackPath,
		"POST /logout",
	}
}

// ServeHTTP dispatches on the matched route.
func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/logout":
		h.logout(w, r)
	case r.URL.Path == LoginPath:
		h.login(w, r)
	default:
		h.callback(w, r)
	}
}

func (h *OAuthHandler) login(w http.ResponseWriter, r *http.Request) {
	state, err := shared.GenerateState()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     CallbackPath,
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.auth.AuthURL(state), http.StatusFound)
}

// callback validates state, exchanges the code, and persists the token.
//
// A request without a code goes back to "/". Any other failure goes to "/?error=authentication_failed".
func (h *OAuthHandler) callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	code := query.Get("code")
	if code == "" {
		err := fmt.Errorf("%w: authorization returned no code (%s)", shared.ErrMissingArgument, query.Get("error"))
		h.Send(OAuthResult{err: err})
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != query.Get("state") {
		h.fail(w, r, shared.ErrInvalidState)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Path: CallbackPath, MaxAge: -1})

	token, err := h.auth.Exchange(r.Context(), code)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := services.Login(h.store, h.tokens, token.AccessToken); err != nil {
		h.fail(w, r, fmt.Errorf("failed to persist token: %w", err))
		return
	}

	h.logger.Info("user authenticated")
	h.Send(OAuthResult{Token: token})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *OAuthHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("authentication failed", "error", err)
	h.Send(OAuthResult{err: err})
	http.Redirect(w, r, failureURL, http.StatusFound)
}

func (h *OAuthHandler) logout(w http.ResponseWriter, _ *http.Request) {
	if err := services.Logout(h.store, h.tokens); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Send sends the OAuth result through the channel (only once).
func (h *OAuthHandler) Send(result OAuthResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving OAuth flow completion.
//
// Channel will receive exactly one result and then be closed.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.resultChan
}

// IndexHandler renders the landing page the callback redirects to.
func IndexHandler(tokens *services.TokenContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		title, message := "Not signed in", `<a href="`+LoginPath+`">Sign in with Spotify</a>`
		switch {
		case r.URL.Query().Get("error") != "":
			title, message = "Authorization Failed", html.EscapeString(r.URL.Query().Get("error"))
		case tokens.Authenticated():
			title, message = "✓ Authorization Successful", "You can close this window and return to the terminal."
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, indexPage, title, title, message)
	}
}

const indexPage = `<!DOCTYPE html>
<html>
<head>
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>
`
