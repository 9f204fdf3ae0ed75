package services

import "sync"

// TokenContext holds the current user access token for one session.
//
// The zero value is unusable; create one with [NewTokenContext].
type TokenContext struct {
	mu    sync.RWMutex
	token string
}

// NewTokenContext returns an empty, unauthenticated context.
func NewTokenContext() *TokenContext {
	return &TokenContext{}
}

// Authenticate replaces the held token unconditionally. The token's shape is not validated.
func (t *TokenContext) Authenticate(token string) {
	t.mu.Lock()
	t.token = token
	t.mu.Unlock()
}

// Clear forgets the held token.
func (t *TokenContext) Clear() {
	t.Authenticate("")
}

// Authenticated reports whether a token is held.
func (t *TokenContext) Authenticated() bool {
	_, ok := t.bearer()
	return ok
}

func (t *TokenContext) bearer() (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.token, t.token != ""
}

// TokenPersister is the external store the user token survives restarts in.
type TokenPersister interface {
	LoadToken() (string, error)
	SaveToken(token string) error
	ClearToken() error
}

// RestoreSession loads a persisted token into tokens and reports whether one was found.
func RestoreSession(store TokenPersister, tokens *TokenContext) (bool, error) {
	token, err := store.LoadToken()
	if err != nil {
		return false, err
	}
	if token == "" {
		return false, nil
	}
	tokens.Authenticate(token)
	return true, nil
}

// Login authenticates tokens and persists token.
func Login(store TokenPersister, tokens *TokenContext, token string) error {
	if err := store.SaveToken(token); err != nil {
		return err
	}
	tokens.Authenticate(token)
	return nil
}

// Logout clears tokens and removes the persisted copy.
func Logout(store TokenPersister, tokens *TokenContext) error {
	tokens.Clear()
	return store.ClearToken()
}
