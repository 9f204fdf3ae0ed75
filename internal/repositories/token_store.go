package repositories

import (
	"errors"

	"github.com/desertthunder/setlist/internal/shared"
)

// TokenStoreAdapter persists the user access token under [shared.AccessTokenKey].
//
// It satisfies services.TokenPersister.
type TokenStoreAdapter struct {
	repo *CredentialRepository
	key  string
}

// NewTokenStoreAdapter creates a TokenStoreAdapter over repo.
func NewTokenStoreAdapter(repo *CredentialRepository) *TokenStoreAdapter {
	return &TokenStoreAdapter{repo: repo, key: shared.AccessTokenKey}
}

// LoadToken returns the stored token, or "" when none has been saved.
func (a *TokenStoreAdapter) LoadToken() (string, error) {
	c, err := a.repo.GetByKey(a.key)
	if errors.Is(err, shared.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return c.Value(), nil
}

// SaveToken stores token, replacing any previous value.
func (a *TokenStoreAdapter) SaveToken(token string) error {
	_, err := a.repo.Put(a.key, token)
	return err
}

// ClearToken removes the stored token.
func (a *TokenStoreAdapter) ClearToken() error {
	return a.repo.DeleteByKey(a.key)
}
