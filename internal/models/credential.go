package models

import (
	"fmt"
	"strings"
	"time"
)

// Credential is a persisted key/value secret (e.g. the user access token under a fixed key).
type Credential struct {
	id        string
	key       string
	value     string
	createdAt time.Time
	updatedAt time.Time
}

// NewCredential creates an unsaved credential stamped with the current time.
func NewCredential(key, value string) *Credential {
	now := time.Now()
	return &Credential{key: key, value: value, createdAt: now, updatedAt: now}
}

// RestoreCredential rebuilds a credential from stored columns.
func RestoreCredential(id, key, value string, createdAt, updatedAt time.Time) *Credential {
	return &Credential{id: id, key: key, value: value, createdAt: createdAt, updatedAt: updatedAt}
}

func (c *Credential) ID() string { return c.id }
func (c *Credential) Key() string { return c.key }
func (c *Credential) Value() string { return c.value }
func (c *Credential) CreatedAt() time.Time { return c.createdAt }
func (c *Credential) UpdatedAt() time.Time { return c.updatedAt }

func (c *Credential) SetID(id string) { c.id = id }
func (c *Credential) SetValue(v string) { c.value = v }
func (c *Credential) SetUpdatedAt(t time.Time) { c.updatedAt = t }

// Validate requires a non-blank key; the value is opaque and may be anything.
func (c *Credential) Validate() error {
	if strings.TrimSpace(c.key) == "" {
		return fmt.Errorf("credential key is required")
	}
	return nil
}
