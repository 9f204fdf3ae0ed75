package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

// CredentialRepository implements models.Repository[*models.Credential].
type CredentialRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.Credential] = (*CredentialRepository)(nil)

// NewCredentialRepository creates a new CredentialRepository with the given database connection
func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

const credentialColumns = "id, key, value, created_at, updated_at"

// Create inserts a new credential with a generated ID.
func (r *CredentialRepository) Create(c *models.Credential) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()
	_, err := r.db.Exec(
		"INSERT INTO credentials ("+credentialColumns+") VALUES (?, ?, ?, ?, ?)",
		id, c.Key(), c.Value(), c.CreatedAt(), c.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert credential: %w", err)
	}

	c.SetID(id)
	return nil
}

// Get retrieves a credential by ID.
func (r *CredentialRepository) Get(id string) (*models.Credential, error) {
	return r.scanOne(r.db.QueryRow("SELECT "+credentialColumns+" FROM credentials WHERE id = ?", id))
}

// GetByKey retrieves a credential by its key.
func (r *CredentialRepository) GetByKey(key string) (*models.Credential, error) {
	return r.scanOne(r.db.QueryRow("SELECT "+credentialColumns+" FROM credentials WHERE key = ?", key))
}

// Update replaces the value of an existing credential.
func (r *CredentialRepository) Update(c *models.Credential) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	c.SetUpdatedAt(now)

	result, err := r.db.Exec("UPDATE credentials SET value = ?, updated_at = ? WHERE id = ?", c.Value(), now, c.ID())
	if err != nil {
		return fmt.Errorf("failed to update credential: %w", err)
	}
	return requireRow(result, c.ID())
}

// Put creates the credential for key or overwrites its value.
func (r *CredentialRepository) Put(key, value string) (*models.Credential, error) {
	existing, err := r.GetByKey(key)
	switch {
	case err == nil:
		existing.SetValue(value)
		if err := r.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	case errors.Is(err, shared.ErrKeyNotFound):
		c := models.NewCredential(key, value)
		if err := r.Create(c); err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, err
	}
}

// Delete removes a credential by ID.
func (r *CredentialRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM credentials WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return requireRow(result, id)
}

// DeleteByKey removes the credential stored under key; a missing key is not an error.
func (r *CredentialRepository) DeleteByKey(key string) error {
	if _, err := r.db.Exec("DELETE FROM credentials WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}

// List retrieves credentials, optionally filtered by "key".
func (r *CredentialRepository) List(criteria map[string]any) ([]*models.Credential, error) {
	query := "SELECT " + credentialColumns + " FROM credentials"
	args := []any{}

	if key, ok := criteria["key"].(string); ok && key != "" {
		query += " WHERE key = ?"
		args = append(args, key)
	}
	query += " ORDER BY created_at ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query credentials: %w", err)
	}
	defer rows.Close()

	var out []*models.Credential
	for rows.Next() {
		c, err := scanCredential(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credential: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return out, nil
}

func (r *CredentialRepository) scanOne(row *sql.Row) (*models.Credential, error) {
	c, err := scanCredential(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan credential: %w", err)
	}
	return c, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCredential(s scanner) (*models.Credential, error) {
	var (
		id        string
		key       string
		value     string
		createdAt time.Time
		updatedAt time.Time
	)
	if err := s.Scan(&id, &key, &value, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return models.RestoreCredential(id, key, value, createdAt, updatedAt), nil
}

func requireRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: credential %s", shared.ErrKeyNotFound, id)
	}
	return nil
}
