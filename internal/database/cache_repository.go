package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Cache keys shared with earlier clients
const (
	SettingsKey      = "vocabMasterSettings"
	GuestProgressKey = "vocabMasterProgress_guest"
)

// CacheRepository is a key/value store for JSON documents
type CacheRepository struct {
	db *DB
}

// NewCacheRepository creates a new repository instance
func NewCacheRepository(db *DB) *CacheRepository {
	return &CacheRepository{db: db}
}

// Get returns the stored document. ok is false when the key is absent.
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := r.db.GetContext(ctx, &value, r.db.Rebind("SELECT value FROM cache_entries WHERE key = ?"), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cache entry %s: %w", key, err)
	}
	return []byte(value), true, nil
}

// Set stores the document, replacing any previous value
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte) error {
	query := r.db.Rebind(`
		INSERT INTO cache_entries (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)
	if _, err := r.db.ExecContext(ctx, query, key, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to set cache entry %s: %w", key, err)
	}
	return nil
}

// Delete removes the key if present
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM cache_entries WHERE key = ?"), key); err != nil {
		return fmt.Errorf("failed to delete cache entry %s: %w", key, err)
	}
	return nil
}
