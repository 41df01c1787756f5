package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "data", "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewCacheRepository(openTestDB(t))

	_, ok, err := repo.Get(ctx, SettingsKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set(ctx, SettingsKey, []byte(`{"theme":"light"}`)))
	require.NoError(t, repo.Set(ctx, SettingsKey, []byte(`{"theme":"dark"}`)))

	value, ok, err := repo.Get(ctx, SettingsKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"theme":"dark"}`, string(value))

	require.NoError(t, repo.Delete(ctx, SettingsKey))
	_, ok, err = repo.Get(ctx, SettingsKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	db, err := Open(DriverSQLite, path)
	require.NoError(t, err)
	require.NoError(t, NewCacheRepository(db).Set(ctx, GuestProgressKey, []byte(`{}`)))
	require.NoError(t, db.Close())

	db, err = Open(DriverSQLite, path)
	require.NoError(t, err)
	defer db.Close()

	value, ok, err := NewCacheRepository(db).Get(ctx, GuestProgressKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "{}", string(value))
}
