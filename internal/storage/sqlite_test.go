package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func TestNewSQLiteStorage_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "vms.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)
}

func TestNewSQLiteStorage_RejectsEmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestNewSQLiteStorage_InMemory(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Migrate(context.Background()))
}

func TestMigrate(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	var version int
	require.NoError(t, store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
	assert.Equal(t, ExpectedSchemaVersion, version)

	for _, table := range []string{"predictions", "prediction_cache"} {
		var count int
		err := store.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s should exist", table)
	}

	// Running again is a no-op.
	require.NoError(t, store.Migrate(ctx))
}

func TestMigrate_NilContext(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	//nolint:staticcheck // deliberately passing nil
	err := store.Migrate(nil)
	assert.ErrorIs(t, err, ErrNilContext)
}
