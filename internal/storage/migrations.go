package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Prediction history",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS predictions (
					id TEXT PRIMARY KEY,
					record_hash TEXT NOT NULL,
					vehicle TEXT NOT NULL,
					category TEXT NOT NULL,
					confidence REAL NOT NULL DEFAULT 0,
					method TEXT NOT NULL,
					quality TEXT,
					model_type TEXT,
					model_checksum TEXT,
					feature_count INTEGER NOT NULL DEFAULT 0,
					fallback_count INTEGER NOT NULL DEFAULT 0,
					from_cache INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at)`,
				`CREATE INDEX IF NOT EXISTS idx_predictions_vehicle ON predictions(vehicle)`,
			}
			return execAll(tx, queries)
		},
	},
	{
		Version:     2,
		Description: "Prediction cache",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS prediction_cache (
					cache_key TEXT PRIMARY KEY,
					payload TEXT NOT NULL,
					expires_at DATETIME NOT NULL,
					created_at DATETIME NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_prediction_cache_expires_at ON prediction_cache(expires_at)`,
			}
			return execAll(tx, queries)
		},
	},
}

func execAll(tx *sql.Tx, queries []string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query '%s': %w", query, err)
		}
	}
	return nil
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Debug("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
