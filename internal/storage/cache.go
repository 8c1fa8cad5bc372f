package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/vms-predict/internal/model"
)

// GetCachedPrediction returns the unexpired cached prediction for key, or
// ErrNotFound.
func (s *SQLiteStorage) GetCachedPrediction(ctx context.Context, key string, now time.Time) (*model.Prediction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(key, "key"); err != nil {
		return nil, err
	}

	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM prediction_cache WHERE cache_key = ? AND expires_at > ?`,
		key, now.UTC(),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: cache key %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached prediction: %w", err)
	}

	var p model.Prediction
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, fmt.Errorf("failed to decode cached prediction: %w", err)
	}
	return &p, nil
}

// CachePrediction stores p under key until expires.
func (s *SQLiteStorage) CachePrediction(ctx context.Context, key string, p *model.Prediction, expires time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}
	if err := validatePrediction(p); err != nil {
		return err
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode prediction: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO prediction_cache (cache_key, payload, expires_at, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			payload = excluded.payload,
			expires_at = excluded.expires_at,
			created_at = excluded.created_at`,
		key, string(payload), expires.UTC(), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to cache prediction: %w", err)
	}
	return nil
}

// PurgeExpiredCache deletes cache entries that expired before now and reports
// how many were removed.
func (s *SQLiteStorage) PurgeExpiredCache(ctx context.Context, now time.Time) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var removed int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM prediction_cache WHERE expires_at <= ?`, now.UTC())
		if err != nil {
			return fmt.Errorf("failed to purge cache: %w", err)
		}
		removed, err = res.RowsAffected()
		return err
	})
	return removed, err
}
