package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Veraticus/vms-predict/internal/model"
)

// DefaultHistoryLimit bounds RecentPredictions when no limit is given.
const DefaultHistoryLimit = 20

// SavePrediction appends one entry to the prediction history.
func (s *SQLiteStorage) SavePrediction(ctx context.Context, e *model.HistoryEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateHistoryEntry(e); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO predictions (
			id, record_hash, vehicle, category, confidence, method, quality,
			model_type, model_checksum, feature_count, fallback_count, from_cache, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.RecordHash, e.Vehicle, e.Category, e.Confidence, string(e.Method), string(e.Quality),
		e.ModelType, e.ModelChecksum, e.FeatureCount, e.FallbackCount, e.FromCache, e.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save prediction: %w", err)
	}
	return nil
}

// RecentPredictions returns the newest history entries first.
func (s *SQLiteStorage) RecentPredictions(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, record_hash, vehicle, category, confidence, method, quality,
			model_type, model_checksum, feature_count, fallback_count, from_cache, created_at
		FROM predictions
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.HistoryEntry
	for rows.Next() {
		var (
			e                            model.HistoryEntry
			method                       string
			quality, modelType, checksum sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.RecordHash, &e.Vehicle, &e.Category, &e.Confidence, &method, &quality,
			&modelType, &checksum, &e.FeatureCount, &e.FallbackCount, &e.FromCache, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		e.Method = model.Method(method)
		e.Quality = model.Quality(quality.String)
		e.ModelType = modelType.String
		e.ModelChecksum = checksum.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate predictions: %w", err)
	}
	return entries, nil
}
