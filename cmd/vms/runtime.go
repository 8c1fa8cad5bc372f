package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/vms-predict/internal/artifact"
	"github.com/Veraticus/vms-predict/internal/engine"
	"github.com/Veraticus/vms-predict/internal/metrics"
	"github.com/Veraticus/vms-predict/internal/storage"
)

// runtime is an engine plus the resources it holds for one command run.
type runtime struct {
	engine   *engine.Engine
	store    *storage.SQLiteStorage
	recorder *metrics.Recorder
	app      *app
}

// openStore opens and migrates the configured database, or returns nil when
// none is configured.
func (a *app) openStore(ctx context.Context) (*storage.SQLiteStorage, error) {
	if a.settings.StoragePath == "" {
		return nil, nil
	}
	store, err := storage.NewSQLiteStorage(a.settings.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	a.logger.Debug("Prediction store ready", "database", store.Path())
	return store, nil
}

// newRuntime builds the engine from settings. Storage problems degrade to
// running without cache and history; they never block a prediction.
func (a *app) newRuntime(ctx context.Context) *runtime {
	s := a.settings

	cfg := engine.DefaultConfig()
	cfg.LoadOptions = []artifact.Option{artifact.WithMinSize(s.ModelMinSize)}
	cfg.CacheTTL = s.CacheTTL
	cfg.MinConfidence = s.MinConfidence
	cfg.FallbackRules = s.FallbackRules
	if s.NoCache {
		cfg.CacheTTL = 0
	}

	rt := &runtime{app: a}
	opts := []engine.Option{engine.WithLogger(a.logger)}

	store, err := a.openStore(ctx)
	if err != nil {
		a.logger.Warn("Prediction history disabled", "database", s.StoragePath, "error", err)
	} else if store != nil {
		rt.store = store
		opts = append(opts, engine.WithStore(store))
	}

	if s.MetricsTextfile != "" {
		rt.recorder = metrics.NewRecorder()
		opts = append(opts, engine.WithRecorder(rt.recorder))
	}

	rt.engine = engine.New(cfg, opts...)
	return rt
}

// Close flushes metrics and releases the database.
func (rt *runtime) Close() {
	if err := rt.recorder.WriteTextfile(rt.app.settings.MetricsTextfile); err != nil {
		rt.app.logger.Warn("Failed to write metrics", "error", err)
	}
	if rt.store != nil {
		if err := rt.store.Close(); err != nil {
			rt.app.logger.Warn("Failed to close database", "error", err)
		}
	}
}
