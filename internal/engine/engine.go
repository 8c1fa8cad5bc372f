// Package engine orchestrates a prediction request end to end: artifact
// loading, the prediction cache, the ML pipeline, the optional rule-based
// fallback and prediction history.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/Veraticus/vms-predict/internal/artifact"
	"github.com/Veraticus/vms-predict/internal/model"
	"github.com/Veraticus/vms-predict/internal/predictor"
	"github.com/Veraticus/vms-predict/internal/record"
	"github.com/Veraticus/vms-predict/internal/rules"
	"github.com/Veraticus/vms-predict/internal/storage"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// RulesModelType is reported as the model type of rule-based predictions.
const RulesModelType = "AI-Enhanced Rules"

// Config holds engine settings.
type Config struct {
	LoadOptions   []artifact.Option
	CacheTTL      time.Duration
	MinConfidence float64
	FallbackRules bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		CacheTTL:      2 * time.Hour,
		MinConfidence: model.AcceptableConfidence,
	}
}

type loaded struct {
	artifact *artifact.Artifact
	err      error
}

// Engine produces predictions. It is safe for sequential reuse across many
// records; artifacts are loaded once per path.
type Engine struct {
	store     Store
	recorder  Recorder
	logger    *slog.Logger
	pipeline  *predictor.Pipeline
	now       func() time.Time
	artifacts map[string]loaded
	cfg       Config
	mu        sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithStore enables the prediction cache and history.
func WithStore(s Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithRecorder enables metrics.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithLogger sets the engine and pipeline logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an engine.
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:       cfg,
		logger:    slog.Default(),
		now:       time.Now,
		artifacts: make(map[string]loaded),
	}
	for _, opt := range opts {
		opt(e)
	}

	pipeOpts := []predictor.Option{predictor.WithLogger(e.logger), predictor.WithClock(e.now)}
	if e.recorder != nil {
		pipeOpts = append(pipeOpts, predictor.WithObserver(e.recorder))
	}
	e.pipeline = predictor.NewPipeline(pipeOpts...)
	return e
}

// Artifact loads the artifact at path, reusing earlier loads of the same path.
// Failures are returned as *predictor.Error of KindArtifact.
func (e *Engine) Artifact(path string) (*artifact.Artifact, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if l, ok := e.artifacts[path]; ok {
		return l.artifact, l.err
	}

	opts := append([]artifact.Option{artifact.WithLogger(e.logger)}, e.cfg.LoadOptions...)
	a, err := artifact.Load(path, opts...)
	if err != nil {
		err = &predictor.Error{Kind: predictor.KindArtifact, Err: err}
	}
	e.artifacts[path] = loaded{artifact: a, err: err}
	return a, err
}

// Predict produces a prediction for raw using the artifact at modelPath.
func (e *Engine) Predict(ctx context.Context, raw map[string]any, modelPath string) (*model.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recordHash := hashRecord(raw)

	a, err := e.Artifact(modelPath)
	var p *model.Prediction
	if err == nil {
		p, err = e.predictML(ctx, raw, a, recordHash)
	}

	if err != nil {
		kind := predictor.KindOf(err)
		e.observeFailure(string(model.MethodML), kind.String())
		if !e.cfg.FallbackRules {
			return nil, err
		}
		e.logger.Warn("ML prediction failed, using rules", "error", err)
		p = e.predictRules(raw, err.Error())
	} else if e.cfg.FallbackRules && p.Confidence < e.cfg.MinConfidence {
		e.logger.Warn("ML confidence below threshold, using rules",
			"confidence", p.Confidence, "threshold", e.cfg.MinConfidence)
		p = e.predictRules(raw, fmt.Sprintf("ML confidence %.3f below %.2f", p.Confidence, e.cfg.MinConfidence))
	}

	p.ID = uuid.NewString()
	if e.recorder != nil {
		e.recorder.ObservePrediction(string(p.Method), p.Confidence)
	}
	e.saveHistory(ctx, raw, a, recordHash, p)

	e.logger.Info("Prediction complete",
		"category", p.Category,
		"confidence", p.Confidence,
		"method", p.Method,
		"quality", p.Quality,
		"fallbacks", len(p.Fallbacks),
		"from_cache", p.FromCache)
	return p, nil
}

func (e *Engine) predictML(ctx context.Context, raw map[string]any, a *artifact.Artifact, recordHash string) (*model.Prediction, error) {
	key := recordHash + ":" + a.Checksum
	if cached := e.cached(ctx, key); cached != nil {
		return cached, nil
	}

	p, err := e.pipeline.Run(raw, a)
	if err != nil {
		return nil, err
	}

	if e.store != nil && e.cfg.CacheTTL > 0 {
		if err := e.store.CachePrediction(ctx, key, p, e.now().Add(e.cfg.CacheTTL)); err != nil {
			e.logger.Warn("Failed to cache prediction", "error", err)
		}
	}
	return p, nil
}

func (e *Engine) cached(ctx context.Context, key string) *model.Prediction {
	if e.store == nil || e.cfg.CacheTTL <= 0 {
		return nil
	}
	p, err := e.store.GetCachedPrediction(ctx, key, e.now())
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			e.logger.Warn("Failed to read prediction cache", "error", err)
		}
		return nil
	}
	e.logger.Debug("Using cached prediction", "key", key)
	p.FromCache = true
	p.Timestamp = e.now().Format(time.RFC3339Nano)
	return p
}

func (e *Engine) predictRules(raw map[string]any, mlError string) *model.Prediction {
	rec := record.Normalize(raw)
	a := rules.Assess(rec)
	score := a.RiskScore

	status, ok := raw[record.Status]
	if !ok || status == nil {
		status = 2
	}

	return &model.Prediction{
		Category:   a.Category,
		Confidence: a.Confidence,
		Timestamp:  e.now().Format(time.RFC3339Nano),
		ModelType:  RulesModelType,
		Method:     model.MethodRules,
		StatusUsed: status,
		Quality:    model.GradeConfidence(a.Confidence),
		Reasoning:  a.Reasoning,
		RiskScore:  &score,
		MLError:    mlError,
		Fallbacks:  rec.Fallbacks,
	}
}

func (e *Engine) saveHistory(ctx context.Context, raw map[string]any, a *artifact.Artifact, recordHash string, p *model.Prediction) {
	if e.store == nil {
		return
	}

	vehicle, _ := record.Normalize(raw).String(record.Vehicle)
	entry := &model.HistoryEntry{
		ID:            p.ID,
		RecordHash:    recordHash,
		Vehicle:       vehicle,
		Category:      p.Category,
		Confidence:    p.Confidence,
		Method:        p.Method,
		Quality:       p.Quality,
		ModelType:     p.ModelType,
		FeatureCount:  p.FeatureCount,
		FallbackCount: len(p.Fallbacks),
		FromCache:     p.FromCache,
		CreatedAt:     e.now(),
	}
	if a != nil {
		entry.ModelChecksum = a.Checksum
	}
	if err := e.store.SavePrediction(ctx, entry); err != nil {
		e.logger.Warn("Failed to save prediction history", "error", err)
	}
}

func (e *Engine) observeFailure(method, kind string) {
	if e.recorder != nil {
		e.recorder.ObserveFailure(method, kind)
	}
}

// hashRecord identifies a raw record by content. Map keys are marshaled in
// sorted order, so equal records hash equally.
func hashRecord(raw map[string]any) string {
	data, err := json.Marshal(raw)
	if err != nil {
		data = []byte(fmt.Sprint(raw))
	}
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}
