// Package predictor runs the inference pipeline for one maintenance request:
// normalize, derive, assemble, transform, predict and format. The pipeline is
// strictly linear; each step either hands a value forward or ends the run
// with a terminal *Error.
package predictor

import (
	"log/slog"
	"time"

	"github.com/Veraticus/vms-predict/internal/artifact"
	"github.com/Veraticus/vms-predict/internal/features"
	"github.com/Veraticus/vms-predict/internal/model"
	"github.com/Veraticus/vms-predict/internal/record"
)

// StageObserver is notified of every transform stage outcome.
type StageObserver interface {
	ObserveStage(stage, status string)
}

// Pipeline produces predictions from raw records.
type Pipeline struct {
	logger   *slog.Logger
	observer StageObserver
	now      func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger fallbacks are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithObserver registers a stage observer.
func WithObserver(o StageObserver) Option {
	return func(p *Pipeline) { p.observer = o }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPipeline creates a pipeline.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run predicts the maintenance category of raw using a.
func (p *Pipeline) Run(raw map[string]any, a *artifact.Artifact) (*model.Prediction, error) {
	if a == nil {
		return nil, &Error{Kind: KindArtifact, Err: artifact.ErrIncomplete}
	}

	rec := record.Normalize(raw)
	set := features.Derive(rec)
	asm := features.Assemble(set, a.Schema)

	m, err := features.Transform(asm, a)
	p.observe(m.Outcomes)
	if err != nil {
		p.logger.Warn("Feature preparation failed", "error", err, "stages", len(m.Outcomes))
		return nil, &Error{Kind: KindFeature, Err: err}
	}

	out, err := Predict(m, a)
	if err != nil {
		p.logger.Warn("Prediction failed", "kind", KindOf(err).String(), "error", err)
		return nil, err
	}

	fallbacks := append(asm.Fallbacks, m.Fallbacks()...)
	fallbacks = append(fallbacks, out.Fallbacks...)
	for _, f := range fallbacks {
		p.logger.Debug("Prediction degraded", "stage", f.Stage, "field", f.Field, "reason", f.Reason)
	}

	status, ok := raw[record.Status]
	if !ok || status == nil {
		status = 2
	}

	return &model.Prediction{
		Category:     out.Category,
		Confidence:   out.Confidence,
		Timestamp:    p.now().Format(time.RFC3339Nano),
		ModelType:    a.ModelType(),
		Method:       model.MethodML,
		FeatureCount: m.Cols(),
		StatusUsed:   status,
		Distribution: out.Distribution,
		Fallbacks:    fallbacks,
		Quality:      model.GradeConfidence(out.Confidence),
	}, nil
}

func (p *Pipeline) observe(outcomes []features.Outcome) {
	if p.observer == nil {
		return
	}
	for _, o := range outcomes {
		p.observer.ObserveStage(o.Stage, string(o.Status))
	}
}
