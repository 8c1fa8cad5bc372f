package engine

import (
	"context"
	"time"

	"github.com/Veraticus/vms-predict/internal/model"
)

// Store persists prediction history and cached predictions.
type Store interface {
	GetCachedPrediction(ctx context.Context, key string, now time.Time) (*model.Prediction, error)
	CachePrediction(ctx context.Context, key string, p *model.Prediction, expires time.Time) error
	SavePrediction(ctx context.Context, e *model.HistoryEntry) error
}

// Recorder receives prediction metrics.
type Recorder interface {
	ObserveStage(stage, status string)
	ObservePrediction(method string, confidence float64)
	ObserveFailure(method, kind string)
}
