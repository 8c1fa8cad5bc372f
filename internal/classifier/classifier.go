// Package classifier provides the persisted classifiers a model artifact can
// carry. Each implementation is a PointPredictor; those that can estimate
// class probabilities also implement ProbabilisticPredictor. Callers resolve
// the capability once, when the artifact is loaded.
package classifier

import (
	"errors"
	"fmt"
	"math"
)

// Model kinds recorded in a Spec.
const (
	KindLogistic         = "logistic_regression"
	KindGradientBoosting = "gradient_boosting"
	KindNearestCentroid  = "nearest_centroid"
)

// Classifier errors.
var (
	ErrUnknownKind   = errors.New("unknown classifier kind")
	ErrInvalidModel  = errors.New("invalid classifier parameters")
	ErrWidthMismatch = errors.New("feature width mismatch")
)

// PointPredictor returns a single class index for a feature row.
type PointPredictor interface {
	Predict(x []float64) (int, error)
	NumClasses() int
}

// ProbabilisticPredictor additionally estimates a probability per class.
type ProbabilisticPredictor interface {
	PointPredictor
	PredictProba(x []float64) ([]float64, error)
}

// Spec is the persisted form of a classifier. Exactly one parameter block
// matching Kind must be set.
type Spec struct {
	Linear   *Linear
	Boosted  *Boosted
	Centroid *Centroid
	Kind     string
}

// Build validates the spec and returns the classifier it describes.
func (s *Spec) Build() (PointPredictor, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil spec", ErrInvalidModel)
	}

	var (
		p   PointPredictor
		err error
	)
	switch s.Kind {
	case KindLogistic:
		if s.Linear == nil {
			return nil, fmt.Errorf("%w: %s without linear parameters", ErrInvalidModel, s.Kind)
		}
		p, err = s.Linear, s.Linear.validate()
	case KindGradientBoosting:
		if s.Boosted == nil {
			return nil, fmt.Errorf("%w: %s without tree ensemble", ErrInvalidModel, s.Kind)
		}
		p, err = s.Boosted, s.Boosted.validate()
	case KindNearestCentroid:
		if s.Centroid == nil {
			return nil, fmt.Errorf("%w: %s without centroids", ErrInvalidModel, s.Kind)
		}
		p, err = s.Centroid, s.Centroid.validate()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func checkWidth(want, got int) error {
	if want != got {
		return fmt.Errorf("%w: model expects %d features, got %d", ErrWidthMismatch, want, got)
	}
	return nil
}

func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

// softmax converts raw scores to probabilities in a numerically stable way.
func softmax(scores []float64) []float64 {
	peak := scores[argmax(scores)]
	out := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		out[i] = math.Exp(s - peak)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
