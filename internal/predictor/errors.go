package predictor

import (
	"errors"
	"fmt"
)

// Kind classifies terminal pipeline failures.
type Kind int

// Failure kinds, in pipeline order.
const (
	KindArtifact Kind = iota + 1
	KindFeature
	KindPrediction
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindArtifact:
		return "artifact"
	case KindFeature:
		return "feature"
	case KindPrediction:
		return "prediction"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is a terminal failure: the pipeline could not produce a prediction.
// Per-field and per-stage problems never become an Error; they are recorded as
// fallbacks on the result instead.
type Error struct {
	Err  error
	Kind Kind
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindArtifact:
		return fmt.Sprintf("Could not load model: %v", e.Err)
	case KindFeature:
		return fmt.Sprintf("Prediction failed: Feature preparation failed: %v", e.Err)
	case KindDecode:
		return fmt.Sprintf("Label decoding error: %v", e.Err)
	default:
		return fmt.Sprintf("Prediction failed: %v", e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of a pipeline error, or 0 if err is not one.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}
