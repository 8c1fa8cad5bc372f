// Package preprocess implements the persisted preprocessing objects that a
// trained model artifact carries: imputers, a standard scaler, a TF-IDF text
// vectorizer, a column selector and the label encoder.
//
// Every transformer operates on a single row. Transformers never mutate their
// input and report shape problems as errors so that callers can decide how to
// degrade.
package preprocess

import (
	"errors"
	"fmt"
)

// Transformer errors.
var (
	ErrWidthMismatch = errors.New("feature width mismatch")
	ErrNotFitted     = errors.New("transformer is not fitted")
	ErrUnknownLabel  = errors.New("unknown label")
	ErrLabelRange    = errors.New("label code out of range")
)

// RowTransformer maps one numeric row to another.
type RowTransformer interface {
	Transform(row []float64) ([]float64, error)
}

// TextTransformer turns free text into a fixed-width numeric row.
type TextTransformer interface {
	Transform(doc string) ([]float64, error)
	Width() int
}

func widthError(want, got int) error {
	return fmt.Errorf("%w: expected %d columns, got %d", ErrWidthMismatch, want, got)
}
