// Package storage provides the persistence layer for prediction history and
// the prediction cache.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/vms-predict/internal/model"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrNilParameter      = errors.New("parameter cannot be nil")
	ErrInvalidPrediction = errors.New("invalid prediction")
	ErrNotFound          = errors.New("not found")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateHistoryEntry validates a history entry before it is stored.
func validateHistoryEntry(e *model.HistoryEntry) error {
	if e == nil {
		return fmt.Errorf("%w: history entry", ErrNilParameter)
	}
	if e.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidPrediction)
	}
	if e.Category == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidPrediction)
	}
	if e.Confidence < 0 || e.Confidence > 1 {
		return fmt.Errorf("%w: confidence %.2f outside [0,1]", ErrInvalidPrediction, e.Confidence)
	}
	if e.CreatedAt.IsZero() {
		return fmt.Errorf("%w: missing creation time", ErrInvalidPrediction)
	}
	return nil
}

// validatePrediction validates a prediction before it is cached.
func validatePrediction(p *model.Prediction) error {
	if p == nil {
		return fmt.Errorf("%w: prediction", ErrNilParameter)
	}
	if p.Category == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidPrediction)
	}
	return nil
}
