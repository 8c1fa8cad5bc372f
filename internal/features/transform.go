package features

import (
	"errors"
	"fmt"
	"math"

	"github.com/Veraticus/vms-predict/internal/artifact"
	"github.com/Veraticus/vms-predict/internal/model"
	"github.com/Veraticus/vms-predict/internal/preprocess"
)

// ErrNoFeatures is returned when no stage produced any columns.
var ErrNoFeatures = errors.New("no features could be processed successfully")

// Status is the outcome of one transform stage.
type Status string

// Stage statuses.
const (
	StatusApplied  Status = "applied"
	StatusFallback Status = "fallback"
	StatusSkipped  Status = "skipped"
	StatusDropped  Status = "dropped"
)

// Outcome records what a stage did and, unless it applied cleanly, why.
type Outcome struct {
	Stage  string
	Status Status
	Reason string
	Width  int
}

// Matrix is the single-row feature matrix handed to the classifier, with the
// per-stage outcomes that shaped it.
type Matrix struct {
	Values   []float64
	Outcomes []Outcome
}

// Cols returns the matrix width.
func (m Matrix) Cols() int { return len(m.Values) }

// Fallbacks converts degraded stage outcomes into fallback records.
func (m Matrix) Fallbacks() []model.Fallback {
	var out []model.Fallback
	for _, o := range m.Outcomes {
		if o.Status == StatusApplied || o.Reason == "" {
			continue
		}
		out = append(out, model.Fallback{Stage: o.Stage, Reason: fmt.Sprintf("%s: %s", o.Status, o.Reason)})
	}
	return out
}

// Transform runs the artifact's transformers over asm. Numeric, categorical
// and text stages are independent: each either contributes columns or is
// dropped, and contributions are concatenated in that order to match the
// training-time layout. Only when every stage contributes nothing does
// Transform fail, with ErrNoFeatures.
func Transform(asm Assembly, a *artifact.Artifact) (Matrix, error) {
	var (
		m     Matrix
		parts [][]float64
	)

	record := func(o Outcome, part []float64) {
		o.Width = len(part)
		m.Outcomes = append(m.Outcomes, o)
		if len(part) > 0 {
			parts = append(parts, part)
		}
	}

	record(numericStage(asm.Numerical, a))
	record(categoricalStage(asm.Categorical, a))
	record(textStage(asm.Text, a))

	if len(parts) == 0 {
		return m, ErrNoFeatures
	}
	for _, p := range parts {
		m.Values = append(m.Values, p...)
	}

	if a.FeatureSelector == nil {
		m.Outcomes = append(m.Outcomes, Outcome{Stage: model.StageSelection, Status: StatusSkipped, Width: len(m.Values)})
		return m, nil
	}
	selected, err := safely(a.FeatureSelector.Transform, m.Values)
	if err != nil {
		m.Outcomes = append(m.Outcomes, Outcome{
			Stage:  model.StageSelection,
			Status: StatusFallback,
			Reason: "passing unselected matrix through: " + err.Error(),
			Width:  len(m.Values),
		})
		return m, nil
	}
	m.Values = selected
	m.Outcomes = append(m.Outcomes, Outcome{Stage: model.StageSelection, Status: StatusApplied, Width: len(selected)})
	return m, nil
}

func numericStage(cols Columns, a *artifact.Artifact) (Outcome, []float64) {
	o := Outcome{Stage: model.StageNumeric}
	if cols.Len() == 0 {
		o.Status, o.Reason = StatusSkipped, "no numeric columns available"
		return o, nil
	}

	row, err := imputeThenScale(cols.Values, a.NumericalImputer, a.NumericalScaler)
	if err != nil {
		o.Status, o.Reason = StatusFallback, "using zero-filled raw values: "+err.Error()
		return o, zeroFill(cols.Values)
	}
	o.Status = StatusApplied
	if a.NumericalImputer == nil || a.NumericalScaler == nil {
		o.Status, o.Reason = StatusFallback, missingTransformers(a.NumericalImputer == nil, a.NumericalScaler == nil)
	}
	return o, row
}

func imputeThenScale(values []float64, imputer, scaler preprocess.RowTransformer) ([]float64, error) {
	row := zeroFill(values)
	if imputer != nil {
		var err error
		if row, err = safely(imputer.Transform, values); err != nil {
			return nil, err
		}
	}
	if scaler != nil {
		return safely(scaler.Transform, row)
	}
	return row, nil
}

func missingTransformers(noImputer, noScaler bool) string {
	switch {
	case noImputer && noScaler:
		return "no imputer or scaler, zero-filled raw values"
	case noImputer:
		return "no imputer, zero-filled before scaling"
	default:
		return "no scaler, values left unscaled"
	}
}

func categoricalStage(cols Columns, a *artifact.Artifact) (Outcome, []float64) {
	o := Outcome{Stage: model.StageCategorical}
	if cols.Len() == 0 {
		o.Status, o.Reason = StatusSkipped, "no categorical columns available"
		return o, nil
	}
	if a.CategoricalImputer == nil {
		o.Status, o.Reason = StatusFallback, "no imputer, zero-filled raw values"
		return o, zeroFill(cols.Values)
	}

	row, err := safely(a.CategoricalImputer.Transform, cols.Values)
	if err != nil {
		o.Status, o.Reason = StatusDropped, err.Error()
		return o, nil
	}
	o.Status = StatusApplied
	return o, row
}

func textStage(text string, a *artifact.Artifact) (Outcome, []float64) {
	o := Outcome{Stage: model.StageText}
	if a.TextVectorizer == nil {
		o.Status = StatusSkipped
		return o, nil
	}

	row, err := safely(a.TextVectorizer.Transform, text)
	if err != nil {
		o.Status, o.Reason = StatusDropped, err.Error()
		return o, nil
	}
	o.Status = StatusApplied
	return o, row
}

// safely runs a transformer, turning a panic on malformed parameters into an
// error so that only the current stage is lost.
func safely[T any](fn func(T) ([]float64, error), in T) (out []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("transformer panic: %v", r)
		}
	}()
	return fn(in)
}

func zeroFill(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[i] = v
		}
	}
	return out
}
