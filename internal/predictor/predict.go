package predictor

import (
	"fmt"
	"math"

	"github.com/Veraticus/vms-predict/internal/artifact"
	"github.com/Veraticus/vms-predict/internal/features"
	"github.com/Veraticus/vms-predict/internal/model"
)

// DefaultConfidence is reported when the classifier cannot estimate
// probabilities.
const DefaultConfidence = 0.75

// Outcome is the decoded classifier output for one feature row.
type Outcome struct {
	Distribution map[string]float64
	Category     string
	Fallbacks    []model.Fallback
	Confidence   float64
}

// Predict runs the artifact's classifier on m and decodes the label.
func Predict(m features.Matrix, a *artifact.Artifact) (Outcome, error) {
	idx, err := a.Classifier.Predict(m.Values)
	if err != nil {
		return Outcome{}, &Error{Kind: KindPrediction, Err: err}
	}

	out := Outcome{Confidence: DefaultConfidence}

	var proba []float64
	if a.Probabilistic == nil {
		out.Fallbacks = append(out.Fallbacks, model.Fallback{
			Stage:  model.StageConfidence,
			Reason: fmt.Sprintf("classifier has no probability estimate, using %.2f", DefaultConfidence),
		})
	} else if proba, err = a.Probabilistic.PredictProba(m.Values); err != nil {
		proba = nil
		out.Fallbacks = append(out.Fallbacks, model.Fallback{
			Stage:  model.StageConfidence,
			Reason: fmt.Sprintf("probability estimate failed, using %.2f: %v", DefaultConfidence, err),
		})
	} else if !finite(proba) {
		proba = nil
		out.Fallbacks = append(out.Fallbacks, model.Fallback{
			Stage:  model.StageConfidence,
			Reason: fmt.Sprintf("probability estimate not finite, using %.2f", DefaultConfidence),
		})
	} else if len(proba) > 0 {
		out.Confidence = maxOf(proba)
	}

	category, err := a.Labels.Decode(idx)
	if err != nil {
		return Outcome{}, &Error{Kind: KindDecode, Err: err}
	}
	out.Category = category

	if proba != nil && len(proba) == len(a.Labels.Classes) {
		out.Distribution = make(map[string]float64, len(proba))
		for i, class := range a.Labels.Classes {
			out.Distribution[class] = proba[i]
		}
	}
	return out, nil
}

func finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func maxOf(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
