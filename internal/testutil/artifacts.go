// Package testutil builds model artifacts for tests. Fixtures are small,
// hand-fitted bundles whose predictions are easy to reason about: the text
// vectorizer carries all the signal and numeric columns only exercise the
// transform stages.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/vms-predict/internal/artifact"
	"github.com/Veraticus/vms-predict/internal/classifier"
	"github.com/Veraticus/vms-predict/internal/features"
	"github.com/Veraticus/vms-predict/internal/preprocess"
	"github.com/Veraticus/vms-predict/internal/record"
)

// LoadOptions disables the minimum size check, which hand-built fixtures are
// far below.
var LoadOptions = []artifact.Option{artifact.WithMinSize(1)}

// Fixture class labels, in label-encoder order.
const (
	ClassBrake   = "brake_system"
	ClassEngine  = "engine_repair"
	ClassRoutine = "routine_maintenance"
)

// Numerical and Categorical are the schema columns of BrakeBundle.
var (
	Numerical = []string{
		record.Odometer,
		record.Priority,
		record.ServiceCount,
		record.AverageInterval,
		record.DaysSinceLast,
		record.ResponseDays,
		record.RequestHour,
		record.RequestDayOfWeek,
		record.RequestMonth,
		features.IsWeekend,
		features.IsBusinessHours,
		features.HighMaintenanceVehicle,
		features.VehicleAgeCategory,
	}
	Categorical = []string{
		record.BuildingEncoded,
		record.VehicleEncoded,
		record.StatusEncoded,
		record.MrTypeEncoded,
		features.ServiceFrequencyCategory,
	}
	Vocabulary = map[string]int{
		"brake":    0,
		"noise":    1,
		"engine":   2,
		"oil":      3,
		"tire":     4,
		"stopping": 5,
	}
)

// Matrix layout of BrakeBundle after selection. The selector drops the
// sixth and seventh numeric columns (response_days, request_hour).
const (
	droppedA      = 5
	droppedB      = 6
	rawWidth      = 13 + 5 + 6
	SelectedWidth = rawWidth - 2
	textOffset    = 13 + 5 - 2
)

// BrakeBundle returns a complete bundle with every optional transformer set.
// Descriptions mentioning brakes, engines or oil are classified as
// ClassBrake, ClassEngine and ClassRoutine respectively.
func BrakeBundle() *artifact.Bundle {
	support := make([]bool, rawWidth)
	for i := range support {
		support[i] = i != droppedA && i != droppedB
	}

	coef := make([][]float64, 3)
	for k := range coef {
		coef[k] = make([]float64, SelectedWidth)
	}
	coef[0][textOffset+Vocabulary["brake"]] = 5
	coef[0][textOffset+Vocabulary["stopping"]] = 2
	coef[1][textOffset+Vocabulary["engine"]] = 5
	coef[2][textOffset+Vocabulary["oil"]] = 5

	return &artifact.Bundle{
		FinalModel: &classifier.Spec{
			Kind:   classifier.KindLogistic,
			Linear: &classifier.Linear{Coef: coef, Intercept: []float64{0, 0, 0}},
		},
		LabelEncoder: preprocess.NewLabelEncoder([]string{ClassRoutine, ClassBrake, ClassEngine}),
		NumericalImputer: &preprocess.Imputer{
			Strategy:   preprocess.StrategyMedian,
			Statistics: []float64{150000, 2, 60, 4500, 45, 2, 11, 3, 6, 0, 1, 0, 0},
		},
		NumericalScaler: &preprocess.Scaler{
			Mean:  []float64{150000, 2, 60, 4500, 45, 2, 11, 3, 6, 0.3, 0.6, 0.2, 0.5},
			Scale: []float64{80000, 1, 40, 2000, 30, 2, 4, 2, 3, 0.5, 0.5, 0.4, 0.7},
		},
		CategoricalImputer: &preprocess.Imputer{
			Strategy:   preprocess.StrategyMostFrequent,
			Statistics: []float64{1, 1, 2, 3, 1},
		},
		TFIDF: &preprocess.TfidfVectorizer{
			Vocabulary: Vocabulary,
			IDF:        []float64{1, 1, 1, 1, 1, 1},
			Norm:       preprocess.NormL2,
			NgramMin:   1,
			NgramMax:   1,
			Lowercase:  true,
		},
		FeatureSelector: &preprocess.Selector{Support: support},
		ModelInfo: artifact.Info{
			ModelType:       "LogisticRegression",
			CVAccuracy:      0.91,
			TestAccuracy:    0.89,
			TrainingDate:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			FeatureCount:    SelectedWidth,
			TrainingSamples: 1200,
		},
		Schema: artifact.Schema{
			TextFeature: record.Description,
			Numerical:   Numerical,
			Categorical: Categorical,
			Version:     artifact.SchemaVersion,
		},
	}
}

// LegacyBundle returns a bundle that predates schema persistence: no declared
// columns and no transformers. Its classifier reads the built-in numeric
// column list and always favors ClassRoutine.
func LegacyBundle() *artifact.Bundle {
	width := len(features.LegacyNumerical)
	coef := make([][]float64, 3)
	for k := range coef {
		coef[k] = make([]float64, width)
	}
	return &artifact.Bundle{
		FinalModel: &classifier.Spec{
			Kind:   classifier.KindLogistic,
			Linear: &classifier.Linear{Coef: coef, Intercept: []float64{0, 0, 1}},
		},
		LabelEncoder: preprocess.NewLabelEncoder([]string{ClassBrake, ClassEngine, ClassRoutine}),
	}
}

// CentroidBundle returns BrakeBundle with a classifier that cannot estimate
// probabilities.
func CentroidBundle() *artifact.Bundle {
	b := BrakeBundle()
	centroids := make([][]float64, 3)
	for k := range centroids {
		centroids[k] = make([]float64, SelectedWidth)
	}
	centroids[0][textOffset+Vocabulary["brake"]] = 1
	centroids[1][textOffset+Vocabulary["engine"]] = 1
	centroids[2][textOffset+Vocabulary["oil"]] = 1
	b.FinalModel = &classifier.Spec{
		Kind:     classifier.KindNearestCentroid,
		Centroid: &classifier.Centroid{Centroids: centroids},
	}
	b.ModelInfo = artifact.Info{}
	return b
}

// WriteArtifact persists b in a temporary directory and returns its path.
func WriteArtifact(t *testing.T, b *artifact.Bundle) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "vms_model.bin")
	if err := artifact.Write(path, b); err != nil {
		t.Fatalf("failed to write artifact: %v", err)
	}
	return path
}

// LoadArtifact writes b and loads it back.
func LoadArtifact(t *testing.T, b *artifact.Bundle) *artifact.Artifact {
	t.Helper()

	a, err := artifact.Load(WriteArtifact(t, b), LoadOptions...)
	if err != nil {
		t.Fatalf("failed to load artifact: %v", err)
	}
	return a
}

// BrakeRecord is a maintenance request that BrakeBundle classifies as
// ClassBrake.
func BrakeRecord() map[string]any {
	return map[string]any{
		record.Odometer:      150000,
		record.Priority:      3,
		record.ServiceCount:  80,
		record.Description:   "Brake noise when stopping",
		record.Vehicle:       "VH-0042",
		record.Building:      "North Depot",
		record.StatusEncoded: 1,
		record.Status:        "Open",
	}
}
