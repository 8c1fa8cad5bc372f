package features_test

import (
	"testing"

	"github.com/Veraticus/vms-predict/internal/artifact"
	"github.com/Veraticus/vms-predict/internal/features"
	"github.com/Veraticus/vms-predict/internal/model"
	"github.com/Veraticus/vms-predict/internal/preprocess"
	"github.com/Veraticus/vms-predict/internal/record"
	"github.com/Veraticus/vms-predict/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assemble(raw map[string]any, a *artifact.Artifact) features.Assembly {
	return features.Assemble(features.Derive(record.Normalize(raw)), a.Schema)
}

func statuses(m features.Matrix) map[string]features.Status {
	out := make(map[string]features.Status, len(m.Outcomes))
	for _, o := range m.Outcomes {
		out[o.Stage] = o.Status
	}
	return out
}

func TestTransform_FullArtifact(t *testing.T) {
	a := testutil.LoadArtifact(t, testutil.BrakeBundle())

	m, err := features.Transform(assemble(testutil.BrakeRecord(), a), a)
	require.NoError(t, err)

	assert.Equal(t, testutil.SelectedWidth, m.Cols())
	assert.Equal(t, map[string]features.Status{
		model.StageNumeric:     features.StatusApplied,
		model.StageCategorical: features.StatusApplied,
		model.StageText:        features.StatusApplied,
		model.StageSelection:   features.StatusApplied,
	}, statuses(m))
	assert.Empty(t, m.Fallbacks())
}

func TestTransform_NoTransformers(t *testing.T) {
	a := &artifact.Artifact{Schema: artifact.Schema{
		Numerical: []string{record.Odometer, record.Priority},
	}}
	raw := map[string]any{record.Odometer: 150000, record.Priority: 3}

	m, err := features.Transform(assemble(raw, a), a)
	require.NoError(t, err)

	assert.Equal(t, []float64{150000, 3}, m.Values)
	st := statuses(m)
	assert.Equal(t, features.StatusFallback, st[model.StageNumeric])
	assert.Equal(t, features.StatusSkipped, st[model.StageCategorical])
	assert.Equal(t, features.StatusSkipped, st[model.StageText])
	assert.Equal(t, features.StatusSkipped, st[model.StageSelection])
	assert.NotEmpty(t, m.Fallbacks())
}

func TestTransform_LegacyArtifactZeroFillsBuiltInColumns(t *testing.T) {
	a := testutil.LoadArtifact(t, testutil.LegacyBundle())

	m, err := features.Transform(assemble(map[string]any{}, a), a)
	require.NoError(t, err)
	assert.Equal(t, len(features.LegacyNumerical), m.Cols())
}

func TestTransform_NumericFailureZeroFillsRawValues(t *testing.T) {
	a := &artifact.Artifact{
		Schema:           artifact.Schema{Numerical: []string{record.Odometer, record.Priority}},
		NumericalImputer: &preprocess.Imputer{Statistics: []float64{1, 2, 3}},
	}
	raw := map[string]any{record.Odometer: 5000, record.Priority: 1}

	m, err := features.Transform(assemble(raw, a), a)
	require.NoError(t, err)

	assert.Equal(t, []float64{5000, 1}, m.Values)
	assert.Equal(t, features.StatusFallback, statuses(m)[model.StageNumeric])
}

func TestTransform_CategoricalFailureDropsStage(t *testing.T) {
	a := &artifact.Artifact{
		Schema: artifact.Schema{
			Numerical:   []string{record.Odometer},
			Categorical: []string{record.StatusEncoded, record.MrTypeEncoded},
		},
		CategoricalImputer: &preprocess.Imputer{Statistics: []float64{1}},
	}

	m, err := features.Transform(assemble(map[string]any{}, a), a)
	require.NoError(t, err)

	assert.Equal(t, 1, m.Cols())
	assert.Equal(t, features.StatusDropped, statuses(m)[model.StageCategorical])
}

func TestTransform_SelectorFailurePassesMatrixThrough(t *testing.T) {
	b := testutil.BrakeBundle()
	b.FeatureSelector = &preprocess.Selector{Support: []bool{true, false}}
	a := testutil.LoadArtifact(t, b)

	m, err := features.Transform(assemble(testutil.BrakeRecord(), a), a)
	require.NoError(t, err)

	assert.Equal(t, testutil.SelectedWidth+2, m.Cols())
	assert.Equal(t, features.StatusFallback, statuses(m)[model.StageSelection])
}

func TestTransform_TextFailureDropsStage(t *testing.T) {
	b := testutil.BrakeBundle()
	b.TFIDF.Norm = "max"
	b.FeatureSelector = nil
	a := testutil.LoadArtifact(t, b)

	m, err := features.Transform(assemble(testutil.BrakeRecord(), a), a)
	require.NoError(t, err)

	assert.Equal(t, len(testutil.Numerical)+len(testutil.Categorical), m.Cols())
	assert.Equal(t, features.StatusDropped, statuses(m)[model.StageText])
}

func TestTransform_AllStagesFail(t *testing.T) {
	a := &artifact.Artifact{
		Schema: artifact.Schema{
			Numerical:   []string{"tyre_pressure"},
			Categorical: []string{record.StatusEncoded},
		},
		CategoricalImputer: &preprocess.Imputer{Statistics: []float64{1, 2}},
		TextVectorizer:     &preprocess.TfidfVectorizer{},
	}

	_, err := features.Transform(assemble(map[string]any{}, a), a)
	require.ErrorIs(t, err, features.ErrNoFeatures)
	assert.Equal(t, "no features could be processed successfully", err.Error())
}

// panicky is a transformer whose parameters are malformed badly enough to
// panic.
type panicky struct{}

func (panicky) Transform([]float64) ([]float64, error) {
	var row []float64
	return []float64{row[3]}, nil
}

func TestTransform_TransformerPanicIsContained(t *testing.T) {
	a := &artifact.Artifact{
		Schema:          artifact.Schema{Numerical: []string{record.Odometer}},
		NumericalScaler: panicky{},
	}

	m, err := features.Transform(assemble(map[string]any{}, a), a)
	require.NoError(t, err)
	assert.Equal(t, features.StatusFallback, statuses(m)[model.StageNumeric])
	assert.Equal(t, []float64{100000}, m.Values)
}
