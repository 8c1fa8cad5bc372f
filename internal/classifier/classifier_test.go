package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stump(feature int, threshold, left, right float64) Tree {
	return Tree{
		Feature:   []int{feature, 0, 0},
		Threshold: []float64{threshold, 0, 0},
		Left:      []int{1, -1, -1},
		Right:     []int{2, -1, -1},
		Value:     []float64{0, left, right},
	}
}

func TestSpec_Build(t *testing.T) {
	tests := []struct {
		spec          *Spec
		wantErr       error
		name          string
		probabilistic bool
	}{
		{
			name: "logistic regression",
			spec: &Spec{Kind: KindLogistic, Linear: &Linear{
				Coef:      [][]float64{{1, 0}, {0, 1}},
				Intercept: []float64{0, 0},
			}},
			probabilistic: true,
		},
		{
			name: "gradient boosting",
			spec: &Spec{Kind: KindGradientBoosting, Boosted: &Boosted{
				Init:         []float64{0},
				Stages:       [][]Tree{{stump(0, 0.5, -1, 1)}},
				LearningRate: 0.1,
				NumFeatures:  2,
			}},
			probabilistic: true,
		},
		{
			name: "nearest centroid",
			spec: &Spec{Kind: KindNearestCentroid, Centroid: &Centroid{
				Centroids: [][]float64{{0, 0}, {1, 1}},
			}},
		},
		{
			name:    "nil spec",
			spec:    nil,
			wantErr: ErrInvalidModel,
		},
		{
			name:    "unknown kind",
			spec:    &Spec{Kind: "svm"},
			wantErr: ErrUnknownKind,
		},
		{
			name:    "kind without parameters",
			spec:    &Spec{Kind: KindLogistic},
			wantErr: ErrInvalidModel,
		},
		{
			name: "ragged coefficients",
			spec: &Spec{Kind: KindLogistic, Linear: &Linear{
				Coef:      [][]float64{{1, 0}, {0}},
				Intercept: []float64{0, 0},
			}},
			wantErr: ErrInvalidModel,
		},
		{
			name: "tree child out of range",
			spec: &Spec{Kind: KindGradientBoosting, Boosted: &Boosted{
				Init:         []float64{0},
				Stages:       [][]Tree{{{Feature: []int{0}, Threshold: []float64{0}, Left: []int{3}, Right: []int{4}, Value: []float64{0}}}},
				LearningRate: 0.1,
			}},
			wantErr: ErrInvalidModel,
		},
		{
			name: "single centroid",
			spec: &Spec{Kind: KindNearestCentroid, Centroid: &Centroid{
				Centroids: [][]float64{{0, 0}},
			}},
			wantErr: ErrInvalidModel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.spec.Build()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			_, ok := p.(ProbabilisticPredictor)
			assert.Equal(t, tt.probabilistic, ok)
		})
	}
}

func TestLinear_PredictProba(t *testing.T) {
	m := &Linear{
		Coef:      [][]float64{{2, 0}, {0, 2}, {0, 0}},
		Intercept: []float64{0, 0, 0.5},
	}

	proba, err := m.PredictProba([]float64{3, 0})
	require.NoError(t, err)
	require.Len(t, proba, 3)

	var sum float64
	for _, p := range proba {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-12)

	class, err := m.Predict([]float64{3, 0})
	require.NoError(t, err)
	assert.Equal(t, 0, class)

	class, err = m.Predict([]float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 2, class)
}

func TestLinear_Binary(t *testing.T) {
	m := &Linear{Coef: [][]float64{{1}}, Intercept: []float64{0}}
	assert.Equal(t, 2, m.NumClasses())

	proba, err := m.PredictProba([]float64{0})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, proba, 1e-12)

	class, err := m.Predict([]float64{4})
	require.NoError(t, err)
	assert.Equal(t, 1, class)
}

func TestLinear_WidthMismatch(t *testing.T) {
	m := &Linear{Coef: [][]float64{{1, 1}, {1, 1}}, Intercept: []float64{0, 0}}

	_, err := m.Predict([]float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrWidthMismatch)
}

func TestSoftmax_LargeScores(t *testing.T) {
	p := softmax([]float64{1000, 1000})
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, p, 1e-12)
}

func TestBoosted_Predict(t *testing.T) {
	m := &Boosted{
		Init: []float64{0, 0, 0},
		Stages: [][]Tree{
			{stump(0, 0.5, 2, -1), stump(1, 0.5, -1, 2), stump(0, 0.5, 0, 0)},
		},
		LearningRate: 1,
		NumFeatures:  2,
	}
	require.NoError(t, m.validate())
	assert.Equal(t, 3, m.NumClasses())

	tests := []struct {
		name string
		x    []float64
		want int
	}{
		{"low first feature favors class 0", []float64{0, 0}, 0},
		{"high second feature favors class 1", []float64{1, 1}, 1},
		{"neither favors class 2", []float64{1, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Predict(tt.x)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := m.Predict([]float64{1})
	assert.ErrorIs(t, err, ErrWidthMismatch)
}

func TestCentroid_Predict(t *testing.T) {
	m := &Centroid{Centroids: [][]float64{{0, 0}, {10, 10}}}

	class, err := m.Predict([]float64{9, 8})
	require.NoError(t, err)
	assert.Equal(t, 1, class)

	_, err = m.Predict([]float64{1})
	assert.ErrorIs(t, err, ErrWidthMismatch)
}
