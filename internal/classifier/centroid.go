package classifier

import (
	"fmt"
	"math"
)

// Centroid assigns the class whose training centroid is nearest in Euclidean
// distance. It has no probability estimate.
type Centroid struct {
	Centroids [][]float64
}

func (m *Centroid) validate() error {
	if len(m.Centroids) < 2 {
		return fmt.Errorf("%w: need at least two centroids", ErrInvalidModel)
	}
	width := len(m.Centroids[0])
	for i, c := range m.Centroids {
		if len(c) == 0 || len(c) != width {
			return fmt.Errorf("%w: centroid %d has %d columns, want %d", ErrInvalidModel, i, len(c), width)
		}
	}
	return nil
}

// NumClasses reports how many classes the model separates.
func (m *Centroid) NumClasses() int {
	return len(m.Centroids)
}

// Predict returns the class of the nearest centroid.
func (m *Centroid) Predict(x []float64) (int, error) {
	if err := checkWidth(len(m.Centroids[0]), len(x)); err != nil {
		return 0, err
	}
	best, bestDist := 0, math.Inf(1)
	for k, c := range m.Centroids {
		var d float64
		for j := range c {
			diff := x[j] - c[j]
			d += diff * diff
		}
		if d < bestDist {
			best, bestDist = k, d
		}
	}
	return best, nil
}
