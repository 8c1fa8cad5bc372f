package preprocess

import (
	"fmt"
	"math"
)

// Imputation strategies recorded by the training pipeline.
const (
	StrategyMedian       = "median"
	StrategyMostFrequent = "most_frequent"
	StrategyMean         = "mean"
	StrategyConstant     = "constant"
)

// Imputer replaces missing (NaN) values with per-column statistics learned at
// training time.
type Imputer struct {
	Strategy   string
	Statistics []float64
}

// Transform fills NaN entries of row. The row must have exactly one value per
// learned statistic.
func (im *Imputer) Transform(row []float64) ([]float64, error) {
	if im == nil || len(im.Statistics) == 0 {
		return nil, fmt.Errorf("imputer: %w", ErrNotFitted)
	}
	if len(row) != len(im.Statistics) {
		return nil, fmt.Errorf("imputer: %w", widthError(len(im.Statistics), len(row)))
	}

	out := make([]float64, len(row))
	for i, v := range row {
		if math.IsNaN(v) {
			stat := im.Statistics[i]
			if math.IsNaN(stat) {
				return nil, fmt.Errorf("imputer: column %d has no learned %s statistic", i, im.Strategy)
			}
			v = stat
		}
		out[i] = v
	}
	return out, nil
}
