package preprocess

import "fmt"

// Scaler standardizes columns as (x - mean) / scale. A nil Mean disables
// centering and a nil Scale disables scaling; zero scales are treated as one,
// matching how constant columns are fitted.
type Scaler struct {
	Mean  []float64
	Scale []float64
}

// Transform standardizes row.
func (s *Scaler) Transform(row []float64) ([]float64, error) {
	if s == nil || (s.Mean == nil && s.Scale == nil) {
		return nil, fmt.Errorf("scaler: %w", ErrNotFitted)
	}
	if s.Mean != nil && len(s.Mean) != len(row) {
		return nil, fmt.Errorf("scaler: %w", widthError(len(s.Mean), len(row)))
	}
	if s.Scale != nil && len(s.Scale) != len(row) {
		return nil, fmt.Errorf("scaler: %w", widthError(len(s.Scale), len(row)))
	}

	out := make([]float64, len(row))
	for i, v := range row {
		if s.Mean != nil {
			v -= s.Mean[i]
		}
		if s.Scale != nil && s.Scale[i] != 0 {
			v /= s.Scale[i]
		}
		out[i] = v
	}
	return out, nil
}
