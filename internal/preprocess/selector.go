package preprocess

import (
	"errors"
	"fmt"
)

// Selector keeps the columns flagged in Support, the mask chosen at training
// time by univariate relevance scoring.
type Selector struct {
	Support []bool
}

// Width returns how many columns survive selection.
func (s *Selector) Width() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, keep := range s.Support {
		if keep {
			n++
		}
	}
	return n
}

// Transform returns the selected columns of row.
func (s *Selector) Transform(row []float64) ([]float64, error) {
	if s == nil || len(s.Support) == 0 {
		return nil, fmt.Errorf("selector: %w", ErrNotFitted)
	}
	if len(row) != len(s.Support) {
		return nil, fmt.Errorf("selector: %w", widthError(len(s.Support), len(row)))
	}

	out := make([]float64, 0, s.Width())
	for i, keep := range s.Support {
		if keep {
			out = append(out, row[i])
		}
	}
	if len(out) == 0 {
		return nil, errors.New("selector: support mask keeps no columns")
	}
	return out, nil
}
