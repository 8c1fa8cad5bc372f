package classifier

import "fmt"

// Linear is a multinomial logistic regression. With a single coefficient row
// it is a binary model whose row scores the second class.
type Linear struct {
	Coef      [][]float64
	Intercept []float64
}

func (m *Linear) validate() error {
	if len(m.Coef) == 0 || len(m.Coef[0]) == 0 {
		return fmt.Errorf("%w: empty coefficient matrix", ErrInvalidModel)
	}
	if len(m.Intercept) != len(m.Coef) {
		return fmt.Errorf("%w: %d coefficient rows but %d intercepts", ErrInvalidModel, len(m.Coef), len(m.Intercept))
	}
	width := len(m.Coef[0])
	for i, row := range m.Coef {
		if len(row) != width {
			return fmt.Errorf("%w: coefficient row %d has %d columns, want %d", ErrInvalidModel, i, len(row), width)
		}
	}
	return nil
}

// NumClasses reports how many classes the model separates.
func (m *Linear) NumClasses() int {
	if len(m.Coef) == 1 {
		return 2
	}
	return len(m.Coef)
}

func (m *Linear) scores(x []float64) ([]float64, error) {
	if err := checkWidth(len(m.Coef[0]), len(x)); err != nil {
		return nil, err
	}
	out := make([]float64, len(m.Coef))
	for k, row := range m.Coef {
		s := m.Intercept[k]
		for j, w := range row {
			s += w * x[j]
		}
		out[k] = s
	}
	return out, nil
}

// Predict returns the most probable class.
func (m *Linear) Predict(x []float64) (int, error) {
	p, err := m.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return argmax(p), nil
}

// PredictProba returns class probabilities.
func (m *Linear) PredictProba(x []float64) ([]float64, error) {
	s, err := m.scores(x)
	if err != nil {
		return nil, err
	}
	if len(s) == 1 {
		p := sigmoid(s[0])
		return []float64{1 - p, p}, nil
	}
	return softmax(s), nil
}
