package classifier

import "fmt"

// Tree is a binary regression tree in flat array form. Node i is a leaf when
// Left[i] < 0; otherwise samples with x[Feature[i]] <= Threshold[i] go left.
type Tree struct {
	Feature   []int
	Threshold []float64
	Left      []int
	Right     []int
	Value     []float64
}

func (t *Tree) validate(width int) error {
	n := len(t.Value)
	if n == 0 {
		return fmt.Errorf("%w: empty tree", ErrInvalidModel)
	}
	if len(t.Feature) != n || len(t.Threshold) != n || len(t.Left) != n || len(t.Right) != n {
		return fmt.Errorf("%w: tree arrays have inconsistent lengths", ErrInvalidModel)
	}
	for i := 0; i < n; i++ {
		if t.Left[i] < 0 {
			continue
		}
		if t.Left[i] <= i || t.Left[i] >= n || t.Right[i] <= i || t.Right[i] >= n {
			return fmt.Errorf("%w: node %d has children outside the tree", ErrInvalidModel, i)
		}
		if t.Feature[i] < 0 || (width > 0 && t.Feature[i] >= width) {
			return fmt.Errorf("%w: node %d splits on feature %d", ErrInvalidModel, i, t.Feature[i])
		}
	}
	return nil
}

func (t *Tree) eval(x []float64) float64 {
	i := 0
	for t.Left[i] >= 0 {
		if x[t.Feature[i]] <= t.Threshold[i] {
			i = t.Left[i]
		} else {
			i = t.Right[i]
		}
	}
	return t.Value[i]
}

// Boosted is a gradient-boosted tree ensemble. Stages[s][k] is the tree of
// stage s for class k; a single tree per stage denotes a binary model.
type Boosted struct {
	Init         []float64
	Stages       [][]Tree
	LearningRate float64
	NumFeatures  int
}

func (m *Boosted) validate() error {
	if len(m.Init) == 0 {
		return fmt.Errorf("%w: missing initial scores", ErrInvalidModel)
	}
	if m.LearningRate <= 0 {
		return fmt.Errorf("%w: learning rate must be positive", ErrInvalidModel)
	}
	for s, stage := range m.Stages {
		if len(stage) != len(m.Init) {
			return fmt.Errorf("%w: stage %d has %d trees, want %d", ErrInvalidModel, s, len(stage), len(m.Init))
		}
		for k := range stage {
			if err := stage[k].validate(m.NumFeatures); err != nil {
				return fmt.Errorf("stage %d class %d: %w", s, k, err)
			}
		}
	}
	return nil
}

// NumClasses reports how many classes the ensemble separates.
func (m *Boosted) NumClasses() int {
	if len(m.Init) == 1 {
		return 2
	}
	return len(m.Init)
}

func (m *Boosted) scores(x []float64) ([]float64, error) {
	if m.NumFeatures > 0 {
		if err := checkWidth(m.NumFeatures, len(x)); err != nil {
			return nil, err
		}
	}
	out := append([]float64(nil), m.Init...)
	for _, stage := range m.Stages {
		for k := range stage {
			t := &stage[k]
			for _, f := range t.Feature {
				if f >= len(x) {
					return nil, checkWidth(f+1, len(x))
				}
			}
			out[k] += m.LearningRate * t.eval(x)
		}
	}
	return out, nil
}

// Predict returns the most probable class.
func (m *Boosted) Predict(x []float64) (int, error) {
	p, err := m.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return argmax(p), nil
}

// PredictProba returns class probabilities.
func (m *Boosted) PredictProba(x []float64) ([]float64, error) {
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
