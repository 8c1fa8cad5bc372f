package preprocess

import (
	"fmt"
	"sort"
)

// LabelEncoder is the bidirectional mapping between category names and the
// integer codes the classifier was trained on. Classes are kept sorted, so the
// code of a label is its position in Classes.
type LabelEncoder struct {
	Classes []string
}

// NewLabelEncoder builds an encoder over the distinct labels given.
func NewLabelEncoder(labels []string) *LabelEncoder {
	seen := make(map[string]struct{}, len(labels))
	classes := make([]string, 0, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		classes = append(classes, l)
	}
	sort.Strings(classes)
	return &LabelEncoder{Classes: classes}
}

// Encode returns the code for label.
func (e *LabelEncoder) Encode(label string) (int, error) {
	i := sort.SearchStrings(e.Classes, label)
	if i == len(e.Classes) || e.Classes[i] != label {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	return i, nil
}

// Decode returns the label for code.
func (e *LabelEncoder) Decode(code int) (string, error) {
	if e == nil || code < 0 || code >= len(e.Classes) {
		n := 0
		if e != nil {
			n = len(e.Classes)
		}
		return "", fmt.Errorf("%w: %d not in [0,%d)", ErrLabelRange, code, n)
	}
	return e.Classes[code], nil
}
