package artifact

// SchemaVersion is the feature-contract version written by current producers.
// Version 0 marks artifacts that predate schema persistence.
const SchemaVersion = 1

// DefaultTextFeature is the text column used when an artifact names none.
const DefaultTextFeature = "Description"

// Schema is the ordered feature contract an artifact was trained against.
// Column order is significant: it fixes the column order of the matrix the
// classifier expects.
type Schema struct {
	TextFeature string
	Numerical   []string
	Categorical []string
	Version     int
}

// Legacy reports whether the artifact declares no numeric or categorical
// columns at all.
func (s Schema) Legacy() bool {
	return len(s.Numerical) == 0 && len(s.Categorical) == 0
}

// Text returns the declared text column, defaulting to Description.
func (s Schema) Text() string {
	if s.TextFeature == "" {
		return DefaultTextFeature
	}
	return s.TextFeature
}
