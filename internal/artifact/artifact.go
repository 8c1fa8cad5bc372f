// Package artifact loads and validates persisted model bundles. A loaded
// Artifact is immutable: it owns the classifier, the label encoder, the
// optional preprocessing transformers and the feature schema they were fitted
// against.
package artifact

import (
	"fmt"

	"github.com/Veraticus/vms-predict/internal/classifier"
	"github.com/Veraticus/vms-predict/internal/preprocess"
)

// DefaultModelType is reported when a bundle does not record its model type.
const DefaultModelType = "Enhanced ML Model"

// Artifact is a validated, ready-to-use model bundle.
//
// Classifier is always set. Probabilistic is set only when the classifier can
// estimate class probabilities. Transformer fields are nil when the bundle did
// not carry them.
type Artifact struct {
	Classifier         classifier.PointPredictor
	Probabilistic      classifier.ProbabilisticPredictor
	Labels             *preprocess.LabelEncoder
	NumericalImputer   preprocess.RowTransformer
	NumericalScaler    preprocess.RowTransformer
	CategoricalImputer preprocess.RowTransformer
	TextVectorizer     preprocess.TextTransformer
	FeatureSelector    preprocess.RowTransformer
	Path               string
	Checksum           string
	Info               Info
	Schema             Schema
	Size               int64
}

// New validates b and resolves its classifier capabilities.
func New(b *Bundle) (*Artifact, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: nil bundle", ErrIncomplete)
	}
	if missing := b.missingKeys(); len(missing) > 0 {
		return nil, &LoadError{
			Reason: ErrIncomplete,
			Detail: fmt.Sprintf("Model missing required components: %v", missing),
		}
	}

	clf, err := b.FinalModel.Build()
	if err != nil {
		return nil, &LoadError{
			Reason: ErrCorrupt,
			Detail: fmt.Sprintf("Model loading error: %v", err),
		}
	}
	if n, labels := clf.NumClasses(), len(b.LabelEncoder.Classes); n != labels {
		return nil, &LoadError{
			Reason: ErrCorrupt,
			Detail: fmt.Sprintf("Model loading error: classifier separates %d classes but label encoder has %d", n, labels),
		}
	}

	a := &Artifact{
		Classifier: clf,
		Labels:     b.LabelEncoder,
		Info:       b.ModelInfo,
		Schema:     b.Schema,
	}
	if p, ok := clf.(classifier.ProbabilisticPredictor); ok {
		a.Probabilistic = p
	}

	// Assign through typed nils only when present so interface fields stay nil.
	if b.NumericalImputer != nil {
		a.NumericalImputer = b.NumericalImputer
	}
	if b.NumericalScaler != nil {
		a.NumericalScaler = b.NumericalScaler
	}
	if b.CategoricalImputer != nil {
		a.CategoricalImputer = b.CategoricalImputer
	}
	if b.TFIDF != nil {
		a.TextVectorizer = b.TFIDF
	}
	if b.FeatureSelector != nil {
		a.FeatureSelector = b.FeatureSelector
	}
	return a, nil
}

// ModelType returns the recorded model type or DefaultModelType.
func (a *Artifact) ModelType() string {
	if a.Info.ModelType == "" {
		return DefaultModelType
	}
	return a.Info.ModelType
}

// Capability names the classifier variant resolved at load time.
func (a *Artifact) Capability() string {
	if a.Probabilistic != nil {
		return "probabilistic-predictor"
	}
	return "point-predictor"
}
