package artifact

import (
	"time"

	"github.com/Veraticus/vms-predict/internal/classifier"
	"github.com/Veraticus/vms-predict/internal/preprocess"
)

// Bundle is the on-disk form of a trained model. FinalModel and LabelEncoder
// are required; every other transformer is optional.
type Bundle struct {
	FinalModel         *classifier.Spec
	LabelEncoder       *preprocess.LabelEncoder
	NumericalImputer   *preprocess.Imputer
	NumericalScaler    *preprocess.Scaler
	CategoricalImputer *preprocess.Imputer
	TFIDF              *preprocess.TfidfVectorizer
	FeatureSelector    *preprocess.Selector
	ModelInfo          Info
	Schema             Schema
}

// Info describes the training run that produced a bundle.
type Info struct {
	TrainingDate    time.Time
	ModelType       string
	CVAccuracy      float64
	TestAccuracy    float64
	FeatureCount    int
	TrainingSamples int
}

// Required bundle entries, named as producers and diagnostics refer to them.
const (
	KeyFinalModel   = "final_model"
	KeyLabelEncoder = "label_encoder"
)

func (b *Bundle) missingKeys() []string {
	var missing []string
	if b.FinalModel == nil {
		missing = append(missing, KeyFinalModel)
	}
	if b.LabelEncoder == nil {
		missing = append(missing, KeyLabelEncoder)
	}
	return missing
}
