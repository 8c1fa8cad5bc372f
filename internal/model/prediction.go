// Package model defines the core domain types shared across the prediction
// pipeline.
package model

// Method identifies which path produced a prediction.
type Method string

// Prediction methods.
const (
	MethodML    Method = "ml_prediction"
	MethodRules Method = "ai_enhanced_rules"
)

// Quality grades a prediction by confidence.
type Quality string

// Quality grades.
const (
	QualityHigh       Quality = "high"
	QualityAcceptable Quality = "acceptable"
	QualityLow        Quality = "low"
)

// Confidence cutoffs for the quality grades.
const (
	HighConfidence       = 0.7
	AcceptableConfidence = 0.3
)

// GradeConfidence maps a confidence score to a Quality.
func GradeConfidence(c float64) Quality {
	switch {
	case c >= HighConfidence:
		return QualityHigh
	case c >= AcceptableConfidence:
		return QualityAcceptable
	default:
		return QualityLow
	}
}

// Prediction is the single structured result of one prediction call. It is
// serialized verbatim as the command output.
type Prediction struct {
	StatusUsed   any                `json:"status_used"`
	Distribution map[string]float64 `json:"probability_distribution,omitempty"`
	ID           string             `json:"id,omitempty"`
	Category     string             `json:"prediction"`
	Timestamp    string             `json:"timestamp"`
	ModelType    string             `json:"model_type"`
	Method       Method             `json:"method_used"`
	Quality      Quality            `json:"quality,omitempty"`
	Reasoning    string             `json:"reasoning,omitempty"`
	MLError      string             `json:"ml_error,omitempty"`
	Fallbacks    []Fallback         `json:"fallbacks,omitempty"`
	RiskScore    *float64           `json:"risk_score,omitempty"`
	Confidence   float64            `json:"confidence"`
	FeatureCount int                `json:"feature_count"`
	FromCache    bool               `json:"from_cache,omitempty"`
}

// ErrorResult is the output written when no prediction could be produced.
type ErrorResult struct {
	Error string `json:"error"`
}
