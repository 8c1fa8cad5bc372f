package model

import "fmt"

// Pipeline stages that can degrade.
const (
	StageNormalize   = "normalize"
	StageDerive      = "derive"
	StageAssemble    = "assemble"
	StageNumeric     = "numeric"
	StageCategorical = "categorical"
	StageText        = "text"
	StageSelection   = "selection"
	StageConfidence  = "confidence"
)

// Fallback records a place where the pipeline substituted a documented default
// instead of the value or transformer it wanted. Fallbacks never abort a
// prediction; they make degraded predictions observable.
type Fallback struct {
	Stage  string `json:"stage"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

func (f Fallback) String() string {
	if f.Field == "" {
		return fmt.Sprintf("%s: %s", f.Stage, f.Reason)
	}
	return fmt.Sprintf("%s[%s]: %s", f.Stage, f.Field, f.Reason)
}
