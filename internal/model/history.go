package model

import "time"

// HistoryEntry is the persisted summary of one prediction.
type HistoryEntry struct {
	CreatedAt     time.Time
	ID            string
	RecordHash    string
	Vehicle       string
	Category      string
	Method        Method
	Quality       Quality
	ModelType     string
	ModelChecksum string
	Confidence    float64
	FeatureCount  int
	FallbackCount int
	FromCache     bool
}
