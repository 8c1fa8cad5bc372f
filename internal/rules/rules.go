// Package rules provides a deterministic risk assessment used when the model
// cannot produce a trustworthy prediction.
package rules

import (
	"math"
	"strings"

	"github.com/Veraticus/vms-predict/internal/record"
)

// Categories the rules can assign beyond the keyword matches.
const (
	CategoryBrake      = "brake_system"
	CategoryTire       = "tire_service"
	CategoryEngine     = "engine_repair"
	CategoryCritical   = "critical_maintenance"
	CategoryMajor      = "major_service"
	CategoryRoutine    = "routine_maintenance"
	CategoryPreventive = "preventive_service"
)

// Confidence bounds for rule-based results.
const (
	MinConfidence = 0.60
	MaxConfidence = 0.85
)

var criticalKeywords = []string{"brake", "brek", "engine", "enjin", "emergency", "urgent", "critical"}

type keywordRule struct {
	category  string
	reasoning string
	words     []string
}

// Keyword rules are checked in order; the first match wins.
var keywordRules = []keywordRule{
	{CategoryBrake, "Brake-related maintenance detected in description", []string{"brake", "brek"}},
	{CategoryTire, "Tire-related maintenance detected in description", []string{"tayar", "tire"}},
	{CategoryEngine, "Engine-related maintenance detected in description", []string{"engine", "enjin"}},
}

// Assessment is the result of applying the rules to a record.
type Assessment struct {
	Category   string
	Reasoning  string
	RiskScore  float64
	Confidence float64
}

// Assess scores rec and picks a category for it.
func Assess(rec record.Record) Assessment {
	odometer, _ := rec.Number(record.Odometer)
	services, _ := rec.Number(record.ServiceCount)
	interval, _ := rec.Number(record.AverageInterval)
	daysSince, _ := rec.Number(record.DaysSinceLast)
	desc, _ := rec.String(record.Description)
	desc = strings.ToLower(desc)

	score := RiskScore(odometer, services, interval, daysSince, desc)
	a := Assessment{
		RiskScore:  score,
		Confidence: math.Min(MaxConfidence, math.Max(MinConfidence, score)),
	}
	a.Category, a.Reasoning = categorize(score, desc)
	return a
}

// RiskScore combines mileage, service rate, service interval, time since the
// last service and critical keywords into a score in [0, 1].
func RiskScore(odometer, services, interval, daysSince float64, desc string) float64 {
	var score float64

	switch {
	case odometer > 1000000:
		score += 0.3
	case odometer > 800000:
		score += 0.25
	case odometer > 500000:
		score += 0.2
	case odometer > 300000:
		score += 0.15
	default:
		score += 0.1
	}

	// Services per 10k km.
	rate := services / math.Max(1, odometer/10000)
	switch {
	case rate > 10:
		score += 0.25
	case rate > 5:
		score += 0.2
	case rate > 2:
		score += 0.15
	default:
		score += 0.1
	}

	switch {
	case interval < 2000:
		score += 0.2
	case interval < 5000:
		score += 0.15
	case interval < 10000:
		score += 0.1
	default:
		score += 0.05
	}

	switch {
	case daysSince > 365:
		score += 0.15
	case daysSince > 180:
		score += 0.1
	case daysSince > 90:
		score += 0.05
	}

	if containsAny(desc, criticalKeywords) {
		score += 0.1
	}
	return math.Min(1, score)
}

func categorize(score float64, desc string) (string, string) {
	for _, r := range keywordRules {
		if containsAny(desc, r.words) {
			return r.category, r.reasoning
		}
	}

	switch {
	case score > 0.8:
		return CategoryCritical, "Very high risk score indicates critical maintenance needed"
	case score > 0.6:
		return CategoryMajor, "High risk score indicates major service required"
	case score > 0.4:
		return CategoryRoutine, "Moderate risk score indicates routine maintenance"
	default:
		return CategoryPreventive, "Low risk score suggests preventive maintenance"
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
