// Package features turns a normalized record into the feature matrix an
// artifact's classifier expects: deriving secondary signals, selecting the
// columns the artifact declares and running its persisted transformers.
package features

import (
	"maps"

	"github.com/Veraticus/vms-predict/internal/model"
	"github.com/Veraticus/vms-predict/internal/record"
)

// Derived feature names.
const (
	IsWeekend                = "is_weekend"
	IsBusinessHours          = "is_business_hours"
	HighMaintenanceVehicle   = "high_maintenance_vehicle"
	VehicleAgeCategory       = "vehicle_age_category"
	ServiceFrequencyCategory = "service_frequency_category"
)

// HighMaintenanceThreshold is the service count at which a vehicle counts as
// high maintenance. Training derives this from the 75th percentile of the
// training set; a single record has no distribution, so inference uses this
// fixed value instead. The two can disagree.
const HighMaintenanceThreshold = 200

// Odometer and service-rate cut points for the bucketed features.
const (
	agedOdometer     = 200000
	veryAgedOdometer = 500000
	moderateRate     = 2
	heavyRate        = 5
)

// Set is a normalized record extended with derived features.
type Set struct {
	numbers   map[string]float64
	text      map[string]string
	Fallbacks []model.Fallback
}

// newSet builds a Set from raw column values without deriving anything.
func newSet(numbers map[string]float64, text map[string]string) Set {
	return Set{numbers: maps.Clone(numbers), text: maps.Clone(text)}
}

// Number returns a numeric column.
func (s Set) Number(name string) (float64, bool) {
	v, ok := s.numbers[name]
	return v, ok
}

// String returns a text column.
func (s Set) String(name string) (string, bool) {
	v, ok := s.text[name]
	return v, ok
}

// Has reports whether the set has a column called name.
func (s Set) Has(name string) bool {
	if _, ok := s.numbers[name]; ok {
		return true
	}
	_, ok := s.text[name]
	return ok
}

// Derive computes the secondary features for rec. Every derived feature has a
// default used when its inputs are absent, so the output columns never depend
// on input completeness.
func Derive(rec record.Record) Set {
	s := Set{
		numbers:   maps.Clone(rec.Numbers),
		text:      maps.Clone(rec.Text),
		Fallbacks: append([]model.Fallback(nil), rec.Fallbacks...),
	}
	if s.numbers == nil {
		s.numbers = make(map[string]float64)
	}

	day, hasDay := s.numbers[record.RequestDayOfWeek]
	hour, hasHour := s.numbers[record.RequestHour]
	services, hasServices := s.numbers[record.ServiceCount]
	odometer, hasOdometer := s.numbers[record.Odometer]

	s.set(IsWeekend, hasDay, 0, func() float64 { return flag(day >= 5) })
	s.set(IsBusinessHours, hasHour, 1, func() float64 { return flag(hour >= 8 && hour <= 17) })
	s.set(HighMaintenanceVehicle, hasServices, 0, func() float64 {
		return flag(services >= HighMaintenanceThreshold)
	})
	s.set(VehicleAgeCategory, hasOdometer, 1, func() float64 {
		return bucket(odometer, agedOdometer, veryAgedOdometer)
	})
	s.set(ServiceFrequencyCategory, hasServices && hasOdometer, 1, func() float64 {
		return bucket(services/(odometer/10000+1), moderateRate, heavyRate)
	})
	return s
}

func (s *Set) set(name string, ok bool, def float64, compute func() float64) {
	if !ok {
		s.numbers[name] = def
		s.Fallbacks = append(s.Fallbacks, model.Fallback{
			Stage:  model.StageDerive,
			Field:  name,
			Reason: "inputs absent, using default",
		})
		return
	}
	s.numbers[name] = compute()
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// bucket returns 0 for v <= lo, 1 for lo < v <= hi and 2 above hi.
func bucket(v, lo, hi float64) float64 {
	switch {
	case v > hi:
		return 2
	case v > lo:
		return 1
	default:
		return 0
	}
}
