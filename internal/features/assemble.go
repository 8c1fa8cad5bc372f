package features

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Veraticus/vms-predict/internal/artifact"
	"github.com/Veraticus/vms-predict/internal/model"
	"github.com/Veraticus/vms-predict/internal/record"
)

// LegacyNumerical is the numeric column list assumed for artifacts that
// predate schema persistence.
var LegacyNumerical = []string{
	record.Odometer,
	record.Priority,
	record.ServiceCount,
	record.StatusEncoded,
	record.MrTypeEncoded,
	record.RequestHour,
	record.RequestDayOfWeek,
	IsWeekend,
	IsBusinessHours,
	HighMaintenanceVehicle,
}

// DefaultText is used when the declared text column is absent.
const DefaultText = record.DefaultDescription

// Columns is a named, ordered row of numeric values. Missing values are NaN.
type Columns struct {
	Names  []string
	Values []float64
}

// Len returns the number of columns.
func (c Columns) Len() int { return len(c.Names) }

// Assembly holds the sub-rows handed to the transformer.
type Assembly struct {
	Text        string
	Numerical   Columns
	Categorical Columns
	Fallbacks   []model.Fallback
}

// SelectColumns returns the declared columns for which has reports true,
// preserving declaration order.
func SelectColumns(declared []string, has func(string) bool) []string {
	out := make([]string, 0, len(declared))
	for _, name := range declared {
		if has(name) {
			out = append(out, name)
		}
	}
	return out
}

// Assemble selects the columns schema declares from s. Columns the artifact
// declares but the record lacks are dropped rather than failing, so artifacts
// trained on a superset or subset of today's fields still get a best-effort
// row.
func Assemble(s Set, schema artifact.Schema) Assembly {
	asm := Assembly{Fallbacks: append([]model.Fallback(nil), s.Fallbacks...)}

	numerical, categorical := schema.Numerical, schema.Categorical
	if schema.Legacy() {
		numerical = LegacyNumerical
		asm.note("", "artifact declares no feature schema, using built-in numeric columns")
	}

	asm.Numerical = asm.columns(s, numerical)
	asm.Categorical = asm.columns(s, categorical)

	textField := schema.Text()
	if text, ok := s.String(textField); ok {
		asm.Text = text
	} else {
		asm.Text = DefaultText
		asm.note(textField, "text column absent, using placeholder")
	}
	return asm
}

func (a *Assembly) note(field, reason string) {
	a.Fallbacks = append(a.Fallbacks, model.Fallback{Stage: model.StageAssemble, Field: field, Reason: reason})
}

func (a *Assembly) columns(s Set, declared []string) Columns {
	names := SelectColumns(declared, s.Has)
	if dropped := len(declared) - len(names); dropped > 0 {
		a.note("", fmt.Sprintf("%d declared columns unavailable: %s",
			dropped, strings.Join(missing(declared, s.Has), ", ")))
	}

	cols := Columns{Names: names, Values: make([]float64, len(names))}
	for i, name := range names {
		cols.Values[i] = a.value(s, name)
	}
	return cols
}

// value reads a column as a number. Text that does not parse to a finite
// number is treated as missing so the imputer (or zero fill) can replace it.
func (a *Assembly) value(s Set, name string) float64 {
	if v, ok := s.Number(name); ok {
		return v
	}
	text, _ := s.String(name)
	if v, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil && !math.IsInf(v, 0) && !math.IsNaN(v) {
		return v
	}
	a.note(name, "non-numeric value treated as missing")
	return math.NaN()
}

func missing(declared []string, has func(string) bool) []string {
	var out []string
	for _, name := range declared {
		if !has(name) {
			out = append(out, name)
		}
	}
	return out
}
