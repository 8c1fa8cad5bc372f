// Package record turns untrusted request records into normalized records in
// which every field the pipeline consumes is present and well typed.
package record

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Veraticus/vms-predict/internal/model"
	"github.com/cespare/xxhash/v2"
)

// Record is a normalized maintenance request. Numbers and Text never share a
// key.
type Record struct {
	Numbers   map[string]float64
	Text      map[string]string
	Fallbacks []model.Fallback
}

// Number returns the numeric value of name.
func (r Record) Number(name string) (float64, bool) {
	v, ok := r.Numbers[name]
	return v, ok
}

// String returns the text value of name.
func (r Record) String(name string) (string, bool) {
	v, ok := r.Text[name]
	return v, ok
}

// Normalize coerces raw into a Record. It never fails: values that cannot be
// used are replaced by their documented defaults and reported in Fallbacks.
func Normalize(raw map[string]any) Record {
	rec := Record{
		Numbers: make(map[string]float64, len(raw)+len(NumericFields)),
		Text:    make(map[string]string, len(TextFields)),
	}

	declared := make(map[string]struct{}, len(NumericFields)+len(TextFields))
	for _, f := range NumericFields {
		declared[f.Name] = struct{}{}
		rec.Numbers[f.Name] = rec.numeric(f, raw)
	}
	for name, def := range TextFields {
		declared[name] = struct{}{}
		rec.Text[name] = rec.text(name, def, raw)
	}

	// Undeclared fields pass through so artifacts declaring extra columns can
	// still find them.
	for name, v := range raw {
		if _, ok := declared[name]; ok {
			continue
		}
		if n, ok := numberValue(v); ok {
			rec.Numbers[name] = n
			continue
		}
		if s, ok := v.(string); ok {
			rec.Text[name] = s
		}
	}

	rec.encodeIdentifiers()
	return rec
}

func (r *Record) fallback(field, format string, args ...any) {
	r.Fallbacks = append(r.Fallbacks, model.Fallback{
		Stage:  model.StageNormalize,
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	})
}

func (r *Record) numeric(f NumericField, raw map[string]any) float64 {
	v, present := raw[f.Name]
	if !present {
		return f.Default
	}

	n, err := coerce(v)
	if err != nil {
		r.fallback(f.Name, "%v, using default %g", err, f.Default)
		return f.Default
	}
	if f.Valid != nil && !f.Valid(n) {
		r.fallback(f.Name, "value %g out of range, using default %g", n, f.Default)
		return f.Default
	}
	return n
}

func (r *Record) text(name, def string, raw map[string]any) string {
	switch v := raw[name].(type) {
	case nil:
		return def
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		r.fallback(name, "unsupported %T value, using %q", v, def)
		return def
	}
}

// encodeIdentifiers replaces never-supplied vehicle and building codes with
// stable surrogates derived from their identifiers, keeping unseen categories
// inside the code ranges the transformers were fitted on.
func (r *Record) encodeIdentifiers() {
	if r.Numbers[VehicleEncoded] == 1 {
		r.Numbers[VehicleEncoded] = SurrogateCode(r.Text[Vehicle], VehicleCodeRange)
	}
	if r.Numbers[BuildingEncoded] == 1 {
		r.Numbers[BuildingEncoded] = SurrogateCode(r.Text[Building], BuildingCodeRange)
	}
}

// SurrogateCode hashes id into [0, n). The result is identical across
// processes and platforms.
func SurrogateCode(id string, n uint64) float64 {
	return float64(xxhash.Sum64String(id) % n)
}

// coerce converts a raw value into a finite number. Strings containing a
// decimal point parse as floats and other strings as integers.
func coerce(v any) (float64, error) {
	n, err := parse(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("non-finite value %v", v)
	}
	return n, nil
}

func parse(v any) (float64, error) {
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		if strings.Contains(s, ".") {
			return strconv.ParseFloat(s, 64)
		}
		i, err := strconv.ParseInt(s, 10, 64)
		return float64(i), err
	default:
		if n, ok := numberValue(v); ok {
			return n, nil
		}
		return 0, fmt.Errorf("unsupported %T value", v)
	}
}

// numberValue reports whether v is already numeric.
func numberValue(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
