// Package activity models family activity catalogue entries and the cost
// arithmetic used to match them against a family and a budget.
//
// Catalogue rows arrive as loosely typed mappings (decoded JSON or CSV rows)
// keyed by column name. [Parse] turns one mapping into a validated [Record] or
// a [*ParseError] that lists every offending field, so callers can skip bad
// rows explicitly instead of failing a whole request.
package activity

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Catalogue column names.
const (
	FieldName       = "Activity Name"
	FieldLocation   = "Location"
	FieldBasePrice  = "Base Price"
	FieldChildPrice = "Price Per Child"
	FieldAdultPrice = "Price Per Adult"
	FieldMinAge     = "Min Age"
	FieldMaxAge     = "Max Age"
)

const (
	defaultMinAge = 0
	defaultMaxAge = 99
)

// Record is a validated catalogue entry.
type Record struct {
	// Name and Location are nil when the column is absent or not a string.
	Name       *string
	Location   *string
	BasePrice  float64
	ChildPrice float64
	AdultPrice float64
	MinAge     int
	MaxAge     int
}

// FieldError describes a single field that could not be parsed.
type FieldError struct {
	Field  string
	Value  any
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s (got %#v)", e.Field, e.Reason, e.Value)
}

// ParseError is returned by [Parse] when one or more numeric fields are
// malformed.
type ParseError struct {
	Fields []FieldError
}

func (e *ParseError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Error()
	}
	return "activity: invalid record: " + strings.Join(parts, "; ")
}

// Parse reads a catalogue mapping into a [Record].
//
// Absent keys take their defaults (prices 0, ages 0..99). Present keys must
// hold a finite number or a numeric string; null, empty, boolean, and other
// values are reported in the returned [*ParseError]. Name and location are
// read as strings; anything else leaves them nil.
func Parse(raw map[string]any) (Record, error) {
	var (
		rec  Record
		errs []FieldError
	)

	rec.Name = stringField(raw, FieldName)
	rec.Location = stringField(raw, FieldLocation)

	price := func(key string) float64 {
		v, fe := floatField(raw, key, 0)
		if fe != nil {
			errs = append(errs, *fe)
		}
		return v
	}
	age := func(key string, def int) int {
		v, fe := intField(raw, key, def)
		if fe != nil {
			errs = append(errs, *fe)
		}
		return v
	}

	rec.BasePrice = price(FieldBasePrice)
	rec.ChildPrice = price(FieldChildPrice)
	rec.AdultPrice = price(FieldAdultPrice)
	rec.MinAge = age(FieldMinAge, defaultMinAge)
	rec.MaxAge = age(FieldMaxAge, defaultMaxAge)

	if len(errs) > 0 {
		return Record{}, &ParseError{Fields: errs}
	}
	return rec, nil
}

// AllowsAge reports whether age lies within the record's inclusive age range.
func (r Record) AllowsAge(age float64) bool {
	return float64(r.MinAge) <= age && age <= float64(r.MaxAge)
}

func stringField(raw map[string]any, key string) *string {
	s, ok := raw[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func floatField(raw map[string]any, key string, def float64) (float64, *FieldError) {
	v, ok := raw[key]
	if !ok {
		return def, nil
	}
	f, reason := toFloat(v)
	if reason != "" {
		return 0, &FieldError{Field: key, Value: v, Reason: reason}
	}
	return f, nil
}

func intField(raw map[string]any, key string, def int) (int, *FieldError) {
	v, ok := raw[key]
	if !ok {
		return def, nil
	}
	fail := func(reason string) (int, *FieldError) {
		return 0, &FieldError{Field: key, Value: v, Reason: reason}
	}

	// Integer strings must be integers; numbers are truncated toward zero.
	if s, isString := v.(string); isString {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fail("not an integer")
		}
		return n, nil
	}
	f, reason := toFloat(v)
	if reason != "" {
		return fail(reason)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return fail("out of range")
	}
	return int(math.Trunc(f)), nil
}

// toFloat converts a decoded value to a finite float64. A non-empty reason
// is returned on failure.
func toFloat(v any) (float64, string) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, "missing value"
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0, "not a number"
		}
		f = n
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, "missing value"
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, "not a number"
		}
		f = n
	default:
		return 0, fmt.Sprintf("unsupported type %T", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, "not a finite number"
	}
	return f, ""
}
