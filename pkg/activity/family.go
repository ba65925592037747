package activity

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidFamily is returned by [Family.Validate] for structurally invalid
// family descriptions.
var ErrInvalidFamily = errors.New("activity: invalid family")

// Family describes who is going on an outing.
type Family struct {
	// Adults is the number of adults. Must be ≥ 0.
	Adults int `json:"adults"`

	// Children lists each child with their age in years.
	Children []Child `json:"children"`
}

// UnmarshalJSON decodes a family, accepting any whole JSON number for the
// adult count (2 and 2.0 alike). A missing count is zero.
func (f *Family) UnmarshalJSON(b []byte) error {
	var raw struct {
		Adults   *float64 `json:"adults"`
		Children []Child  `json:"children"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	adults := 0
	if raw.Adults != nil {
		n, err := wholeNumber(*raw.Adults)
		if err != nil {
			return fmt.Errorf("%w: adults: %w", ErrInvalidFamily, err)
		}
		adults = n
	}
	*f = Family{Adults: adults, Children: raw.Children}
	return nil
}

func wholeNumber(v float64) (int, error) {
	if v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%g is not a whole number", v)
	}
	return int(v), nil
}

// Child is a single child in a [Family].
type Child struct {
	// Age is the child's age in years. A nil Age means the field was missing.
	Age *float64 `json:"age"`
}

// Validate checks that the adult count is non-negative and that every child
// carries an age.
func (f Family) Validate() error {
	if f.Adults < 0 {
		return fmt.Errorf("%w: adults must be ≥ 0, got %d", ErrInvalidFamily, f.Adults)
	}
	for i, c := range f.Children {
		if c.Age == nil {
			return fmt.Errorf("%w: children[%d] has no age", ErrInvalidFamily, i)
		}
		if *c.Age < 0 {
			return fmt.Errorf("%w: children[%d] age must be ≥ 0, got %g", ErrInvalidFamily, i, *c.Age)
		}
	}
	return nil
}

// Eligible reports whether every child in f may attend r.
// A family must be validated before calling Eligible.
func Eligible(r Record, f Family) bool {
	for _, c := range f.Children {
		if c.Age == nil || !r.AllowsAge(*c.Age) {
			return false
		}
	}
	return true
}
