package analysis

import (
	"encoding/json"
	"fmt"
	"math"
)

// Status tells whether a Stat carries a usable value.
type Status string

const (
	StatusOK            Status = "ok"
	StatusUndefined     Status = "undefined"      // empty denominator; Value is NaN
	StatusNotApplicable Status = "not_applicable" // backing column absent
)

// NotAvailable is the display text for either sentinel.
const NotAvailable = "N/A"

// Stat is a scalar statistic that may be undefined or not applicable.
type Stat struct {
	Value  float64
	Status Status
}

// Value wraps a computed number. NaN/Inf become Undefined.
func Value(v float64) Stat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Undefined()
	}
	return Stat{Value: v, Status: StatusOK}
}

// Undefined is the sentinel for a statistic whose denominator is empty.
func Undefined() Stat { return Stat{Value: math.NaN(), Status: StatusUndefined} }

// NotApplicable is the sentinel for a statistic whose column is absent.
func NotApplicable() Stat { return Stat{Value: math.NaN(), Status: StatusNotApplicable} }

// OK reports whether the value can be displayed.
func (s Stat) OK() bool { return s.Status == StatusOK }

// Format renders the value with two decimals, or N/A.
func (s Stat) Format() string {
	if !s.OK() {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f", s.Value)
}

func (s Stat) String() string { return s.Format() }

type statJSON struct {
	Value  *float64 `json:"value"`
	Status Status   `json:"status"`
}

// MarshalJSON emits {"value": null} for sentinels so NaN never reaches the encoder.
func (s Stat) MarshalJSON() ([]byte, error) {
	out := statJSON{Status: s.Status}
	if out.Status == "" {
		out.Status = StatusUndefined
	}
	if s.OK() {
		v := s.Value
		out.Value = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a Stat written by MarshalJSON, so a JSON dashboard
// decodes back into Go types with sentinels intact (null value becomes NaN).
func (s *Stat) UnmarshalJSON(b []byte) error {
	var in statJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	switch {
	case in.Status == StatusOK && in.Value != nil:
		*s = Stat{Value: *in.Value, Status: StatusOK}
	case in.Status == StatusNotApplicable:
		*s = NotApplicable()
	default:
		*s = Undefined()
	}
	return nil
}
