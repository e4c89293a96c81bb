package analysis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/campaignlens/internal/dataset"
)

// AgeRange is an inclusive [Min, Max] bound on age.
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether lo <= age <= hi.
func (r AgeRange) Contains(age float64) bool {
	return age >= float64(r.Min) && age <= float64(r.Max)
}

// Selection is the set of filter choices for one render cycle. Empty
// strings and a nil Age mean "match all".
type Selection struct {
	Month         string    `json:"month,omitempty"`
	PrevContacted string    `json:"prev_contacted,omitempty"`
	Age           *AgeRange `json:"age,omitempty"`
}

// Key is a canonical cache key for the selection.
func (s Selection) Key() string {
	age := "*"
	if s.Age != nil {
		age = fmt.Sprintf("%d-%d", s.Age.Min, s.Age.Max)
	}
	return fmt.Sprintf("month=%s|prev=%s|age=%s", s.Month, s.PrevContacted, age)
}

// ParseAgeRange builds an age range from optional textual bounds. Both empty
// means no range; a single bound is completed from fallback (the observed
// min/max), which must then be provided.
func ParseAgeRange(minText, maxText string, fallback *AgeRange) (*AgeRange, error) {
	minText, maxText = strings.TrimSpace(minText), strings.TrimSpace(maxText)
	if minText == "" && maxText == "" {
		return nil, nil
	}
	r := AgeRange{}
	if fallback != nil {
		r = *fallback
	} else if minText == "" || maxText == "" {
		return nil, fmt.Errorf("age range needs both bounds")
	}
	if minText != "" {
		v, err := strconv.Atoi(minText)
		if err != nil {
			return nil, fmt.Errorf("invalid age_min %q: %w", minText, err)
		}
		r.Min = v
	}
	if maxText != "" {
		v, err := strconv.Atoi(maxText)
		if err != nil {
			return nil, fmt.Errorf("invalid age_max %q: %w", maxText, err)
		}
		r.Max = v
	}
	if r.Min > r.Max {
		return nil, fmt.Errorf("age_min %d greater than age_max %d", r.Min, r.Max)
	}
	return &r, nil
}

// ApplyFilters keeps the rows that satisfy every active predicate, in their
// original order. A selector is skipped when it is absent or when its
// column is missing from the schema. The result is always a new table.
func ApplyFilters(t *dataset.Table, sel Selection) *dataset.Table {
	type pred func(i int) bool
	var preds []pred

	if sel.Month != "" {
		if c, ok := t.Column(dataset.FieldMonth); ok {
			preds = append(preds, func(i int) bool { return c.String(i) == sel.Month })
		}
	}
	if sel.PrevContacted != "" {
		if c, ok := t.Column(dataset.FieldPrevContacted); ok {
			preds = append(preds, func(i int) bool { return c.String(i) == sel.PrevContacted })
		}
	}
	if sel.Age != nil {
		if c, ok := t.Column(dataset.FieldAge); ok {
			r := *sel.Age
			preds = append(preds, func(i int) bool {
				x, valid := c.Float(i)
				return valid && r.Contains(x)
			})
		}
	}

	idx := make([]int, 0, t.Len())
rows:
	for i := 0; i < t.Len(); i++ {
		for _, p := range preds {
			if !p(i) {
				continue rows
			}
		}
		idx = append(idx, i)
	}
	return t.Subset(idx)
}
