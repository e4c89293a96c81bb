package dashboard

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/campaignlens/internal/analysis"
	"github.com/KaramelBytes/campaignlens/internal/dataset"
)

// Controls are the options a presentation layer offers for the current
// selection. Each control narrows the table the next one is computed from:
// months come from the full table, prior-contact values from the month
// view and the age bounds from the month and prior-contact view.
type Controls struct {
	Months        []string           `json:"months,omitempty"`
	PrevContacted []string           `json:"prev_contacted,omitempty"`
	Age           *analysis.AgeRange `json:"age,omitempty"`
	Selection     analysis.Selection `json:"selection"`
}

// BuildControls computes the cascaded options for sel. A control whose
// column is absent is left empty.
func BuildControls(t *dataset.Table, sel analysis.Selection) Controls {
	var c Controls
	c.Selection = sel
	if t.HasField(dataset.FieldMonth) {
		c.Months = t.Distinct(dataset.FieldMonth)
	}
	byMonth := analysis.ApplyFilters(t, analysis.Selection{Month: sel.Month})
	if byMonth.HasField(dataset.FieldPrevContacted) {
		c.PrevContacted = byMonth.Distinct(dataset.FieldPrevContacted)
	}
	byPrev := analysis.ApplyFilters(byMonth, analysis.Selection{PrevContacted: sel.PrevContacted})
	if lo, hi, ok := byPrev.IntRange(dataset.FieldAge); ok {
		c.Age = &analysis.AgeRange{Min: lo, Max: hi}
	}
	return c
}

// Markdown lists the controls as plain text.
func (c Controls) Markdown() string {
	var b strings.Builder
	b.WriteString("[CONTROLS]\n")
	if len(c.Months) > 0 {
		b.WriteString(fmt.Sprintf("- month: %s\n", strings.Join(c.Months, ", ")))
	}
	if len(c.PrevContacted) > 0 {
		b.WriteString(fmt.Sprintf("- prev_contacted: %s\n", strings.Join(c.PrevContacted, ", ")))
	}
	if c.Age != nil {
		b.WriteString(fmt.Sprintf("- age: %d..%d\n", c.Age.Min, c.Age.Max))
	}
	if len(c.Months) == 0 && len(c.PrevContacted) == 0 && c.Age == nil {
		b.WriteString("- (no filterable columns)\n")
	}
	return b.String()
}
