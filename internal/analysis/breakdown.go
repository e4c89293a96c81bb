package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/campaignlens/internal/dataset"
)

// Breakdown is a category × outcome table of counts normalized per category.
type Breakdown struct {
	Category   string                        `json:"category"`
	Outcome    string                        `json:"outcome"`
	Categories []string                      `json:"categories"`
	Outcomes   []string                      `json:"outcomes"`
	Counts     map[string]map[string]int     `json:"counts"`
	Percent    map[string]map[string]float64 `json:"percent"`
}

// Total returns the number of rows in a category.
func (b Breakdown) Total(category string) int {
	var n int
	for _, c := range b.Counts[category] {
		n += c
	}
	return n
}

// PercentageBreakdown groups rows by (categoryField, outcomeField) and
// normalizes each category across outcomes to percentages. Every observed
// outcome appears under every category, with 0 where no rows matched.
// ok is false if either field is missing from the schema.
func PercentageBreakdown(t *dataset.Table, categoryField, outcomeField string) (Breakdown, bool) {
	cat, ok := t.Column(categoryField)
	if !ok {
		return Breakdown{}, false
	}
	out, ok := t.Column(outcomeField)
	if !ok {
		return Breakdown{}, false
	}
	b := Breakdown{
		Category: categoryField,
		Outcome:  outcomeField,
		Counts:   map[string]map[string]int{},
		Percent:  map[string]map[string]float64{},
	}
	outcomes := map[string]struct{}{}
	for i := 0; i < t.Len(); i++ {
		cv, ov := cat.String(i), out.String(i)
		if cv == "" || ov == "" {
			continue
		}
		row := b.Counts[cv]
		if row == nil {
			row = map[string]int{}
			b.Counts[cv] = row
			b.Categories = append(b.Categories, cv)
		}
		row[ov]++
		outcomes[ov] = struct{}{}
	}
	for o := range outcomes {
		b.Outcomes = append(b.Outcomes, o)
	}
	sort.Strings(b.Categories)
	sort.Strings(b.Outcomes)

	for _, cv := range b.Categories {
		row := b.Counts[cv]
		for _, o := range b.Outcomes {
			if _, ok := row[o]; !ok {
				row[o] = 0
			}
		}
		total := b.Total(cv)
		pct := make(map[string]float64, len(b.Outcomes))
		for _, o := range b.Outcomes {
			if total == 0 {
				pct[o] = math.NaN()
				continue
			}
			pct[o] = float64(row[o]) * 100 / float64(total)
		}
		b.Percent[cv] = pct
	}
	return b, true
}

// CategoryCount is one value of a categorical distribution.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ValueCounts counts non-empty values of a field, most frequent first.
func ValueCounts(t *dataset.Table, field string) []CategoryCount {
	c, ok := t.Column(field)
	if !ok {
		return nil
	}
	counts := map[string]int{}
	for i := 0; i < t.Len(); i++ {
		if v := c.String(i); v != "" {
			counts[v]++
		}
	}
	out := make([]CategoryCount, 0, len(counts))
	for k, v := range counts {
		out = append(out, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value < out[j].Value
		}
		return out[i].Count > out[j].Count
	})
	return out
}
