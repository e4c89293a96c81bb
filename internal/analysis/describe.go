package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/campaignlens/internal/dataset"
)

// Values returns the valid numeric values of field in row order.
func Values(t *dataset.Table, field string) []float64 {
	c, ok := t.Column(field)
	if !ok {
		return nil
	}
	out := make([]float64, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		if x, valid := c.Float(i); valid {
			out = append(out, x)
		}
	}
	return out
}

// GroupedValues splits the valid numeric values of valueField by the value
// of groupField. Rows with an empty group are skipped.
func GroupedValues(t *dataset.Table, valueField, groupField string) map[string][]float64 {
	vc, ok := t.Column(valueField)
	if !ok {
		return nil
	}
	gc, ok := t.Column(groupField)
	if !ok {
		return nil
	}
	out := map[string][]float64{}
	for i := 0; i < t.Len(); i++ {
		g := gc.String(i)
		if g == "" {
			continue
		}
		if x, valid := vc.Float(i); valid {
			out[g] = append(out[g], x)
		}
	}
	return out
}

// BoxSummary is the five-number summary plus Tukey whiskers of a sample.
type BoxSummary struct {
	Count        int     `json:"count"`
	Min          float64 `json:"min"`
	Q1           float64 `json:"q1"`
	Median       float64 `json:"median"`
	Q3           float64 `json:"q3"`
	Max          float64 `json:"max"`
	LowerWhisker float64 `json:"lower_whisker"`
	UpperWhisker float64 `json:"upper_whisker"`
}

// Describe summarizes values for a box plot. ok is false for an empty sample.
func Describe(values []float64) (BoxSummary, bool) {
	if len(values) == 0 {
		return BoxSummary{}, false
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	b := BoxSummary{
		Count:  len(sorted),
		Min:    sorted[0],
		Q1:     Quantile(sorted, 0.25),
		Median: Quantile(sorted, 0.5),
		Q3:     Quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
	iqr := b.Q3 - b.Q1
	lo, hi := b.Q1-DefaultIQRMultiplier*iqr, b.Q3+DefaultIQRMultiplier*iqr
	// Whiskers reach the most extreme observations inside the fences.
	b.LowerWhisker, b.UpperWhisker = b.Max, b.Min
	for _, v := range sorted {
		if v >= lo && v < b.LowerWhisker {
			b.LowerWhisker = v
		}
		if v <= hi && v > b.UpperWhisker {
			b.UpperWhisker = v
		}
	}
	return b, true
}

// Bin is one equal-width histogram bucket covering [Lo, Hi) (the last is closed).
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// Histogram buckets values into equal-width bins spanning [min, max].
func Histogram(values []float64, bins int) []Bin {
	if len(values) == 0 || bins <= 0 {
		return nil
	}
	mn, mx := values[0], values[0]
	for _, v := range values[1:] {
		mn = math.Min(mn, v)
		mx = math.Max(mx, v)
	}
	if mn == mx {
		return []Bin{{Lo: mn, Hi: mx, Count: len(values)}}
	}
	width := (mx - mn) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Lo = mn + float64(i)*width
		out[i].Hi = mn + float64(i+1)*width
	}
	out[bins-1].Hi = mx
	for _, v := range values {
		k := int((v - mn) / width)
		if k >= bins {
			k = bins - 1
		}
		out[k].Count++
	}
	return out
}
