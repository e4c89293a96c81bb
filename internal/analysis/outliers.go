package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/campaignlens/internal/dataset"
)

// DefaultIQRMultiplier is the Tukey fence factor.
const DefaultIQRMultiplier = 1.5

// RemoveOutliers drops rows whose field value lies outside
// [Q1 - 1.5*IQR, Q3 + 1.5*IQR].
func RemoveOutliers(t *dataset.Table, field string) *dataset.Table {
	return RemoveOutliersK(t, field, DefaultIQRMultiplier)
}

// RemoveOutliersK is RemoveOutliers with a custom fence factor. Rows with a
// non-numeric value are dropped. A missing field returns a copy of the view.
func RemoveOutliersK(t *dataset.Table, field string, k float64) *dataset.Table {
	c, ok := t.Column(field)
	if !ok {
		return t.Subset(allRows(t.Len()))
	}
	vals := make([]float64, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		if x, valid := c.Float(i); valid {
			vals = append(vals, x)
		}
	}
	lo, hi, ok := OutlierBounds(vals, k)
	idx := make([]int, 0, len(vals))
	if ok {
		for i := 0; i < t.Len(); i++ {
			if x, valid := c.Float(i); valid && x >= lo && x <= hi {
				idx = append(idx, i)
			}
		}
	}
	return t.Subset(idx)
}

// OutlierBounds returns the inclusive IQR fences of values. ok is false for
// an empty input.
func OutlierBounds(values []float64, k float64) (lo, hi float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	q1 := Quantile(sorted, 0.25)
	q3 := Quantile(sorted, 0.75)
	iqr := q3 - q1
	return q1 - k*iqr, q3 + k*iqr, true
}

// Quantile returns the q-quantile of sorted values using linear
// interpolation between closest ranks at position q*(n-1).
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

func allRows(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
