package dataset

import (
	"math"
	"sort"
	"strings"
)

// Recognized campaign fields. Every one of them is optional in a loaded table.
const (
	FieldAge           = "age"
	FieldJob           = "job"
	FieldEducation     = "education"
	FieldDefault       = "default"
	FieldBalance       = "balance"
	FieldHousing       = "housing"
	FieldLoan          = "loan"
	FieldContact       = "contact"
	FieldMonth         = "month"
	FieldDuration      = "duration"
	FieldCampaign      = "campaign"
	FieldPdays         = "pdays"
	FieldPrevious      = "previous"
	FieldPoutcome      = "poutcome"
	FieldPrevContacted = "prev_contacted"
	FieldSubscribed    = "subscribed"
)

// Column holds one column's trimmed cells plus their numeric interpretation.
type Column struct {
	Name  string
	raw   []string
	num   []float64
	valid []bool
}

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.raw) }

// String returns the trimmed cell text; missing cells are "".
func (c *Column) String(i int) string { return c.raw[i] }

// Float returns the numeric value of cell i and whether it parsed.
func (c *Column) Float(i int) (float64, bool) { return c.num[i], c.valid[i] }

func (c *Column) subset(idx []int) *Column {
	out := &Column{
		Name:  c.Name,
		raw:   make([]string, len(idx)),
		num:   make([]float64, len(idx)),
		valid: make([]bool, len(idx)),
	}
	for k, i := range idx {
		out.raw[k] = c.raw[i]
		out.num[k] = c.num[i]
		out.valid[k] = c.valid[i]
	}
	return out
}

// Table is an immutable, column-oriented campaign table. Views derived from
// it (filters, outlier trimming) are new Tables; nothing mutates in place.
type Table struct {
	Name  string
	cols  []*Column
	index map[string]int
	rows  int
}

const byteOrderMark = "\ufeff"

// New builds a table from a header and string rows. A UTF-8 byte-order mark
// on the first header name is dropped. Short rows are padded
// with missing cells; extra cells are ignored.
func New(name string, header []string, rows [][]string, opt ParseOptions) (*Table, error) {
	if len(header) == 0 {
		return nil, ErrNoHeader
	}
	t := &Table{Name: name, index: make(map[string]int, len(header)), rows: len(rows)}
	for j, h := range header {
		if j == 0 {
			h = strings.TrimPrefix(h, byteOrderMark)
		}
		c := &Column{
			Name:  strings.TrimSpace(h),
			raw:   make([]string, len(rows)),
			num:   make([]float64, len(rows)),
			valid: make([]bool, len(rows)),
		}
		for i, rec := range rows {
			if j >= len(rec) {
				continue
			}
			v := strings.TrimSpace(rec[j])
			c.raw[i] = v
			if v == "" {
				continue
			}
			if x, ok := parseNumeric(v, opt); ok {
				c.num[i] = x
				c.valid[i] = true
			}
		}
		key := strings.ToLower(c.Name)
		if _, dup := t.index[key]; !dup {
			t.index[key] = j
		}
		t.cols = append(t.cols, c)
	}
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Columns returns the header names in file order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// HasField reports whether the schema carries the named column
// (case-insensitive). Features depending on a column consult this first.
func (t *Table) HasField(name string) bool {
	_, ok := t.index[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Column looks up a column by name (case-insensitive).
func (t *Table) Column(name string) (*Column, bool) {
	j, ok := t.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	return t.cols[j], true
}

// Row returns the raw cells of row i in header order.
func (t *Table) Row(i int) []string {
	out := make([]string, len(t.cols))
	for j, c := range t.cols {
		out[j] = c.raw[i]
	}
	return out
}

// Subset returns a new table holding the given rows in the given order.
func (t *Table) Subset(idx []int) *Table {
	out := &Table{Name: t.Name, index: t.index, rows: len(idx), cols: make([]*Column, len(t.cols))}
	for j, c := range t.cols {
		out.cols[j] = c.subset(idx)
	}
	return out
}

// Distinct returns the non-empty values of a column in first-seen order.
func (t *Table) Distinct(name string) []string {
	c, ok := t.Column(name)
	if !ok {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, v := range c.raw {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// SortedDistinct is Distinct in lexical order.
func (t *Table) SortedDistinct(name string) []string {
	out := t.Distinct(name)
	sort.Strings(out)
	return out
}

// IntRange returns the floor of the minimum and the ceiling of the maximum
// valid numeric value in a column.
func (t *Table) IntRange(name string) (lo, hi int, ok bool) {
	c, found := t.Column(name)
	if !found {
		return 0, 0, false
	}
	first := true
	var mn, mx float64
	for i := range c.raw {
		x, valid := c.Float(i)
		if !valid {
			continue
		}
		if first || x < mn {
			mn = x
		}
		if first || x > mx {
			mx = x
		}
		first = false
	}
	if first {
		return 0, 0, false
	}
	return int(math.Floor(mn)), int(math.Ceil(mx)), true
}
