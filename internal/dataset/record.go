package dataset

// Record is the typed view of one campaign row. Numeric fields that are
// missing or unparsable read as zero; use Column.Float for validity.
type Record struct {
	Age           int     `json:"age"`
	Job           string  `json:"job,omitempty"`
	Education     string  `json:"education,omitempty"`
	Default       string  `json:"default,omitempty"`
	Balance       float64 `json:"balance"`
	Housing       string  `json:"housing,omitempty"`
	Loan          string  `json:"loan,omitempty"`
	Contact       string  `json:"contact,omitempty"`
	Month         string  `json:"month,omitempty"`
	Duration      float64 `json:"duration"`
	Campaign      int     `json:"campaign"`
	Pdays         int     `json:"pdays"`
	Previous      int     `json:"previous"`
	Poutcome      string  `json:"poutcome,omitempty"`
	PrevContacted string  `json:"prev_contacted,omitempty"`
	Subscribed    string  `json:"subscribed,omitempty"`
}

// Record builds the typed view of row i.
func (t *Table) Record(i int) Record {
	str := func(name string) string {
		if c, ok := t.Column(name); ok {
			return c.String(i)
		}
		return ""
	}
	num := func(name string) float64 {
		if c, ok := t.Column(name); ok {
			if x, valid := c.Float(i); valid {
				return x
			}
		}
		return 0
	}
	return Record{
		Age:           int(num(FieldAge)),
		Job:           str(FieldJob),
		Education:     str(FieldEducation),
		Default:       str(FieldDefault),
		Balance:       num(FieldBalance),
		Housing:       str(FieldHousing),
		Loan:          str(FieldLoan),
		Contact:       str(FieldContact),
		Month:         str(FieldMonth),
		Duration:      num(FieldDuration),
		Campaign:      int(num(FieldCampaign)),
		Pdays:         int(num(FieldPdays)),
		Previous:      int(num(FieldPrevious)),
		Poutcome:      str(FieldPoutcome),
		PrevContacted: str(FieldPrevContacted),
		Subscribed:    str(FieldSubscribed),
	}
}

// Records returns the typed view of every row, limited to limit rows when limit > 0.
func (t *Table) Records(limit int) []Record {
	n := t.Len()
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Record, n)
	for i := 0; i < n; i++ {
		out[i] = t.Record(i)
	}
	return out
}
