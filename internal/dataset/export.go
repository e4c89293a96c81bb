package dataset

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// DataFrame converts the table back into a string-typed gota frame.
// Missing cells stay empty strings.
func (t *Table) DataFrame() dataframe.DataFrame {
	records := make([][]string, 0, t.Len()+1)
	records = append(records, t.Columns())
	for i := 0; i < t.Len(); i++ {
		records = append(records, t.Row(i))
	}
	return dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
}

// WriteCSV writes the header and every row as comma-separated text.
func (t *Table) WriteCSV(w io.Writer) error {
	if t.Len() == 0 {
		// gota refuses frames without rows; a header line is still valid CSV.
		cw := csv.NewWriter(w)
		if err := cw.Write(t.Columns()); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
		cw.Flush()
		return cw.Error()
	}
	df := t.DataFrame()
	if df.Err != nil {
		return fmt.Errorf("build frame: %w", df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
