package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize/v2"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var (
	// ErrNoHeader indicates the source has no header row.
	ErrNoHeader = errors.New("table has no header row")
	// ErrUnsupported indicates a file format that cannot be loaded.
	ErrUnsupported = errors.New("unsupported table format")
)

// Cells matching these are loaded as missing.
var naValues = []string{"", "NA", "NaN", "<nil>"}

// LoadOptions controls how the source table is read.
type LoadOptions struct {
	// Delimiter for delimited text. If 0, sniffed from the header line.
	Delimiter rune
	// XLSX sheet selection: name wins over 1-based index.
	SheetName  string
	SheetIndex int
	Parse      ParseOptions
}

// Load reads a table from path, choosing the reader by extension.
func Load(path string, opt LoadOptions) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return LoadXLSX(path, opt)
	case ".xls", ".json", ".parquet":
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(path))
	default:
		return LoadCSV(path, opt)
	}
}

// LoadCSV reads delimited text with a header row.
func LoadCSV(path string, opt LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()
	br := bufio.NewReader(f)
	if bom, _ := br.Peek(len(byteOrderMark)); string(bom) == byteOrderMark {
		_, _ = br.Discard(len(byteOrderMark))
	}
	head, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("read header: %w", err)
	}
	whole := errors.Is(err, io.EOF)
	if len(strings.TrimSpace(string(head))) == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrNoHeader)
	}
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path, head)
	}
	df := dataframe.ReadCSV(br,
		dataframe.WithDelimiter(delim),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naValues),
	)
	if df.Err != nil {
		if whole {
			if header, ok := headerOnly(head, delim); ok {
				return New(filepath.Base(path), header, nil, opt.Parse)
			}
		}
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), df.Err)
	}
	return fromDataFrame(filepath.Base(path), df, opt.Parse)
}

// headerOnly reports the header of a file that holds a header row and no
// data rows. gota refuses to build such a frame.
func headerOnly(body []byte, delim rune) ([]string, bool) {
	r := csv.NewReader(bytes.NewReader(body))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil || len(records) != 1 || len(records[0]) == 0 {
		return nil, false
	}
	return records[0], true
}

// LoadXLSX reads the selected worksheet of an .xlsx workbook; the first row is the header.
func LoadXLSX(path string, opt LoadOptions) (*Table, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	sheet, err := pickSheet(wb.GetSheetList(), opt.SheetName, opt.SheetIndex)
	if err != nil {
		return nil, err
	}
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%s[%s]: %w", filepath.Base(path), sheet, ErrNoHeader)
	}
	if len(rows) == 1 {
		return New(filepath.Base(path), rows[0], nil, opt.Parse)
	}
	width := len(rows[0])
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		rec := make([]string, width)
		copy(rec, r)
		records = append(records, rec)
	}
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naValues),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("parse sheet %q: %w", sheet, df.Err)
	}
	return fromDataFrame(filepath.Base(path), df, opt.Parse)
}

func pickSheet(sheets []string, name string, index int) (string, error) {
	if len(sheets) == 0 {
		return "", errors.New("workbook has no sheets")
	}
	if name != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, name) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet %q not found (have %s)", name, strings.Join(sheets, ", "))
	}
	if index <= 0 {
		index = 1
	}
	if index > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range (1..%d)", index, len(sheets))
	}
	return sheets[index-1], nil
}

func fromDataFrame(name string, df dataframe.DataFrame, opt ParseOptions) (*Table, error) {
	header := df.Names()
	if len(header) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoHeader)
	}
	nrow := df.Nrow()
	rows := make([][]string, nrow)
	for i := range rows {
		rows[i] = make([]string, len(header))
	}
	for j, h := range header {
		for i, v := range df.Col(h).Records() {
			if i >= nrow {
				break
			}
			if v == "NaN" {
				v = ""
			}
			rows[i][j] = v
		}
	}
	return New(name, header, rows, opt)
}

// sniffDelimiter picks among ',', ';' and tab by counting unquoted
// occurrences on the header line. TSV files are always tab-delimited.
func sniffDelimiter(path string, head []byte) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	line := string(head)
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	counts := map[rune]int{}
	inQuote := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == ',' || r == ';' || r == '\t':
			counts[r]++
		}
	}
	best := ','
	for _, r := range []rune{';', '\t'} {
		if counts[r] > counts[best] {
			best = r
		}
	}
	return best
}
