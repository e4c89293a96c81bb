package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/360EntSecGroup-Skylar/excelize/v2"
)

var campaignRows = []string{
	"age,job,balance,month,prev_contacted,subscribed,notes",
	"30,admin.,1200,may,no,yes,first",
	"45,technician,-50,may,yes,no,second",
	"52,\"services, part-time\",,jun,no,no,third",
	"28,admin.,300,jun,yes,yes,fourth",
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadCSV_SchemaAndValues(t *testing.T) {
	p := writeFile(t, "campaign.csv", strings.Join(campaignRows, "\n")+"\n")
	tbl, err := Load(p, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Name != "campaign.csv" {
		t.Fatalf("name = %q", tbl.Name)
	}
	if tbl.Len() != 4 {
		t.Fatalf("rows = %d, want 4", tbl.Len())
	}
	for _, f := range []string{FieldAge, FieldJob, FieldBalance, FieldMonth, FieldPrevContacted, FieldSubscribed, "notes"} {
		if !tbl.HasField(f) {
			t.Fatalf("expected field %q", f)
		}
	}
	if !tbl.HasField("AGE") {
		t.Fatalf("HasField should be case-insensitive")
	}
	if tbl.HasField(FieldDuration) {
		t.Fatalf("duration should be absent")
	}
	job, _ := tbl.Column(FieldJob)
	if job.String(2) != "services, part-time" {
		t.Fatalf("quoted cell = %q", job.String(2))
	}
	bal, _ := tbl.Column(FieldBalance)
	if x, ok := bal.Float(1); !ok || x != -50 {
		t.Fatalf("balance[1] = %v,%v", x, ok)
	}
	if _, ok := bal.Float(2); ok {
		t.Fatalf("missing balance should not be valid")
	}
	if got := tbl.Distinct(FieldMonth); len(got) != 2 || got[0] != "may" || got[1] != "jun" {
		t.Fatalf("distinct months = %#v", got)
	}
	if got := tbl.SortedDistinct(FieldMonth); got[0] != "jun" {
		t.Fatalf("sorted months = %#v", got)
	}
	lo, hi, ok := tbl.IntRange(FieldAge)
	if !ok || lo != 28 || hi != 52 {
		t.Fatalf("age range = %d..%d (%v)", lo, hi, ok)
	}
}

func TestLoadCSV_SniffsSemicolonAndTab(t *testing.T) {
	semi := writeFile(t, "bank.csv", "\"age\";\"job\";\"subscribed\"\n41;\"blue-collar\";\"no\"\n")
	tbl, err := Load(semi, LoadOptions{})
	if err != nil {
		t.Fatalf("Load semicolon: %v", err)
	}
	if !tbl.HasField(FieldJob) || tbl.Record(0).Job != "blue-collar" || tbl.Record(0).Age != 41 {
		t.Fatalf("semicolon record = %#v", tbl.Record(0))
	}

	tsv := writeFile(t, "bank.tsv", "age\tjob\n33\tstudent\n")
	tbl, err = Load(tsv, LoadOptions{})
	if err != nil {
		t.Fatalf("Load tsv: %v", err)
	}
	if tbl.Record(0).Job != "student" {
		t.Fatalf("tsv record = %#v", tbl.Record(0))
	}
}

func TestLoad_Failures(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.csv"), LoadOptions{}); err == nil {
		t.Fatalf("expected error for missing file")
	}
	empty := writeFile(t, "empty.csv", "")
	if _, err := Load(empty, LoadOptions{}); !errors.Is(err, ErrNoHeader) {
		t.Fatalf("empty file err = %v, want ErrNoHeader", err)
	}
	if _, err := Load(writeFile(t, "old.xls", "x"), LoadOptions{}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("xls err = %v, want ErrUnsupported", err)
	}
}

func TestLoadCSV_StripsByteOrderMark(t *testing.T) {
	p := writeFile(t, "excel.csv", "\ufeffage,subscribed\n30,yes\n40,no\n")
	tbl, err := Load(p, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cols := tbl.Columns(); cols[0] != FieldAge {
		t.Fatalf("first column = %q, want %q", cols[0], FieldAge)
	}
	if !tbl.HasField(FieldAge) {
		t.Fatalf("age should be present after the byte-order mark")
	}
	lo, hi, ok := tbl.IntRange(FieldAge)
	if !ok || lo != 30 || hi != 40 {
		t.Fatalf("age range = %d..%d (%v)", lo, hi, ok)
	}

	quoted := writeFile(t, "quoted.csv", "\ufeff\"age\";\"job\"\n33;\"student\"\n")
	tbl, err = Load(quoted, LoadOptions{})
	if err != nil {
		t.Fatalf("Load quoted: %v", err)
	}
	if !tbl.HasField(FieldAge) || tbl.Record(0).Job != "student" {
		t.Fatalf("quoted record = %#v", tbl.Record(0))
	}

	direct, err := New("t", []string{"\ufeffage"}, [][]string{{"1"}}, ParseOptions{})
	if err != nil || !direct.HasField(FieldAge) {
		t.Fatalf("New should drop the byte-order mark: %v", err)
	}
}

func TestLoad_HeaderOnlyIsEmptyTable(t *testing.T) {
	p := writeFile(t, "h.csv", "age,month,subscribed\n")
	tbl, err := Load(p, LoadOptions{})
	if err != nil {
		t.Fatalf("Load header-only: %v", err)
	}
	if tbl.Len() != 0 {
		t.Fatalf("rows = %d, want 0", tbl.Len())
	}
	for _, f := range []string{FieldAge, FieldMonth, FieldSubscribed} {
		if !tbl.HasField(f) {
			t.Fatalf("expected field %q", f)
		}
	}
	if _, _, ok := tbl.IntRange(FieldAge); ok {
		t.Fatalf("empty table should have no age range")
	}

	semi := writeFile(t, "h2.csv", "\"age\";\"job\"\r\n")
	tbl, err = Load(semi, LoadOptions{})
	if err != nil || tbl.Len() != 0 || !tbl.HasField(FieldJob) {
		t.Fatalf("semicolon header-only = %v, %v", tbl, err)
	}
}

func TestLoadXLSX_SheetSelection(t *testing.T) {
	wb := excelize.NewFile()
	cells := [][]interface{}{
		{"age", "job", "subscribed"},
		{35, "management", "yes"},
		{61, "retired"},
	}
	for r, row := range cells {
		for c, v := range row {
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := wb.SetCellValue("Sheet1", axis, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	p := filepath.Join(t.TempDir(), "campaign.xlsx")
	if err := wb.SaveAs(p); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}

	tbl, err := Load(p, LoadOptions{SheetIndex: 1})
	if err != nil {
		t.Fatalf("Load xlsx: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.Len())
	}
	rec := tbl.Record(1)
	if rec.Age != 61 || rec.Job != "retired" || rec.Subscribed != "" {
		t.Fatalf("ragged row = %#v", rec)
	}
	if _, err := Load(p, LoadOptions{SheetName: "Nope"}); err == nil {
		t.Fatalf("expected error for unknown sheet")
	}
}

func TestSubsetPreservesOrderAndIsIndependent(t *testing.T) {
	tbl, err := New("t", []string{"age", "job"}, [][]string{{"1", "a"}, {"2", "b"}, {"3", "c"}}, ParseOptions{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sub := tbl.Subset([]int{2, 0})
	if sub.Len() != 2 || sub.Record(0).Job != "c" || sub.Record(1).Job != "a" {
		t.Fatalf("subset = %#v", sub.Records(0))
	}
	if tbl.Len() != 3 || tbl.Record(0).Job != "a" {
		t.Fatalf("original changed: %#v", tbl.Records(0))
	}
	if got := sub.Row(0); got[0] != "3" || got[1] != "c" {
		t.Fatalf("row = %#v", got)
	}
	if n := len(tbl.Records(2)); n != 2 {
		t.Fatalf("records limit = %d", n)
	}
}

func TestParseNumericLocales(t *testing.T) {
	cases := []struct {
		in   string
		opt  ParseOptions
		want float64
		ok   bool
	}{
		{"-1", ParseOptions{}, -1, true},
		{"1.234,5", ParseOptions{}, 1234.5, true},
		{"1,234.5", ParseOptions{}, 1234.5, true},
		{"12.5%", ParseOptions{}, 12.5, true},
		{"0,5", ParseOptions{DecimalSeparator: ','}, 0.5, true},
		{"1,500", ParseOptions{}, 1.5, true},
		{"1.500", ParseOptions{}, 1.5, true},
		{"1,500", ParseOptions{ThousandsSeparator: ','}, 1500, true},
		{"1.500", ParseOptions{ThousandsSeparator: '.'}, 1500, true},
		{"1 500,25", ParseOptions{ThousandsSeparator: ' '}, 1500.25, true},
		{"NaN", ParseOptions{}, 0, false},
		{"yes", ParseOptions{}, 0, false},
	}
	for _, tc := range cases {
		got, ok := parseNumeric(tc.in, tc.opt)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Fatalf("parseNumeric(%q) = %v,%v want %v,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSourceLoadsOnce(t *testing.T) {
	calls := 0
	tbl, _ := New("t", []string{"age"}, [][]string{{"1"}}, ParseOptions{})
	s := &Source{Path: "synthetic", load: func() (*Table, error) {
		calls++
		return tbl, nil
	}}
	for i := 0; i < 3; i++ {
		got, err := s.Table()
		if err != nil || got != tbl {
			t.Fatalf("Table() = %v, %v", got, err)
		}
	}
	if calls != 1 {
		t.Fatalf("load calls = %d, want 1", calls)
	}

	failing := &Source{Path: "bad", load: func() (*Table, error) {
		calls++
		return nil, ErrNoHeader
	}}
	for i := 0; i < 2; i++ {
		if _, err := failing.Table(); !errors.Is(err, ErrNoHeader) {
			t.Fatalf("err = %v", err)
		}
	}
	if calls != 2 {
		t.Fatalf("failed load should be remembered, calls = %d", calls)
	}

	static := StaticSource(tbl)
	if got, err := static.Table(); err != nil || got != tbl {
		t.Fatalf("static = %v, %v", got, err)
	}
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	src, err := Load(writeFile(t, "campaign.csv", strings.Join(campaignRows, "\n")+"\n"), LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	out := filepath.Join(t.TempDir(), "export.csv")
	f, err := os.Create(out)
	if err != nil {
		t.Fatal(err)
	}
	if err := src.Subset([]int{2, 3}).WriteCSV(f); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	f.Close()

	back, err := Load(out, LoadOptions{})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.Len() != 2 || strings.Join(back.Columns(), ",") != strings.Join(src.Columns(), ",") {
		t.Fatalf("reloaded %d rows, columns %v", back.Len(), back.Columns())
	}
	job, _ := back.Column(FieldJob)
	if job.String(0) != "services, part-time" {
		t.Fatalf("quoted cell = %q", job.String(0))
	}
	bal, _ := back.Column(FieldBalance)
	if bal.String(0) != "" {
		t.Fatalf("missing balance exported as %q", bal.String(0))
	}

	var empty strings.Builder
	if err := src.Subset(nil).WriteCSV(&empty); err != nil {
		t.Fatalf("WriteCSV empty: %v", err)
	}
	if empty.String() != campaignRows[0]+"\n" {
		t.Fatalf("empty export = %q", empty.String())
	}
}
