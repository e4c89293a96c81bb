package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const campaignCSV = `age,job,education,default,balance,housing,loan,contact,month,duration,campaign,pdays,previous,poutcome,prev_contacted,subscribed
25,admin.,secondary,no,10,yes,no,cellular,may,100,1,-1,0,unknown,no,yes
32,admin.,tertiary,no,12,yes,yes,cellular,may,200,2,90,1,failure,yes,no
41,technician,secondary,yes,11,no,no,telephone,jun,300,3,-1,0,unknown,no,no
47,technician,primary,no,13,yes,no,cellular,may,400,1,-1,0,unknown,no,no
53,services,secondary,no,9,no,no,unknown,jun,500,2,30,2,success,yes,yes
60,admin.,tertiary,no,1000,no,yes,cellular,may,600,4,60,3,success,yes,no
`

// resetFlags restores every flag to its default so invocations do not leak state.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		_ = fl.Value.Set(fl.DefValue)
		fl.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execCmd runs the root command with args and returns its stdout.
func execCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// runCmd is execCmd for invocations that must succeed.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

// setupHome isolates config under a temp HOME and writes the sample table.
func setupHome(t *testing.T) (home, data string) {
	t.Helper()
	home = t.TempDir()
	oldHome := os.Getenv("HOME")
	t.Cleanup(func() { os.Setenv("HOME", oldHome) })
	os.Setenv("HOME", home)
	data = filepath.Join(home, "bank.csv")
	if err := os.WriteFile(data, []byte(campaignCSV), 0o644); err != nil {
		t.Fatalf("write data: %v", err)
	}
	return home, data
}

func TestCLI_DashboardMarkdown(t *testing.T) {
	_, data := setupHome(t)

	out := runCmd(t, "dashboard", "--data", data)
	for _, want := range []string{"[CAMPAIGN DASHBOARD]", "Rows: 6", "Subscribed: 33.33 %", "[DEMOGRAPHIC PROFILES]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("dashboard output missing %q:\n%s", want, out)
		}
	}
}

func TestCLI_DashboardJSONWithSelection(t *testing.T) {
	_, data := setupHome(t)

	out := runCmd(t, "dashboard", "--data", data, "--format", "json", "--month", "may", "--age-min", "30")
	var got struct {
		Rows             int `json:"rows"`
		SubscriptionRate struct {
			Value  *float64 `json:"value"`
			Status string   `json:"status"`
		} `json:"subscription_rate"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if got.Rows != 3 {
		t.Fatalf("rows = %d, want 3", got.Rows)
	}
	if got.SubscriptionRate.Value == nil || *got.SubscriptionRate.Value != 0 {
		t.Fatalf("subscription rate = %+v, want 0", got.SubscriptionRate)
	}
}

func TestCLI_DashboardWritesFileAndCharts(t *testing.T) {
	home, data := setupHome(t)
	outPath := filepath.Join(home, "out", "dash.md")
	chartsDir := filepath.Join(home, "charts")

	runCmd(t, "dashboard", "--data", data, "-o", outPath, "--charts-dir", chartsDir)
	if _, err := os.Stat(outPath); err != nil {
		t.Fatalf("missing dashboard file: %v", err)
	}
	for _, name := range []string{"job.png", "default.png", "age_histogram.png"} {
		if _, err := os.Stat(filepath.Join(chartsDir, name)); err != nil {
			t.Fatalf("missing chart %s: %v", name, err)
		}
	}
	// poutcome is gated on prior contact
	if _, err := os.Stat(filepath.Join(chartsDir, "poutcome.png")); !os.IsNotExist(err) {
		t.Fatalf("poutcome chart should not be written without prev_contacted=yes")
	}
}

func TestCLI_Controls(t *testing.T) {
	_, data := setupHome(t)

	out := runCmd(t, "controls", "--data", data, "--month", "jun")
	if !strings.Contains(out, "[CONTROLS]") || !strings.Contains(out, "- age: 41..53") {
		t.Fatalf("unexpected controls output:\n%s", out)
	}
}

func TestCLI_ReportPerMonth(t *testing.T) {
	home, data := setupHome(t)
	dir := filepath.Join(home, "reports")

	out := runCmd(t, "report", "--data", data, "--output-dir", dir)
	if !strings.Contains(out, "[1/2] Rendering") {
		t.Fatalf("missing progress output:\n%s", out)
	}
	for _, name := range []string{"may.md", "jun.md", "index.md"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
	body, err := os.ReadFile(filepath.Join(dir, "jun.md"))
	if err != nil {
		t.Fatalf("read jun report: %v", err)
	}
	if !strings.Contains(string(body), "Rows: 2") {
		t.Fatalf("jun report should cover 2 rows:\n%s", body)
	}

	// a second run must not overwrite earlier reports
	runCmd(t, "report", "--data", data, "--output-dir", dir, "--quiet")
	for _, name := range []string{"may__2.md", "jun__2.md", "index__2.md"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected collision suffix for %s: %v", name, err)
		}
	}
	first, err := os.ReadFile(filepath.Join(dir, "index.md"))
	if err != nil {
		t.Fatalf("read first index: %v", err)
	}
	if !strings.Contains(string(first), "| may.md |") || strings.Contains(string(first), "may__2.md") {
		t.Fatalf("first index was overwritten:\n%s", first)
	}
	second, err := os.ReadFile(filepath.Join(dir, "index__2.md"))
	if err != nil {
		t.Fatalf("read second index: %v", err)
	}
	if !strings.Contains(string(second), "| may__2.md |") {
		t.Fatalf("second index should list the suffixed reports:\n%s", second)
	}
}

func TestCLI_ReportRequiresOutputDir(t *testing.T) {
	_, data := setupHome(t)
	if _, err := execCmd(t, "report", "--data", data); err == nil {
		t.Fatalf("expected error without --output-dir")
	}
}

func TestCLI_ExportCSVAndJSON(t *testing.T) {
	_, data := setupHome(t)

	out := runCmd(t, "export", "--data", data, "--month", "jun")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "age,job") {
		t.Fatalf("unexpected header: %s", lines[0])
	}

	out = runCmd(t, "export", "--data", data, "--format", "json", "--trim-outliers")
	var rows []map[string]interface{}
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(rows) != 5 {
		t.Fatalf("expected the balance outlier to be trimmed, got %d rows", len(rows))
	}
}

func TestCLI_Errors(t *testing.T) {
	home, data := setupHome(t)

	if _, err := execCmd(t, "dashboard", "--data", filepath.Join(home, "missing.csv")); err == nil {
		t.Fatalf("expected error for missing data file")
	}
	if _, err := execCmd(t, "dashboard", "--data", data, "--format", "html"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
	if _, err := execCmd(t, "dashboard", "--data", data, "--age-min", "abc"); err == nil {
		t.Fatalf("expected error for non-numeric age")
	}
}

func TestCLI_HeaderOnlyFileRendersEmptyDashboard(t *testing.T) {
	home, _ := setupHome(t)
	headerOnly := filepath.Join(home, "empty.csv")
	if err := os.WriteFile(headerOnly, []byte("age,month,subscribed\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	out := runCmd(t, "dashboard", "--data", headerOnly)
	for _, want := range []string{"Rows: 0", "Subscribed: N/A", "No rows match the selection"} {
		if !strings.Contains(out, want) {
			t.Fatalf("dashboard output missing %q:\n%s", want, out)
		}
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	home, _ := setupHome(t)

	runCmd(t, "config", "set", "histogram_bins", "12")
	if _, err := os.Stat(filepath.Join(home, ".campaignlens", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	out := runCmd(t, "config", "show")
	if !strings.Contains(out, "histogram_bins: 12") {
		t.Fatalf("config show missing saved value:\n%s", out)
	}
	if _, err := execCmd(t, "config", "set", "no_such_key", "1"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}
