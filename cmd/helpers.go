package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/campaignlens/internal/analysis"
	"github.com/KaramelBytes/campaignlens/internal/chart"
	"github.com/KaramelBytes/campaignlens/internal/dashboard"
	"github.com/KaramelBytes/campaignlens/internal/dataset"
	"github.com/KaramelBytes/campaignlens/internal/utils"
	"github.com/spf13/cobra"
)

// selectionFlags are the filter flags shared by commands that render a selection.
type selectionFlags struct {
	month         string
	prevContacted string
	ageMin        string
	ageMax        string
}

func (f *selectionFlags) bind(cmd *cobra.Command, withAge bool) {
	cmd.Flags().StringVar(&f.month, "month", "", "only rows for this month (e.g. may)")
	cmd.Flags().StringVar(&f.prevContacted, "prev-contacted", "", "only rows with this prior-contact flag (e.g. yes)")
	if withAge {
		cmd.Flags().StringVar(&f.ageMin, "age-min", "", "inclusive minimum age (defaults to observed minimum)")
		cmd.Flags().StringVar(&f.ageMax, "age-max", "", "inclusive maximum age (defaults to observed maximum)")
	}
}

// selection resolves the flags against t. A single age bound is completed
// from the range observed after the month and prior-contact filters.
func (f *selectionFlags) selection(t *dataset.Table) (analysis.Selection, error) {
	sel := analysis.Selection{
		Month:         strings.TrimSpace(f.month),
		PrevContacted: strings.TrimSpace(f.prevContacted),
	}
	if f.ageMin == "" && f.ageMax == "" {
		return sel, nil
	}
	age, err := analysis.ParseAgeRange(f.ageMin, f.ageMax, dashboard.BuildControls(t, sel).Age)
	if err != nil {
		return sel, err
	}
	sel.Age = age
	return sel, nil
}

// dashboardOptions maps configuration onto render options.
func dashboardOptions() dashboard.Options {
	opt := dashboard.DefaultOptions()
	if cfg == nil {
		return opt
	}
	opt.Stats = analysis.StatsOptions{
		ExcludePdaysSentinel: cfg.ExcludePdaysSentinel,
		PdaysSentinel:        cfg.PdaysSentinel,
	}
	if cfg.IQRMultiplier > 0 {
		opt.IQRMultiplier = cfg.IQRMultiplier
	}
	if cfg.HistogramBins > 0 {
		opt.HistogramBins = cfg.HistogramBins
	}
	if len(cfg.Palette) > 0 {
		opt.Palette = chart.Palette(cfg.Palette)
	}
	if len(cfg.PieColors) > 0 {
		opt.PieColors = cfg.PieColors
	}
	if cfg.ChartWidth > 0 && cfg.ChartHeight > 0 {
		opt.Size = chart.Size{Width: cfg.ChartWidth, Height: cfg.ChartHeight}
	}
	return opt
}

// emit writes body to path, or to the command's stdout when path is empty.
func emit(cmd *cobra.Command, path string, body []byte, what string) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(body)
		return err
	}
	if err := utils.SafeWriteFile(path, body); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s to %s\n", what, path)
	return nil
}

func checkFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("unsupported --format: %s (use %s)", format, strings.Join(allowed, "|"))
}

// writeCharts renders every available PNG chart of d into dir.
func writeCharts(d *dashboard.Dashboard, dir, prefix string, opt dashboard.Options) ([]string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, err
	}
	var written []string
	for _, name := range dashboard.ChartNames {
		path := filepath.Join(dir, prefix+name+".png")
		f, err := os.Create(path)
		if err != nil {
			return written, fmt.Errorf("create chart: %w", err)
		}
		err = d.RenderChart(f, name, opt)
		cerr := f.Close()
		if err != nil {
			_ = os.Remove(path)
			if isNoChart(err) {
				continue
			}
			return written, err
		}
		if cerr != nil {
			return written, fmt.Errorf("close chart: %w", cerr)
		}
		written = append(written, path)
	}
	return written, nil
}

// isNoChart reports a chart that is unavailable for the current selection.
func isNoChart(err error) bool { return errors.Is(err, chart.ErrNoData) }
