package dashboard

import (
	"fmt"
	"io"

	"github.com/KaramelBytes/campaignlens/internal/chart"
	log "github.com/sirupsen/logrus"
)

// ChartNames lists the PNG charts a dashboard can render.
var ChartNames = []string{"job", "education", "loan", "housing", "contact", "poutcome", "default", "age_histogram"}

func knownChart(name string) bool {
	for _, n := range ChartNames {
		if n == name {
			return true
		}
	}
	return false
}

// RenderChart writes the named chart as PNG. It returns chart.ErrUnknownChart
// for names outside ChartNames and chart.ErrNoData when the feature is
// unavailable for this bundle.
func (d *Dashboard) RenderChart(w io.Writer, name string, opt Options) error {
	if !knownChart(name) {
		return fmt.Errorf("%w: %s", chart.ErrUnknownChart, name)
	}
	opt = opt.withDefaults()
	pal := opt.Palette.Extend(d.Outcomes)
	switch name {
	case featureDefault.key:
		return chart.RenderPie(w, featureDefault.title, d.DefaultCounts, opt.PieColors, opt.Size)
	case featureAgeHistogram.key:
		return chart.RenderHistogram(w, featureAgeHistogram.title, d.AgeHistogram, opt.HistogramColor, opt.Size)
	}
	s, ok := d.Section(name)
	if !ok {
		return fmt.Errorf("%s: %w", name, chart.ErrNoData)
	}
	return chart.RenderBreakdown(w, s.Title, s.Breakdown, pal, opt.Size)
}

// ChartURLs returns QuickChart image URLs for every available chart,
// including the age and balance box plots.
func (d *Dashboard) ChartURLs(opt Options) map[string]string {
	opt = opt.withDefaults()
	pal := opt.Palette.Extend(d.Outcomes)
	configs := map[string]chart.ChartConfig{}
	for _, s := range d.Breakdowns {
		configs[s.Key] = chart.BreakdownConfig(s.Title, s.Breakdown, pal)
	}
	if len(d.DefaultCounts) > 0 {
		configs[featureDefault.key] = chart.PieConfig(featureDefault.title, d.DefaultCounts, opt.PieColors)
	}
	if len(d.AgeHistogram) > 0 {
		configs[featureAgeHistogram.key] = chart.HistogramConfig(featureAgeHistogram.title, d.AgeHistogram, opt.HistogramColor)
	}
	if len(d.AgeByOutcome) > 0 {
		configs[featureAgeBox.key] = chart.BoxPlotConfig(featureAgeBox.title, d.AgeByOutcome, pal)
	}
	if len(d.BalanceByOutcome) > 0 {
		configs[featureBalanceBox.key] = chart.BoxPlotConfig(featureBalanceBox.title, d.BalanceByOutcome, pal)
	}

	out := make(map[string]string, len(configs))
	for name, cfg := range configs {
		url, err := chart.URLForConfig(cfg)
		if err != nil {
			log.WithFields(log.Fields{"id": d.ID, "chart": name}).WithError(err).Warn("chart url skipped")
			continue
		}
		out[name] = url
	}
	return out
}
