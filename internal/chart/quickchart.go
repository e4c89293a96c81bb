package chart

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/KaramelBytes/campaignlens/internal/analysis"
	quickchartgo "github.com/henomis/quickchart-go"
	log "github.com/sirupsen/logrus"
)

// ChartConfig is a Chart.js configuration rendered by QuickChart.
type ChartConfig struct {
	Type    string                 `json:"type"`
	Data    ChartData              `json:"data"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// ChartData holds the category labels and one Dataset per series.
type ChartData struct {
	Labels   []interface{} `json:"labels"`
	DataSets []Dataset     `json:"datasets"`
}

// Dataset is one Chart.js series. BackgroundColor is a single color or a
// per-point list.
type Dataset struct {
	Label           string        `json:"label,omitempty"`
	Data            []interface{} `json:"data"`
	BackgroundColor interface{}   `json:"backgroundColor,omitempty"`
}

func titleOption(title string) map[string]interface{} {
	return map[string]interface{}{
		"title": map[string]interface{}{"display": true, "text": title},
	}
}

// URLForConfig encodes config into a QuickChart image URL.
func URLForConfig(config ChartConfig) (string, error) {
	b, err := json.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("marshal chart config: %w", err)
	}
	qc := quickchartgo.New()
	qc.Config = string(b)
	url, err := qc.GetUrl()
	if err != nil {
		log.WithError(err).WithField("type", config.Type).Error("quickchart url")
		return "", fmt.Errorf("quickchart url: %w", err)
	}
	return url, nil
}

// BreakdownConfig is a 100% stacked bar chart, one dataset per outcome.
func BreakdownConfig(title string, b analysis.Breakdown, pal Palette) ChartConfig {
	labels := make([]interface{}, len(b.Categories))
	for i, c := range b.Categories {
		labels[i] = c
	}
	sets := make([]Dataset, 0, len(b.Outcomes))
	for _, o := range b.Outcomes {
		data := make([]interface{}, len(b.Categories))
		for i, c := range b.Categories {
			data[i] = round2(b.Percent[c][o])
		}
		sets = append(sets, Dataset{Label: o, Data: data, BackgroundColor: pal.Color(o)})
	}
	opts := titleOption(title)
	opts["scales"] = map[string]interface{}{
		"xAxes": []interface{}{map[string]interface{}{"stacked": true}},
		"yAxes": []interface{}{map[string]interface{}{"stacked": true, "ticks": map[string]interface{}{"max": 100}}},
	}
	return ChartConfig{Type: "bar", Data: ChartData{Labels: labels, DataSets: sets}, Options: opts}
}

// PieConfig is a pie chart of counts.
func PieConfig(title string, counts []analysis.CategoryCount, colors []string) ChartConfig {
	labels := make([]interface{}, len(counts))
	data := make([]interface{}, len(counts))
	bg := make([]string, len(counts))
	pal := Palette{}
	for i, c := range counts {
		labels[i] = c.Value
		data[i] = c.Count
		bg[i] = pal.Color(c.Value)
		if i < len(colors) {
			bg[i] = colors[i]
		}
	}
	return ChartConfig{
		Type:    "pie",
		Data:    ChartData{Labels: labels, DataSets: []Dataset{{Data: data, BackgroundColor: bg}}},
		Options: titleOption(title),
	}
}

// BoxPlotConfig draws one box per group from precomputed summaries so the
// URL stays small regardless of sample size.
func BoxPlotConfig(title string, groups map[string][]float64, pal Palette) ChartConfig {
	names := make([]string, 0, len(groups))
	for g := range groups {
		names = append(names, g)
	}
	sort.Strings(names)
	labels := make([]interface{}, 0, len(names))
	data := make([]interface{}, 0, len(names))
	bg := make([]string, 0, len(names))
	for _, g := range names {
		s, ok := analysis.Describe(groups[g])
		if !ok {
			continue
		}
		labels = append(labels, g)
		data = append(data, map[string]float64{
			"min":    s.LowerWhisker,
			"q1":     s.Q1,
			"median": s.Median,
			"q3":     s.Q3,
			"max":    s.UpperWhisker,
		})
		bg = append(bg, pal.Color(g))
	}
	return ChartConfig{
		Type:    "boxplot",
		Data:    ChartData{Labels: labels, DataSets: []Dataset{{Label: title, Data: data, BackgroundColor: bg}}},
		Options: titleOption(title),
	}
}

// HistogramConfig is a bar chart of bin counts labelled by lower bound.
func HistogramConfig(title string, bins []analysis.Bin, color string) ChartConfig {
	labels := make([]interface{}, len(bins))
	data := make([]interface{}, len(bins))
	for i, b := range bins {
		labels[i] = fmt.Sprintf("%.0f", b.Lo)
		data[i] = b.Count
	}
	return ChartConfig{
		Type:    "bar",
		Data:    ChartData{Labels: labels, DataSets: []Dataset{{Label: "count", Data: data, BackgroundColor: color}}},
		Options: titleOption(title),
	}
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
