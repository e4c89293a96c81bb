package chart

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/KaramelBytes/campaignlens/internal/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG")

func sampleBreakdown() analysis.Breakdown {
	return analysis.Breakdown{
		Category:   "job",
		Outcome:    "y",
		Categories: []string{"admin.", "services"},
		Outcomes:   []string{"no", "yes"},
		Counts: map[string]map[string]int{
			"admin.":   {"no": 3, "yes": 1},
			"services": {"no": 1, "yes": 1},
		},
		Percent: map[string]map[string]float64{
			"admin.":   {"no": 75, "yes": 25},
			"services": {"no": 50, "yes": 50},
		},
	}
}

func TestPalette_ColorAndFallback(t *testing.T) {
	p := DefaultPalette()
	assert.Equal(t, "#ff7f0e", p.Color("yes"))
	assert.Equal(t, "#65bcff", p.Color("no"))

	p["maybe"] = "ABCDEF"
	assert.Equal(t, "#abcdef", p.Color("maybe"))

	first := p.Color("unknown")
	assert.Equal(t, first, p.Color("unknown"), "fallback must be stable")
	assert.Contains(t, fallbackColors, first)

	ext := p.Extend([]string{"yes", "other"})
	assert.Equal(t, "#ff7f0e", ext["yes"])
	assert.Equal(t, p.Color("other"), ext["other"])
	_, mutated := p["other"]
	assert.False(t, mutated)
}

func TestRenderBreakdown_PNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderBreakdown(&buf, "Job", sampleBreakdown(), DefaultPalette(), DefaultSize()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestRenderPie_PNG(t *testing.T) {
	var buf bytes.Buffer
	counts := []analysis.CategoryCount{{Value: "no", Count: 5}, {Value: "yes", Count: 1}}
	require.NoError(t, RenderPie(&buf, "Default", counts, []string{"#ff9999", "#66b3ff"}, DefaultSize()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestRenderHistogram_PNG(t *testing.T) {
	bins := analysis.Histogram([]float64{25, 30, 30, 41, 52, 60}, 5)
	var buf bytes.Buffer
	require.NoError(t, RenderHistogram(&buf, "Age", bins, "#1f77b4", DefaultSize()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestRender_NoData(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, RenderBreakdown(&buf, "x", analysis.Breakdown{}, DefaultPalette(), DefaultSize()), ErrNoData)
	assert.ErrorIs(t, RenderPie(&buf, "x", nil, nil, DefaultSize()), ErrNoData)
	assert.ErrorIs(t, RenderPie(&buf, "x", []analysis.CategoryCount{{Value: "a"}}, nil, DefaultSize()), ErrNoData)
	assert.ErrorIs(t, RenderHistogram(&buf, "x", nil, "#000000", DefaultSize()), ErrNoData)
	assert.Zero(t, buf.Len())
}

func TestBreakdownConfig(t *testing.T) {
	cfg := BreakdownConfig("Job", sampleBreakdown(), DefaultPalette())
	assert.Equal(t, "bar", cfg.Type)
	require.Len(t, cfg.Data.DataSets, 2)
	assert.Equal(t, "no", cfg.Data.DataSets[0].Label)
	assert.Equal(t, []interface{}{75.0, 50.0}, cfg.Data.DataSets[0].Data)
	assert.Equal(t, "#ff7f0e", cfg.Data.DataSets[1].BackgroundColor)

	b, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"stacked":true`)
}

func TestBoxPlotConfig_SkipsEmptyGroups(t *testing.T) {
	cfg := BoxPlotConfig("Age", map[string][]float64{
		"yes": {30, 41, 52},
		"no":  {},
	}, DefaultPalette())
	assert.Equal(t, "boxplot", cfg.Type)
	assert.Equal(t, []interface{}{"yes"}, cfg.Data.Labels)
	require.Len(t, cfg.Data.DataSets[0].Data, 1)
	box := cfg.Data.DataSets[0].Data[0].(map[string]float64)
	assert.Equal(t, 41.0, box["median"])
}

func TestURLForConfig(t *testing.T) {
	counts := []analysis.CategoryCount{{Value: "no", Count: 5}, {Value: "yes", Count: 1}}
	url, err := URLForConfig(PieConfig("Default", counts, nil))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http"), url)
}
