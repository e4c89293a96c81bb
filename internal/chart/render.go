package chart

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/campaignlens/internal/analysis"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	// ErrNoData is returned when there is nothing to draw.
	ErrNoData = errors.New("no data to chart")
	// ErrUnknownChart is returned for a chart name that is not offered.
	ErrUnknownChart = errors.New("unknown chart")
)

// Size is the output size of a PNG chart in pixels.
type Size struct {
	Width  int
	Height int
}

// DefaultSize matches a half-width dashboard panel.
func DefaultSize() Size { return Size{Width: 800, Height: 480} }

func fill(hex string) gochart.Style {
	c := drawing.ColorFromHex(strings.TrimPrefix(normalizeHex(hex), "#"))
	return gochart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1}
}

func titled() gochart.Style {
	return gochart.Style{Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}}
}

// barLayout spreads n bars across the canvas width.
func barLayout(width, n int) (barWidth, spacing int) {
	if n <= 0 {
		return 40, 10
	}
	slot := (width - 120) / n
	if slot < 6 {
		slot = 6
	}
	spacing = slot / 5
	barWidth = slot - spacing
	return barWidth, spacing
}

// RenderBreakdown draws a 100% stacked bar per category, one segment per outcome.
func RenderBreakdown(w io.Writer, title string, b analysis.Breakdown, pal Palette, size Size) error {
	if len(b.Categories) == 0 || len(b.Outcomes) == 0 {
		return ErrNoData
	}
	barWidth, spacing := barLayout(size.Width, len(b.Categories))
	bars := make([]gochart.StackedBar, 0, len(b.Categories))
	for _, cat := range b.Categories {
		vals := make([]gochart.Value, 0, len(b.Outcomes))
		for _, o := range b.Outcomes {
			vals = append(vals, gochart.Value{
				Label: o,
				Value: b.Percent[cat][o],
				Style: fill(pal.Color(o)),
			})
		}
		bars = append(bars, gochart.StackedBar{Name: cat, Width: barWidth, Values: vals})
	}
	c := gochart.StackedBarChart{
		Title:      title,
		Width:      size.Width,
		Height:     size.Height,
		Background: titled(),
		BarSpacing: spacing,
		Bars:       bars,
	}
	if err := c.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render %s: %w", title, err)
	}
	return nil
}

// RenderPie draws a count distribution. colors are applied in order; values
// beyond the list use palette fallbacks.
func RenderPie(w io.Writer, title string, counts []analysis.CategoryCount, colors []string, size Size) error {
	var total int
	for _, c := range counts {
		total += c.Count
	}
	if total == 0 {
		return ErrNoData
	}
	pal := Palette{}
	vals := make([]gochart.Value, 0, len(counts))
	for i, c := range counts {
		color := pal.Color(c.Value)
		if i < len(colors) {
			color = colors[i]
		}
		vals = append(vals, gochart.Value{
			Label: fmt.Sprintf("%s (%.1f%%)", c.Value, float64(c.Count)*100/float64(total)),
			Value: float64(c.Count),
			Style: fill(color),
		})
	}
	pc := gochart.PieChart{
		Title:      title,
		Width:      size.Width,
		Height:     size.Height,
		Background: titled(),
		Values:     vals,
	}
	if err := pc.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render %s: %w", title, err)
	}
	return nil
}

// RenderHistogram draws equal-width bins as vertical bars.
func RenderHistogram(w io.Writer, title string, bins []analysis.Bin, color string, size Size) error {
	if len(bins) == 0 {
		return ErrNoData
	}
	barWidth, spacing := barLayout(size.Width, len(bins))
	bars := make([]gochart.Value, 0, len(bins))
	maxCount := 0
	for _, b := range bins {
		if b.Count > maxCount {
			maxCount = b.Count
		}
		bars = append(bars, gochart.Value{
			Label: fmt.Sprintf("%.0f", b.Lo),
			Value: float64(b.Count),
			Style: fill(color),
		})
	}
	bc := gochart.BarChart{
		Title:      title,
		Width:      size.Width,
		Height:     size.Height,
		Background: titled(),
		BarWidth:   barWidth,
		BarSpacing: spacing,
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: float64(maxCount) + 1},
		},
		Bars: bars,
	}
	if err := bc.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render %s: %w", title, err)
	}
	return nil
}
