package dashboard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/campaignlens/internal/analysis"
	"github.com/KaramelBytes/campaignlens/internal/dataset"
)

// Markdown renders the bundle as a standalone text report.
func (d *Dashboard) Markdown() string {
	var b strings.Builder
	b.WriteString("[CAMPAIGN DASHBOARD]\n")
	if d.Source != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", d.Source))
	}
	b.WriteString(fmt.Sprintf("Selection: %s\n", describeSelection(d.Selection)))
	b.WriteString(fmt.Sprintf("Rows: %d\n", d.Rows))
	b.WriteString(fmt.Sprintf("Subscribed: %s\n", percent(d.SubscriptionRate)))

	groups := []string{GroupDemographics, GroupFinancial, GroupCampaign}
	if d.ShowPreviousCampaign {
		groups = append(groups, GroupPreviousCampaign)
	}
	for _, g := range groups {
		b.WriteString("\n[" + strings.ToUpper(g) + "]\n")
		switch g {
		case GroupDemographics:
			if len(d.AgeHistogram) > 0 {
				writeHistogram(&b, featureAgeHistogram.title, d.AgeHistogram)
			}
			if bg, ok := d.BoxSummaries[dataset.FieldAge]; ok {
				writeBoxGroup(&b, featureAgeBox.title, bg)
			}
		case GroupFinancial:
			if len(d.DefaultCounts) > 0 {
				writeCounts(&b, featureDefault.title, d.DefaultCounts)
			}
			if bg, ok := d.BoxSummaries[dataset.FieldBalance]; ok {
				writeBoxGroup(&b, featureBalanceBox.title, bg)
				if d.BalanceTrimmed > 0 {
					b.WriteString(fmt.Sprintf("  (%d outlier rows removed)\n", d.BalanceTrimmed))
				}
			}
		case GroupCampaign:
			s := d.Summary
			b.WriteString(fmt.Sprintf("- Average last call duration: subscribed %s, not subscribed %s\n",
				s.MeanDurationSubscribed.Format(), s.MeanDurationNotSubscribed.Format()))
			b.WriteString(fmt.Sprintf("- Average times contacted: subscribed %s, not subscribed %s\n",
				s.MeanCampaignSubscribed.Format(), s.MeanCampaignNotSubscribed.Format()))
		case GroupPreviousCampaign:
			b.WriteString(fmt.Sprintf("- Average times previously contacted: %s\n", d.Summary.MeanPrevious.Format()))
			b.WriteString(fmt.Sprintf("- Average days since last contact: %s\n", d.Summary.MeanPdays.Format()))
		}
		for _, s := range d.Breakdowns {
			if s.Group == g {
				writeBreakdown(&b, s)
			}
		}
	}
	if !d.ShowPreviousCampaign {
		b.WriteString("\n[SUMMARY]\n")
		b.WriteString(fmt.Sprintf("- Average times previously contacted: %s\n", d.Summary.MeanPrevious.Format()))
		b.WriteString(fmt.Sprintf("- Average days since last contact: %s\n", d.Summary.MeanPdays.Format()))
	}

	var notes []string
	if d.Rows == 0 {
		notes = append(notes, "No rows match the selection; statistics are N/A.")
	}
	for _, k := range d.Skipped {
		notes = append(notes, fmt.Sprintf("%s skipped: column not present in the dataset", k))
	}
	if len(notes) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, n := range notes {
			b.WriteString("- ")
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func describeSelection(sel analysis.Selection) string {
	parts := []string{}
	if sel.Month != "" {
		parts = append(parts, "month="+sel.Month)
	}
	if sel.PrevContacted != "" {
		parts = append(parts, "prev_contacted="+sel.PrevContacted)
	}
	if sel.Age != nil {
		parts = append(parts, fmt.Sprintf("age=%d..%d", sel.Age.Min, sel.Age.Max))
	}
	if len(parts) == 0 {
		return "all rows"
	}
	return strings.Join(parts, ", ")
}

func percent(s analysis.Stat) string {
	if !s.OK() {
		return s.Format()
	}
	return s.Format() + " %"
}

func writeBreakdown(b *strings.Builder, s Section) {
	bd := s.Breakdown
	b.WriteString(fmt.Sprintf("- %s\n", s.Title))
	if len(bd.Categories) == 0 {
		b.WriteString("  (no rows)\n")
		return
	}
	b.WriteString("| " + safeVal(bd.Category))
	for _, o := range bd.Outcomes {
		b.WriteString(" | " + safeVal(o))
	}
	b.WriteString(" | n |\n|---")
	for range bd.Outcomes {
		b.WriteString("|---")
	}
	b.WriteString("|---|\n")
	for _, c := range bd.Categories {
		b.WriteString("| " + safeVal(c))
		for _, o := range bd.Outcomes {
			b.WriteString(" | " + analysis.Value(bd.Percent[c][o]).Format() + "%")
		}
		b.WriteString(fmt.Sprintf(" | %d |\n", bd.Total(c)))
	}
}

func writeCounts(b *strings.Builder, title string, counts []analysis.CategoryCount) {
	var total int
	for _, c := range counts {
		total += c.Count
	}
	b.WriteString(fmt.Sprintf("- %s: ", title))
	for i, c := range counts {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(fmt.Sprintf("%s(%d, %.1f%%)", safeVal(c.Value), c.Count, float64(c.Count)*100/float64(total)))
	}
	b.WriteString("\n")
}

func writeBoxGroup(b *strings.Builder, title string, bg BoxGroup) {
	b.WriteString(fmt.Sprintf("- %s\n", title))
	keys := make([]string, 0, len(bg))
	for k := range bg {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		b.WriteString("  (no rows)\n")
	}
	for _, k := range keys {
		s := bg[k]
		b.WriteString(fmt.Sprintf("  • %s (n=%d): min %.4g, q1 %.4g, median %.4g, q3 %.4g, max %.4g\n",
			safeVal(k), s.Count, s.Min, s.Q1, s.Median, s.Q3, s.Max))
	}
}

func writeHistogram(b *strings.Builder, title string, bins []analysis.Bin) {
	peak := bins[0]
	for _, bin := range bins[1:] {
		if bin.Count > peak.Count {
			peak = bin
		}
	}
	b.WriteString(fmt.Sprintf("- %s: %d bins over %.4g..%.4g, peak %.4g..%.4g (%d rows)\n",
		title, len(bins), bins[0].Lo, bins[len(bins)-1].Hi, peak.Lo, peak.Hi, peak.Count))
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
