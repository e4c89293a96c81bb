package dashboard

import (
	"sort"
	"time"

	"github.com/KaramelBytes/campaignlens/internal/analysis"
	"github.com/KaramelBytes/campaignlens/internal/chart"
	"github.com/KaramelBytes/campaignlens/internal/dataset"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Options tune a render cycle. Zero values fall back to DefaultOptions.
type Options struct {
	Stats          analysis.StatsOptions
	IQRMultiplier  float64
	HistogramBins  int
	Palette        chart.Palette
	PieColors      []string
	HistogramColor string
	Size           chart.Size
}

// DefaultOptions mirrors the stock dashboard.
func DefaultOptions() Options {
	return Options{
		Stats:          analysis.DefaultStatsOptions(),
		IQRMultiplier:  analysis.DefaultIQRMultiplier,
		HistogramBins:  30,
		Palette:        chart.DefaultPalette(),
		PieColors:      []string{"#1f77b4", "#ff7f0e"},
		HistogramColor: "#1f77b4",
		Size:           chart.DefaultSize(),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.IQRMultiplier <= 0 {
		o.IQRMultiplier = d.IQRMultiplier
	}
	if o.HistogramBins <= 0 {
		o.HistogramBins = d.HistogramBins
	}
	if o.Palette == nil {
		o.Palette = d.Palette
	}
	if o.PieColors == nil {
		o.PieColors = d.PieColors
	}
	if o.HistogramColor == "" {
		o.HistogramColor = d.HistogramColor
	}
	if o.Size.Width <= 0 || o.Size.Height <= 0 {
		o.Size = d.Size
	}
	return o
}

// Dashboard section groups, in display order.
const (
	GroupDemographics     = "Demographic Profiles"
	GroupFinancial        = "Financial Profiles"
	GroupCampaign         = "Campaign Details"
	GroupPreviousCampaign = "Previous Campaign Details"
)

// Section is one categorical comparison against the outcome.
type Section struct {
	Key       string             `json:"key"`
	Title     string             `json:"title"`
	Group     string             `json:"group"`
	Breakdown analysis.Breakdown `json:"breakdown"`
}

// Dashboard is the aggregate bundle of one render cycle. It is never
// modified after Build returns.
type Dashboard struct {
	ID                   string                   `json:"id"`
	GeneratedAt          time.Time                `json:"generated_at"`
	Source               string                   `json:"source,omitempty"`
	Selection            analysis.Selection       `json:"selection"`
	Rows                 int                      `json:"rows"`
	SubscriptionRate     analysis.Stat            `json:"subscription_rate"`
	Summary              analysis.Summary         `json:"summary"`
	Breakdowns           []Section                `json:"breakdowns"`
	DefaultCounts        []analysis.CategoryCount `json:"default_counts,omitempty"`
	AgeByOutcome         map[string][]float64     `json:"age_by_outcome,omitempty"`
	BalanceByOutcome     map[string][]float64     `json:"balance_by_outcome,omitempty"`
	BalanceTrimmed       int                      `json:"balance_trimmed"`
	AgeHistogram         []analysis.Bin           `json:"age_histogram,omitempty"`
	ShowPreviousCampaign bool                     `json:"show_previous_campaign"`
	Skipped              []string                 `json:"skipped,omitempty"`
	Outcomes             []string                 `json:"outcomes"`
	Categories           map[string][]string      `json:"categories,omitempty"`
	BoxSummaries         map[string]BoxGroup      `json:"box_summaries,omitempty"`
}

// BoxGroup holds per-outcome box summaries of one numeric field.
type BoxGroup map[string]analysis.BoxSummary

// feature is a dashboard element and the columns it needs.
type feature struct {
	key    string
	title  string
	group  string
	fields []string
}

var breakdownFeatures = []feature{
	{key: "job", title: "Job vs Subscription", group: GroupDemographics, fields: []string{dataset.FieldJob}},
	{key: "education", title: "Education Level vs Subscription", group: GroupDemographics, fields: []string{dataset.FieldEducation}},
	{key: "loan", title: "Loan Status vs Subscription", group: GroupFinancial, fields: []string{dataset.FieldLoan}},
	{key: "housing", title: "Housing Loan Status vs Subscription", group: GroupFinancial, fields: []string{dataset.FieldHousing}},
	{key: "contact", title: "Contact Method vs Subscription", group: GroupCampaign, fields: []string{dataset.FieldContact}},
	{key: "poutcome", title: "Result of Previous Campaign vs Subscription", group: GroupPreviousCampaign, fields: []string{dataset.FieldPoutcome}},
}

var (
	featureDefault      = feature{key: "default", title: "Credit Card Default Status", group: GroupFinancial, fields: []string{dataset.FieldDefault}}
	featureAgeHistogram = feature{key: "age_histogram", title: "Age Distribution", group: GroupDemographics, fields: []string{dataset.FieldAge}}
	featureAgeBox       = feature{key: "age_box", title: "Age Distribution by Subscription Status", group: GroupDemographics, fields: []string{dataset.FieldAge, dataset.FieldSubscribed}}
	featureBalanceBox   = feature{key: "balance_box", title: "Account Balance by Subscription", group: GroupFinancial, fields: []string{dataset.FieldBalance, dataset.FieldSubscribed}}
)

// available reports whether t carries every column f needs.
func (f feature) available(t *dataset.Table) bool {
	for _, name := range f.fields {
		if !t.HasField(name) {
			return false
		}
	}
	return true
}

// Build runs one render cycle: filter the table by sel and compute every
// aggregate whose columns are present. Features with missing columns are
// listed in Skipped instead of failing.
func Build(t *dataset.Table, sel analysis.Selection, opt Options) *Dashboard {
	opt = opt.withDefaults()
	view := analysis.ApplyFilters(t, sel)
	d := &Dashboard{
		ID:                   uuid.NewString(),
		GeneratedAt:          time.Now().UTC(),
		Source:               t.Name,
		Selection:            sel,
		Rows:                 view.Len(),
		SubscriptionRate:     analysis.SubscriptionRate(view),
		Summary:              analysis.SummaryStatistics(view, opt.Stats),
		ShowPreviousCampaign: sel.PrevContacted == analysis.OutcomeYes,
		Categories:           map[string][]string{},
		BoxSummaries:         map[string]BoxGroup{},
	}
	logCtx := log.WithFields(log.Fields{
		"id":        d.ID,
		"selection": sel.Key(),
		"rows":      d.Rows,
	})
	if !t.HasField(dataset.FieldSubscribed) {
		d.Skipped = append(d.Skipped, dataset.FieldSubscribed)
	} else {
		d.Outcomes = view.SortedDistinct(dataset.FieldSubscribed)
	}

	for _, f := range breakdownFeatures {
		if f.key == "poutcome" && !d.ShowPreviousCampaign {
			continue
		}
		if !f.available(t) || !t.HasField(dataset.FieldSubscribed) {
			d.Skipped = append(d.Skipped, f.key)
			continue
		}
		b, _ := analysis.PercentageBreakdown(view, f.fields[0], dataset.FieldSubscribed)
		d.Breakdowns = append(d.Breakdowns, Section{Key: f.key, Title: f.title, Group: f.group, Breakdown: b})
		d.Categories[f.fields[0]] = b.Categories
	}

	if featureDefault.available(t) {
		d.DefaultCounts = analysis.ValueCounts(view, dataset.FieldDefault)
		cats := make([]string, 0, len(d.DefaultCounts))
		for _, c := range d.DefaultCounts {
			cats = append(cats, c.Value)
		}
		sort.Strings(cats)
		d.Categories[dataset.FieldDefault] = cats
	} else {
		d.Skipped = append(d.Skipped, featureDefault.key)
	}

	if featureAgeHistogram.available(t) {
		d.AgeHistogram = analysis.Histogram(analysis.Values(view, dataset.FieldAge), opt.HistogramBins)
	} else {
		d.Skipped = append(d.Skipped, featureAgeHistogram.key)
	}

	if featureAgeBox.available(t) {
		d.AgeByOutcome = analysis.GroupedValues(view, dataset.FieldAge, dataset.FieldSubscribed)
		d.BoxSummaries[dataset.FieldAge] = describeGroups(d.AgeByOutcome)
	} else {
		d.Skipped = append(d.Skipped, featureAgeBox.key)
	}

	if featureBalanceBox.available(t) {
		trimmed := analysis.RemoveOutliersK(view, dataset.FieldBalance, opt.IQRMultiplier)
		d.BalanceTrimmed = view.Len() - trimmed.Len()
		d.BalanceByOutcome = analysis.GroupedValues(trimmed, dataset.FieldBalance, dataset.FieldSubscribed)
		d.BoxSummaries[dataset.FieldBalance] = describeGroups(d.BalanceByOutcome)
	} else {
		d.Skipped = append(d.Skipped, featureBalanceBox.key)
	}

	if len(d.Skipped) > 0 {
		logCtx = logCtx.WithField("skipped", d.Skipped)
	}
	logCtx.Debug("dashboard built")
	return d
}

func describeGroups(groups map[string][]float64) BoxGroup {
	out := BoxGroup{}
	for g, vals := range groups {
		if s, ok := analysis.Describe(vals); ok {
			out[g] = s
		}
	}
	return out
}

// Section returns the breakdown section with the given key.
func (d *Dashboard) Section(key string) (Section, bool) {
	for _, s := range d.Breakdowns {
		if s.Key == key {
			return s, true
		}
	}
	return Section{}, false
}

// IsSkipped reports whether a feature was left out for missing columns.
func (d *Dashboard) IsSkipped(key string) bool {
	for _, s := range d.Skipped {
		if s == key {
			return true
		}
	}
	return false
}
