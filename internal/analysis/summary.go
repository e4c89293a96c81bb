package analysis

import (
	"github.com/KaramelBytes/campaignlens/internal/dataset"
)

// Outcome labels of the subscribed field.
const (
	OutcomeYes = "yes"
	OutcomeNo  = "no"
)

// StatsOptions controls summary statistic policies.
type StatsOptions struct {
	// ExcludePdaysSentinel drops rows with pdays == PdaysSentinel ("never
	// contacted") from the pdays mean.
	ExcludePdaysSentinel bool
	PdaysSentinel        int
}

// DefaultStatsOptions excludes the -1 "never contacted" marker from the pdays mean.
func DefaultStatsOptions() StatsOptions {
	return StatsOptions{ExcludePdaysSentinel: true, PdaysSentinel: -1}
}

// Summary holds the six scalar statistics shown next to the charts.
type Summary struct {
	MeanDurationSubscribed    Stat `json:"mean_duration_subscribed"`
	MeanDurationNotSubscribed Stat `json:"mean_duration_not_subscribed"`
	MeanCampaignSubscribed    Stat `json:"mean_campaign_subscribed"`
	MeanCampaignNotSubscribed Stat `json:"mean_campaign_not_subscribed"`
	MeanPdays                 Stat `json:"mean_pdays"`
	MeanPrevious              Stat `json:"mean_previous"`
}

// SummaryStatistics computes per-outcome means of duration and campaign and
// overall means of pdays and previous over the view.
func SummaryStatistics(t *dataset.Table, opt StatsOptions) Summary {
	var s Summary
	s.MeanDurationSubscribed = partitionMean(t, dataset.FieldDuration, OutcomeYes)
	s.MeanDurationNotSubscribed = partitionMean(t, dataset.FieldDuration, OutcomeNo)
	s.MeanCampaignSubscribed = partitionMean(t, dataset.FieldCampaign, OutcomeYes)
	s.MeanCampaignNotSubscribed = partitionMean(t, dataset.FieldCampaign, OutcomeNo)

	var keep func(x float64) bool
	if opt.ExcludePdaysSentinel {
		sentinel := float64(opt.PdaysSentinel)
		keep = func(x float64) bool { return x != sentinel }
	}
	s.MeanPdays = fieldMean(t, dataset.FieldPdays, nil, keep)
	s.MeanPrevious = fieldMean(t, dataset.FieldPrevious, nil, nil)
	return s
}

// SubscriptionRate is the share of rows with subscribed == yes, in percent.
func SubscriptionRate(t *dataset.Table) Stat {
	c, ok := t.Column(dataset.FieldSubscribed)
	if !ok {
		return NotApplicable()
	}
	if t.Len() == 0 {
		return Undefined()
	}
	var yes int
	for i := 0; i < t.Len(); i++ {
		if c.String(i) == OutcomeYes {
			yes++
		}
	}
	return Value(float64(yes) * 100 / float64(t.Len()))
}

func partitionMean(t *dataset.Table, field, outcome string) Stat {
	sub, ok := t.Column(dataset.FieldSubscribed)
	if !ok {
		return NotApplicable()
	}
	return fieldMean(t, field, func(i int) bool { return sub.String(i) == outcome }, nil)
}

// fieldMean averages the valid values of field over rows accepted by
// rowOK, skipping values rejected by keep. Nil filters accept everything.
func fieldMean(t *dataset.Table, field string, rowOK func(i int) bool, keep func(x float64) bool) Stat {
	c, ok := t.Column(field)
	if !ok {
		return NotApplicable()
	}
	var sum float64
	var n int
	for i := 0; i < t.Len(); i++ {
		if rowOK != nil && !rowOK(i) {
			continue
		}
		x, valid := c.Float(i)
		if !valid || (keep != nil && !keep(x)) {
			continue
		}
		sum += x
		n++
	}
	if n == 0 {
		return Undefined()
	}
	return Value(sum / float64(n))
}
