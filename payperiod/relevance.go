package payperiod

import (
	"fmt"
	"sort"
)

// =============================================================================
// RELEVANCE CLASSIFIER
// =============================================================================

// Relevance labels a pay period against today's date.
type Relevance string

const (
	RelevanceCurrent  Relevance = "current"  // today in [StartDate, EndDate]
	RelevanceUpcoming Relevance = "upcoming" // StartDate > today
	RelevancePast     Relevance = "past"     // EndDate < today
)

// RelevanceOn classifies the period relative to a day. Bounds are inclusive
// at full-day granularity.
func (p PayPeriod) RelevanceOn(today Date) Relevance {
	switch {
	case p.Contains(today):
		return RelevanceCurrent
	case p.StartDate.After(today):
		return RelevanceUpcoming
	default:
		return RelevancePast
	}
}

// Classification is the result of classifying a period set.
type Classification struct {
	// Labels aligns index-for-index with the classified periods.
	Labels []Relevance

	// Current is the authoritative current period, nil when none exists.
	Current *PayPeriod

	Anomalies []Anomaly
}

// Classify labels each period and selects the authoritative current period.
// A well-formed cycle yields exactly one current period; zero or multiple
// matches are tolerated by selecting the first in input (template) order and
// reporting the anomaly.
func Classify(periods []PayPeriod, today Date) Classification {
	c := Classification{Labels: make([]Relevance, len(periods))}

	var currentIdx []int
	for i, p := range periods {
		c.Labels[i] = p.RelevanceOn(today)
		if c.Labels[i] == RelevanceCurrent {
			currentIdx = append(currentIdx, i)
		}
	}

	switch len(currentIdx) {
	case 0:
		c.Anomalies = append(c.Anomalies, Anomaly{
			Code:   AnomalyNoCurrentPeriod,
			Detail: fmt.Sprintf("no period contains %s", today),
		})
	case 1:
		p := periods[currentIdx[0]]
		c.Current = &p
	default:
		p := periods[currentIdx[0]]
		c.Current = &p
		c.Anomalies = append(c.Anomalies, Anomaly{
			Code:         AnomalyMultipleCurrent,
			DepartmentID: p.DepartmentID,
			Detail:       fmt.Sprintf("%d periods contain %s, using period %d", len(currentIdx), today, p.PeriodNumber),
		})
	}

	return c
}

// RecentWindow returns up to n periods ending on or before the reference
// period's end date, most recent first. The reference period itself is
// always included. Used by payroll review screens that show the current
// period plus its recent history.
func RecentWindow(periods []PayPeriod, ref PayPeriod, n int) []PayPeriod {
	var window []PayPeriod
	for _, p := range periods {
		if p.EndDate.BeforeOrEqual(ref.EndDate) {
			window = append(window, p)
		}
	}

	sort.SliceStable(window, func(i, j int) bool {
		return window[j].EndDate.Before(window[i].EndDate)
	})

	if len(window) > n {
		window = window[:n]
	}
	return window
}
