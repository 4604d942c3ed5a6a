// Package domain holds the period arithmetic and derived metrics of the
// sales dashboard.
package domain

import "time"

// Period selects the lead creation window the dashboard aggregates over.
type Period string

const (
	PeriodLast7Days  Period = "7d"
	PeriodLast30Days Period = "30d"
	PeriodThisMonth  Period = "thisMonth"
	PeriodAll        Period = "all"
)

// ParsePeriod accepts the query values; an empty value means PeriodAll.
func ParsePeriod(raw string) (Period, bool) {
	switch Period(raw) {
	case "":
		return PeriodAll, true
	case PeriodLast7Days, PeriodLast30Days, PeriodThisMonth, PeriodAll:
		return Period(raw), true
	default:
		return "", false
	}
}

// Start returns the earliest creation time included, or nil for PeriodAll.
func (p Period) Start(now time.Time) *time.Time {
	var start time.Time
	switch p {
	case PeriodLast7Days:
		start = now.AddDate(0, 0, -7)
	case PeriodLast30Days:
		start = now.AddDate(0, 0, -30)
	case PeriodThisMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	default:
		return nil
	}
	return &start
}

// SeriesDays is the length of the daily series: a week for PeriodLast7Days,
// thirty days otherwise.
func (p Period) SeriesDays() int {
	if p == PeriodLast7Days {
		return 7
	}
	return 30
}

// SeriesDates lists the UTC calendar days of the series, oldest first,
// ending today.
func (p Period) SeriesDates(now time.Time) []time.Time {
	days := p.SeriesDays()
	today := time.Date(now.UTC().Year(), now.UTC().Month(), now.UTC().Day(), 0, 0, 0, 0, time.UTC)

	dates := make([]time.Time, days)
	for i := 0; i < days; i++ {
		dates[i] = today.AddDate(0, 0, i-(days-1))
	}
	return dates
}
