package domain

import (
	"testing"
	"time"
)

func TestParsePeriod(t *testing.T) {
	cases := map[string]Period{
		"":          PeriodAll,
		"7d":        PeriodLast7Days,
		"30d":       PeriodLast30Days,
		"thisMonth": PeriodThisMonth,
		"all":       PeriodAll,
	}
	for raw, want := range cases {
		got, ok := ParsePeriod(raw)
		if !ok || got != want {
			t.Fatalf("expected %q for %q, got %q (ok=%v)", want, raw, got, ok)
		}
	}
	if _, ok := ParsePeriod("yesterday"); ok {
		t.Fatalf("expected unknown period to be rejected")
	}
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

	if PeriodAll.Start(now) != nil {
		t.Fatalf("expected no start for all")
	}
	if got := PeriodLast7Days.Start(now); !got.Equal(time.Date(2024, time.March, 8, 10, 30, 0, 0, time.UTC)) {
		t.Fatalf("expected seven days back, got %v", got)
	}
	if got := PeriodThisMonth.Start(now); !got.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected first of month, got %v", got)
	}
}

func TestSeriesDatesEndToday(t *testing.T) {
	now := time.Date(2024, time.March, 3, 23, 0, 0, 0, time.UTC)

	dates := PeriodLast7Days.SeriesDates(now)
	if len(dates) != 7 {
		t.Fatalf("expected 7 dates, got %d", len(dates))
	}
	if !dates[6].Equal(time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected series to end today, got %v", dates[6])
	}
	if !dates[0].Equal(time.Date(2024, time.February, 26, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected series to start six days earlier, got %v", dates[0])
	}
	if got := len(PeriodAll.SeriesDates(now)); got != 30 {
		t.Fatalf("expected 30 dates for all, got %d", got)
	}
}

func TestConversionRateAndTicket(t *testing.T) {
	if got := ConversionRate(1, 3); got != 33.3 {
		t.Fatalf("expected 33.3, got %v", got)
	}
	if got := ConversionRate(5, 0); got != 0 {
		t.Fatalf("expected 0 without attended leads, got %v", got)
	}
	if got := AverageTicket(100000, 3); got != 33333 {
		t.Fatalf("expected 33333, got %d", got)
	}
	if got := AverageTicket(0, 0); got != 0 {
		t.Fatalf("expected 0 without wins, got %d", got)
	}
}
