package domain

import (
	"testing"
	"time"
)

func TestComputeSLABuckets(t *testing.T) {
	created := time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC)
	deadline := created.Add(SLAWindow)

	cases := []struct {
		remaining time.Duration
		want      SLABucket
	}{
		{30 * time.Hour, SLANormal},
		{24 * time.Hour, SLANormal},
		{20 * time.Hour, SLAWarning},
		{12 * time.Hour, SLAWarning},
		{6 * time.Hour, SLACritical},
		{0, SLAExpired},
		{-time.Hour, SLAExpired},
	}

	for _, tc := range cases {
		sla, ok := ComputeSLA(StatusNovoLead, created, deadline.Add(-tc.remaining))
		if !ok {
			t.Fatal("expected novo_lead to have an SLA")
		}
		if sla.Bucket != tc.want {
			t.Fatalf("remaining %v: expected %s, got %s", tc.remaining, tc.want, sla.Bucket)
		}
		if sla.Remaining != tc.remaining {
			t.Fatalf("expected remaining %v, got %v", tc.remaining, sla.Remaining)
		}
		if !sla.Deadline.Equal(deadline) {
			t.Fatalf("expected deadline %v, got %v", deadline, sla.Deadline)
		}
	}
}

func TestComputeSLAOnlyForOpenStatuses(t *testing.T) {
	now := time.Now()
	if _, ok := ComputeSLA(StatusEmAtendimento, now, now); !ok {
		t.Fatal("expected em_atendimento to have an SLA")
	}
	for _, status := range []Status{StatusFinalizado, StatusInteresseOutros, StatusGanho} {
		if _, ok := ComputeSLA(status, now, now); ok {
			t.Fatalf("expected %s to have no SLA", status)
		}
	}
}
