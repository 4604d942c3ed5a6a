package domain

import "time"

// SLAWindow is how long a new or in-progress lead may wait for action.
const SLAWindow = 48 * time.Hour

// DefaultSLAReminderOffset fires the reminder with 12 hours left.
const DefaultSLAReminderOffset = 36 * time.Hour

// SLABucket classifies the time left in the SLA window.
type SLABucket string

const (
	SLANormal   SLABucket = "normal"
	SLAWarning  SLABucket = "warning"
	SLACritical SLABucket = "critical"
	SLAExpired  SLABucket = "expired"
)

const (
	slaWarningThreshold  = 24 * time.Hour
	slaCriticalThreshold = 12 * time.Hour
)

// SLA is a read-side projection and is never stored.
type SLA struct {
	Deadline  time.Time
	Remaining time.Duration
	Bucket    SLABucket
}

// ComputeSLA returns the SLA of a lead, or false when its status is not covered.
func ComputeSLA(status Status, createdAt, now time.Time) (SLA, bool) {
	if !status.RequiresAction() {
		return SLA{}, false
	}

	deadline := createdAt.Add(SLAWindow)
	remaining := deadline.Sub(now)

	return SLA{
		Deadline:  deadline,
		Remaining: remaining,
		Bucket:    bucketFor(remaining),
	}, true
}

func bucketFor(remaining time.Duration) SLABucket {
	switch {
	case remaining <= 0:
		return SLAExpired
	case remaining < slaCriticalThreshold:
		return SLACritical
	case remaining < slaWarningThreshold:
		return SLAWarning
	default:
		return SLANormal
	}
}
