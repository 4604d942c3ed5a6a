package scheduler

import (
	"context"
	"time"

	"pipeline_backend/platform/logger"
)

const defaultSLASweepInterval = time.Hour

// SLASweeper warns overdue open leads that never got a reminder.
type SLASweeper interface {
	SweepSLA(ctx context.Context) (int, error)
}

// SLASweep periodically runs the sweeper, catching leads created while the
// queue was unreachable.
type SLASweep struct {
	sweeper  SLASweeper
	log      *logger.Logger
	interval time.Duration
}

func NewSLASweep(sweeper SLASweeper, log *logger.Logger, interval time.Duration) *SLASweep {
	if interval <= 0 {
		interval = defaultSLASweepInterval
	}
	return &SLASweep{sweeper: sweeper, log: log, interval: interval}
}

func (s *SLASweep) Run(ctx context.Context) {
	if s == nil || s.sweeper == nil {
		return
	}

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *SLASweep) sweep(ctx context.Context) {
	checked, err := s.sweeper.SweepSLA(ctx)
	if err != nil {
		s.log.Warn("sla sweep failed", "error", err)
		return
	}

	if checked > 0 {
		s.log.Info("sla sweep warned overdue leads", "checked", checked)
	}
}
