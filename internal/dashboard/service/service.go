// Package service assembles the sales dashboard. Vendedores only ever see
// their own numbers; administrators may narrow to one vendedor.
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"pipeline_backend/internal/dashboard/cache"
	"pipeline_backend/internal/dashboard/domain"
	"pipeline_backend/internal/dashboard/repository"
	"pipeline_backend/internal/dashboard/transport"
	"pipeline_backend/internal/events"
	"pipeline_backend/platform/apperr"
	"pipeline_backend/platform/httpkit"
	"pipeline_backend/platform/logger"
)

const statusGanho = "ganho"

// Service computes and caches dashboards.
type Service struct {
	repo  repository.Repository
	cache cache.Cache
	log   *logger.Logger
	now   func() time.Time
}

// New creates a dashboard service. A nil cache computes every request.
func New(repo repository.Repository, c cache.Cache, log *logger.Logger) *Service {
	return &Service{repo: repo, cache: c, log: log, now: time.Now}
}

// Get returns the dashboard for the caller.
func (s *Service) Get(ctx context.Context, actor httpkit.Identity, req transport.DashboardRequest) (transport.DashboardResponse, error) {
	period, ok := domain.ParsePeriod(req.Period)
	if !ok {
		return transport.DashboardResponse{}, apperr.Validation("period must be one of 7d, 30d, thisMonth, all")
	}

	var vendedorID *uuid.UUID
	if req.VendedorID != "" {
		id, err := uuid.Parse(req.VendedorID)
		if err != nil {
			return transport.DashboardResponse{}, apperr.Validation("invalid vendedorId")
		}
		vendedorID = &id
	}
	if !actor.IsAdmin() {
		own := actor.UserID()
		vendedorID = &own
	}

	key := cacheKey(period, vendedorID)
	gen, cached := s.lookup(ctx, key)
	if cached != nil {
		return *cached, nil
	}

	result, err := s.compute(ctx, period, vendedorID)
	if err != nil {
		return transport.DashboardResponse{}, err
	}

	s.store(ctx, gen, key, result)
	return result, nil
}

func (s *Service) compute(ctx context.Context, period domain.Period, vendedorID *uuid.UUID) (transport.DashboardResponse, error) {
	now := s.now()
	filter := repository.Filter{Since: period.Start(now), VendedorID: vendedorID}
	dates := period.SeriesDates(now)

	var (
		statuses       []repository.StatusTotal
		vendedorTotals []repository.VendedorTotal
		daily          []repository.DailyTotal
		closers        []repository.CloserTotal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		statuses, err = s.repo.StatusTotals(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		vendedorTotals, err = s.repo.VendedorTotals(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		daily, err = s.repo.DailyTotals(gctx, filter, dates[0])
		return err
	})
	g.Go(func() error {
		var err error
		closers, err = s.repo.CloserTotals(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.DashboardResponse{}, err
	}

	return transport.DashboardResponse{
		Period:     string(period),
		VendedorID: vendedorID,
		Summary:    toSummary(statuses),
		Vendedores: toVendedorRows(vendedorTotals),
		Daily:      toDailyPoints(dates, daily),
		Closers:    toCloserRows(closers),
	}, nil
}

// HandleLeadEvent invalidates every cached dashboard.
func (s *Service) HandleLeadEvent(ctx context.Context, event events.Event) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Bump(ctx); err != nil {
		s.log.Warn("dashboard cache invalidation failed", "event", event.EventName(), "error", err)
		return err
	}
	return nil
}

// lookup never fails the request; a broken cache only costs a recompute.
func (s *Service) lookup(ctx context.Context, key string) (int64, *transport.DashboardResponse) {
	if s.cache == nil {
		return 0, nil
	}

	gen, err := s.cache.Generation(ctx)
	if err != nil {
		s.log.Warn("dashboard cache unavailable", "error", err)
		return 0, nil
	}

	raw, ok, err := s.cache.Get(ctx, gen, key)
	if err != nil || !ok {
		return gen, nil
	}

	var result transport.DashboardResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return gen, nil
	}
	return gen, &result
}

func (s *Service) store(ctx context.Context, gen int64, key string, result transport.DashboardResponse) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, gen, key, raw); err != nil {
		s.log.Warn("dashboard cache write failed", "error", err)
	}
}

func cacheKey(period domain.Period, vendedorID *uuid.UUID) string {
	scope := "all"
	if vendedorID != nil {
		scope = vendedorID.String()
	}
	return string(period) + ":" + scope
}

func toSummary(totals []repository.StatusTotal) transport.Summary {
	summary := transport.Summary{ByStatus: make(map[string]int, len(totals))}
	attended := 0
	for _, t := range totals {
		summary.ByStatus[t.Status] = t.Count
		summary.TotalLeads += t.Count
		if t.Status != "novo_lead" {
			attended += t.Count
		}
		if t.Status == statusGanho {
			summary.WonCount = t.Count
			summary.WonCents = t.WonCents
		}
	}
	summary.ConversionRate = domain.ConversionRate(summary.WonCount, attended)
	summary.AverageTicket = domain.AverageTicket(summary.WonCents, summary.WonCount)
	return summary
}

func toVendedorRows(totals []repository.VendedorTotal) []transport.VendedorRow {
	rows := make([]transport.VendedorRow, len(totals))
	for i, t := range totals {
		nome := t.Email
		if t.Nome != nil && *t.Nome != "" {
			nome = *t.Nome
		}
		rows[i] = transport.VendedorRow{
			VendedorID:     t.VendedorID,
			Nome:           nome,
			TotalLeads:     t.Leads,
			WonCount:       t.Won,
			WonCents:       t.WonCents,
			ConversionRate: domain.ConversionRate(t.Won, t.Attended),
			AverageTicket:  domain.AverageTicket(t.WonCents, t.Won),
			Closers:        t.Closers,
		}
	}
	return rows
}

// toDailyPoints fills days without leads with zeros.
func toDailyPoints(dates []time.Time, totals []repository.DailyTotal) []transport.DailyPoint {
	byDay := make(map[string]repository.DailyTotal, len(totals))
	for _, t := range totals {
		byDay[t.Date.Format(time.DateOnly)] = t
	}

	points := make([]transport.DailyPoint, len(dates))
	for i, date := range dates {
		day := date.Format(time.DateOnly)
		t := byDay[day]
		points[i] = transport.DailyPoint{Date: day, Leads: t.Leads, Won: t.Won, WonCents: t.WonCents}
	}
	return points
}

func toCloserRows(totals []repository.CloserTotal) []transport.CloserRow {
	rows := make([]transport.CloserRow, len(totals))
	for i, t := range totals {
		rows[i] = transport.CloserRow{CloserID: t.CloserID, Nome: t.Nome, WonCount: t.Won, WonCents: t.WonCents}
	}
	return rows
}
