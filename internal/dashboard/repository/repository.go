// Package repository runs the dashboard aggregate queries over leads.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Filter narrows every aggregate. Nil fields are not applied.
type Filter struct {
	Since      *time.Time
	VendedorID *uuid.UUID
}

// StatusTotal is the lead count and won amount of one status.
type StatusTotal struct {
	Status   string
	Count    int
	WonCents int64
}

// VendedorTotal aggregates one vendedor's leads.
type VendedorTotal struct {
	VendedorID uuid.UUID
	Nome       *string
	Email      string
	Leads      int
	Attended   int
	Won        int
	WonCents   int64
	Closers    int
}

// DailyTotal aggregates the leads created on one UTC day.
type DailyTotal struct {
	Date     time.Time
	Leads    int
	Won      int
	WonCents int64
}

// CloserTotal is one row of the closer ranking.
type CloserTotal struct {
	CloserID uuid.UUID
	Nome     string
	Won      int
	WonCents int64
}

// Repository is the read model behind the dashboard.
type Repository interface {
	StatusTotals(ctx context.Context, filter Filter) ([]StatusTotal, error)
	VendedorTotals(ctx context.Context, filter Filter) ([]VendedorTotal, error)
	DailyTotals(ctx context.Context, filter Filter, from time.Time) ([]DailyTotal, error)
	CloserTotals(ctx context.Context, filter Filter) ([]CloserTotal, error)
}

// Repo is the PostgreSQL implementation of Repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new dashboard repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

const statusTotalsQuery = `
	SELECT l.status, COUNT(*), COALESCE(SUM(l.valor_ganho_cents) FILTER (WHERE l.status = 'ganho'), 0)
	FROM leads l
	WHERE ($1::timestamptz IS NULL OR l.created_at >= $1)
		AND ($2::uuid IS NULL OR l.vendedor_id = $2)
	GROUP BY l.status
	ORDER BY l.status`

func (r *Repo) StatusTotals(ctx context.Context, filter Filter) ([]StatusTotal, error) {
	rows, err := r.pool.Query(ctx, statusTotalsQuery, filter.Since, filter.VendedorID)
	if err != nil {
		return nil, fmt.Errorf("dashboard status totals: %w", err)
	}
	defer rows.Close()

	totals := make([]StatusTotal, 0)
	for rows.Next() {
		var t StatusTotal
		if err := rows.Scan(&t.Status, &t.Count, &t.WonCents); err != nil {
			return nil, fmt.Errorf("scan status total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// Vendedores without leads in the window still get a zero row.
const vendedorTotalsQuery = `
	SELECT u.id, u.nome, u.email,
		COUNT(l.id),
		COUNT(l.id) FILTER (WHERE l.status <> 'novo_lead'),
		COUNT(l.id) FILTER (WHERE l.status = 'ganho'),
		COALESCE(SUM(l.valor_ganho_cents) FILTER (WHERE l.status = 'ganho'), 0),
		(SELECT COUNT(*) FROM closers c WHERE c.vendedor_id = u.id AND c.ativo)
	FROM user_roles ur
	JOIN users u ON u.id = ur.user_id
	LEFT JOIN leads l ON l.vendedor_id = u.id
		AND ($1::timestamptz IS NULL OR l.created_at >= $1)
	WHERE ur.role = 'vendedor'
		AND ($2::uuid IS NULL OR u.id = $2)
	GROUP BY u.id, u.nome, u.email
	ORDER BY COALESCE(SUM(l.valor_ganho_cents) FILTER (WHERE l.status = 'ganho'), 0) DESC, lower(COALESCE(u.nome, u.email))`

func (r *Repo) VendedorTotals(ctx context.Context, filter Filter) ([]VendedorTotal, error) {
	rows, err := r.pool.Query(ctx, vendedorTotalsQuery, filter.Since, filter.VendedorID)
	if err != nil {
		return nil, fmt.Errorf("dashboard vendedor totals: %w", err)
	}
	defer rows.Close()

	totals := make([]VendedorTotal, 0)
	for rows.Next() {
		var t VendedorTotal
		if err := rows.Scan(&t.VendedorID, &t.Nome, &t.Email, &t.Leads, &t.Attended, &t.Won, &t.WonCents, &t.Closers); err != nil {
			return nil, fmt.Errorf("scan vendedor total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

const dailyTotalsQuery = `
	SELECT (l.created_at AT TIME ZONE 'UTC')::date AS day,
		COUNT(*),
		COUNT(*) FILTER (WHERE l.status = 'ganho'),
		COALESCE(SUM(l.valor_ganho_cents) FILTER (WHERE l.status = 'ganho'), 0)
	FROM leads l
	WHERE l.created_at >= $3
		AND ($1::timestamptz IS NULL OR l.created_at >= $1)
		AND ($2::uuid IS NULL OR l.vendedor_id = $2)
	GROUP BY day
	ORDER BY day`

func (r *Repo) DailyTotals(ctx context.Context, filter Filter, from time.Time) ([]DailyTotal, error) {
	rows, err := r.pool.Query(ctx, dailyTotalsQuery, filter.Since, filter.VendedorID, from)
	if err != nil {
		return nil, fmt.Errorf("dashboard daily totals: %w", err)
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (DailyTotal, error) {
		var t DailyTotal
		err := row.Scan(&t.Date, &t.Leads, &t.Won, &t.WonCents)
		return t, err
	})
}

const closerTotalsQuery = `
	SELECT c.id, c.nome,
		COUNT(l.id),
		COALESCE(SUM(l.valor_ganho_cents), 0)
	FROM leads l
	JOIN closers c ON c.id = l.closer_id
	WHERE l.status = 'ganho'
		AND ($1::timestamptz IS NULL OR l.created_at >= $1)
		AND ($2::uuid IS NULL OR l.vendedor_id = $2)
	GROUP BY c.id, c.nome
	ORDER BY COALESCE(SUM(l.valor_ganho_cents), 0) DESC, COUNT(l.id) DESC, c.nome`

func (r *Repo) CloserTotals(ctx context.Context, filter Filter) ([]CloserTotal, error) {
	rows, err := r.pool.Query(ctx, closerTotalsQuery, filter.Since, filter.VendedorID)
	if err != nil {
		return nil, fmt.Errorf("dashboard closer totals: %w", err)
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (CloserTotal, error) {
		var t CloserTotal
		err := row.Scan(&t.CloserID, &t.Nome, &t.Won, &t.WonCents)
		return t, err
	})
}
