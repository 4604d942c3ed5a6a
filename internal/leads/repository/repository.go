// Package repository provides PostgreSQL access for leads, their service
// tags, the sale ledger and the activity log.
package repository

import (
	"context"
	"time"

	"pipeline_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo implements Repository on a pgx pool.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Execer is satisfied by both the pool and a transaction.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Lead struct {
	ID               uuid.UUID
	NomeCompleto     string
	Telefone         string
	Email            string
	CpfCnpj          string
	Status           string
	Notas            *string
	VendedorID       *uuid.UUID
	VendedorNome     *string
	CloserID         *uuid.UUID
	CloserNome       *string
	ServicoInteresse *string
	ServicoRealizado *string
	ValorGanhoCents  *int64
	FormaPagamento   *string
	DataPagamento    *time.Time
	QtdParcelas      *int
	Parcelas         []domain.Installment
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type CreateLeadParams struct {
	NomeCompleto string
	Telefone     string
	Email        string
	CpfCnpj      string
	Notas        *string
}

type UpdateLeadParams struct {
	NomeCompleto *string
	Telefone     *string
	Email        *string
	Notas        *string
	CloserID     *uuid.UUID
	CloserSet    bool
}

type ListParams struct {
	VendedorID  *uuid.UUID
	Unassigned  bool
	Status      *string
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

type Stats struct {
	Total         int
	ByStatus      map[string]int
	WonCount      int
	WonTotalCents int64
}

type AssignParams struct {
	LeadID     uuid.UUID
	VendedorID *uuid.UUID
	ActorID    *uuid.UUID
}

type ApplyTransitionParams struct {
	LeadID        uuid.UUID
	ActorID       uuid.UUID
	FromStatus    string
	Plan          domain.TransitionPlan
	InterestLabel string
	WonLabel      string
}

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	List(ctx context.Context, params ListParams) ([]Lead, int, error)
	Stats(ctx context.Context, vendedorID *uuid.UUID) (Stats, error)
}

// LeadWriter provides write operations for lead management.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetVendedor(ctx context.Context, params AssignParams) (Lead, error)
	ApplyTransition(ctx context.Context, params ApplyTransitionParams) (Lead, error)
}

// LedgerStore manages the tag and sold-service associations.
type LedgerStore interface {
	GetServices(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]ServiceRef, error)
	ListTags(ctx context.Context, leadID uuid.UUID) ([]TagRow, error)
	ReplaceTags(ctx context.Context, leadID uuid.UUID, serviceIDs []uuid.UUID) error
	ListSoldServices(ctx context.Context, leadID uuid.UUID) ([]SoldServiceRow, error)
	ReplaceSoldServices(ctx context.Context, leadID uuid.UUID, entries []domain.SoldEntry) error
}

// ActivityStore records the lead timeline.
type ActivityStore interface {
	AddActivity(ctx context.Context, params AddActivityParams) error
	AddSLAWarning(ctx context.Context, params AddActivityParams) (bool, error)
	ListActivity(ctx context.Context, leadID uuid.UUID) ([]Activity, error)
	ListSLADue(ctx context.Context, createdBefore time.Time, limit int) ([]uuid.UUID, error)
}

// DirectoryReader answers ownership questions about users and closers.
type DirectoryReader interface {
	IsVendedor(ctx context.Context, userID uuid.UUID) (bool, error)
	CloserOwner(ctx context.Context, closerID uuid.UUID) (uuid.UUID, error)
}

// Repository is the full leads store.
type Repository interface {
	LeadReader
	LeadWriter
	LedgerStore
	ActivityStore
	DirectoryReader
}

var _ Repository = (*Repo)(nil)
