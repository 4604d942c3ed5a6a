// Package repository persists the distribution config singleton, the roster
// and the atomic round-robin commit.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pipeline_backend/internal/distribution/domain"
	leadsrepo "pipeline_backend/internal/leads/repository"
	"pipeline_backend/platform/apperr"
	"pipeline_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrPointerMoved is returned when the config version changed between the
// read that chose a vendedor and the commit.
var ErrPointerMoved = errors.New("distribution pointer moved")

// ErrLeadTaken is returned when the lead gained a vendedor before the
// automatic assignment committed.
var ErrLeadTaken = errors.New("lead already assigned")

const (
	rosterNotFoundMsg = "roster entry not found"
	leadNotFoundMsg   = "lead not found"

	configColumns = `id, enabled, distribution_mode, last_assigned_vendedor_id, version, created_at, updated_at`
)

// Config is the distribution config singleton.
type Config struct {
	ID                     uuid.UUID
	Enabled                bool
	Mode                   string
	LastAssignedVendedorID *uuid.UUID
	Version                int64
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// RosterEntry is a roster membership joined with the vendedor's profile.
type RosterEntry struct {
	domain.Member
	VendedorNome  *string
	VendedorEmail string
}

// UpdateConfigParams holds the fields to set. Nil fields are left unchanged.
type UpdateConfigParams struct {
	Enabled *bool
	Mode    *string
}

// UpdateRosterParams holds the roster fields to set. Nil fields are left unchanged.
type UpdateRosterParams struct {
	ID       uuid.UUID
	Active   *bool
	Priority *int
}

// CommitParams describes one automatic assignment.
type CommitParams struct {
	LeadID          uuid.UUID
	VendedorID      uuid.UUID
	ExpectedVersion int64
}

// ConfigStore reads and writes the config singleton.
type ConfigStore interface {
	GetConfig(ctx context.Context) (Config, error)
	UpdateConfig(ctx context.Context, params UpdateConfigParams) (Config, error)
}

// RosterStore manages roster membership.
type RosterStore interface {
	ListRoster(ctx context.Context) ([]RosterEntry, error)
	AddToRoster(ctx context.Context, vendedorID uuid.UUID, priority int) (RosterEntry, error)
	UpdateRoster(ctx context.Context, params UpdateRosterParams) (RosterEntry, error)
	RemoveFromRoster(ctx context.Context, id uuid.UUID) error
}

// AssignmentStore backs the round-robin commit.
type AssignmentStore interface {
	LeadVendedor(ctx context.Context, leadID uuid.UUID) (*uuid.UUID, error)
	IsVendedor(ctx context.Context, userID uuid.UUID) (bool, error)
	CommitAssignment(ctx context.Context, params CommitParams) error
}

// Repository combines all distribution storage operations.
type Repository interface {
	ConfigStore
	RosterStore
	AssignmentStore
}

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new distribution repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// GetConfig returns the singleton, creating it disabled on first read.
func (r *Repo) GetConfig(ctx context.Context) (Config, error) {
	if _, err := r.pool.Exec(ctx, `
		INSERT INTO lead_distribution_config (singleton, enabled, distribution_mode)
		VALUES (true, false, $1)
		ON CONFLICT (singleton) DO NOTHING`, string(domain.ModeRoundRobin)); err != nil {
		return Config{}, fmt.Errorf("ensure distribution config: %w", err)
	}

	cfg, err := scanConfig(r.pool.QueryRow(ctx, `SELECT `+configColumns+` FROM lead_distribution_config WHERE singleton`))
	if err != nil {
		return Config{}, fmt.Errorf("get distribution config: %w", err)
	}
	return cfg, nil
}

// UpdateConfig sets the enabled flag and mode. The version is bumped so an
// in-flight round-robin decision made under the old config retries.
func (r *Repo) UpdateConfig(ctx context.Context, params UpdateConfigParams) (Config, error) {
	if _, err := r.GetConfig(ctx); err != nil {
		return Config{}, err
	}

	cfg, err := scanConfig(r.pool.QueryRow(ctx, `
		UPDATE lead_distribution_config SET
			enabled = COALESCE($1, enabled),
			distribution_mode = COALESCE($2, distribution_mode),
			version = version + 1,
			updated_at = now()
		WHERE singleton
		RETURNING `+configColumns, params.Enabled, params.Mode))
	if err != nil {
		return Config{}, fmt.Errorf("update distribution config: %w", err)
	}
	return cfg, nil
}

// ListRoster returns every membership in rotation order.
func (r *Repo) ListRoster(ctx context.Context) ([]RosterEntry, error) {
	rows, err := r.pool.Query(ctx, rosterSelect+`
		ORDER BY vd.priority ASC, vd.created_at ASC, vd.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	defer rows.Close()

	items := make([]RosterEntry, 0)
	for rows.Next() {
		entry, err := scanRoster(rows)
		if err != nil {
			return nil, fmt.Errorf("scan roster: %w", err)
		}
		items = append(items, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roster: %w", err)
	}
	return items, nil
}

// AddToRoster enrolls an active vendedor. A vendedor can be enrolled once.
func (r *Repo) AddToRoster(ctx context.Context, vendedorID uuid.UUID, priority int) (RosterEntry, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO vendedor_distribution (vendedor_id, priority, active)
		VALUES ($1, $2, true)
		RETURNING id`, vendedorID, priority).Scan(&id)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return RosterEntry{}, apperr.Conflict("vendedor is already in the roster")
		}
		if db.IsForeignKeyViolation(err) {
			return RosterEntry{}, apperr.Validation("vendedor not found")
		}
		return RosterEntry{}, fmt.Errorf("add to roster: %w", err)
	}
	return r.getRoster(ctx, id)
}

// UpdateRoster sets active and priority on a membership.
func (r *Repo) UpdateRoster(ctx context.Context, params UpdateRosterParams) (RosterEntry, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE vendedor_distribution SET
			active = COALESCE($2, active),
			priority = COALESCE($3, priority)
		WHERE id = $1`, params.ID, params.Active, params.Priority)
	if err != nil {
		return RosterEntry{}, fmt.Errorf("update roster: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return RosterEntry{}, apperr.NotFound(rosterNotFoundMsg)
	}
	return r.getRoster(ctx, params.ID)
}

// RemoveFromRoster deletes a membership. Leads already distributed keep their vendedor.
func (r *Repo) RemoveFromRoster(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM vendedor_distribution WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("remove from roster: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(rosterNotFoundMsg)
	}
	return nil
}

// LeadVendedor returns the lead's current vendedor.
func (r *Repo) LeadVendedor(ctx context.Context, leadID uuid.UUID) (*uuid.UUID, error) {
	var vendedorID *uuid.UUID
	err := r.pool.QueryRow(ctx, `SELECT vendedor_id FROM leads WHERE id = $1`, leadID).Scan(&vendedorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(leadNotFoundMsg)
	}
	if err != nil {
		return nil, fmt.Errorf("get lead vendedor: %w", err)
	}
	return vendedorID, nil
}

// IsVendedor reports whether userID holds the vendedor role.
func (r *Repo) IsVendedor(ctx context.Context, userID uuid.UUID) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = 'vendedor')`, userID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check vendedor role: %w", err)
	}
	return ok, nil
}

// CommitAssignment advances the pointer and assigns the lead in one
// transaction, guarded by the config version read by the caller.
func (r *Repo) CommitAssignment(ctx context.Context, params CommitParams) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin auto assign: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE lead_distribution_config SET
			last_assigned_vendedor_id = $1,
			version = version + 1,
			updated_at = now()
		WHERE singleton AND version = $2`, params.VendedorID, params.ExpectedVersion)
	if err != nil {
		return fmt.Errorf("advance distribution pointer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPointerMoved
	}

	tag, err = tx.Exec(ctx, `
		UPDATE leads SET vendedor_id = $2, updated_at = now()
		WHERE id = $1 AND vendedor_id IS NULL`, params.LeadID, params.VendedorID)
	if err != nil {
		return fmt.Errorf("auto assign lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadTaken
	}

	activity := leadsrepo.AssignmentActivity(params.LeadID, nil, &params.VendedorID, true)
	if err := leadsrepo.InsertActivity(ctx, tx, activity); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit auto assign: %w", err)
	}
	return nil
}

const rosterSelect = `
	SELECT vd.id, vd.vendedor_id, vd.active, vd.priority, vd.created_at, u.nome, u.email
	FROM vendedor_distribution vd
	JOIN users u ON u.id = vd.vendedor_id`

func (r *Repo) getRoster(ctx context.Context, id uuid.UUID) (RosterEntry, error) {
	entry, err := scanRoster(r.pool.QueryRow(ctx, rosterSelect+` WHERE vd.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return RosterEntry{}, apperr.NotFound(rosterNotFoundMsg)
	}
	if err != nil {
		return RosterEntry{}, fmt.Errorf("get roster entry: %w", err)
	}
	return entry, nil
}

func scanConfig(row pgx.Row) (Config, error) {
	var c Config
	err := row.Scan(&c.ID, &c.Enabled, &c.Mode, &c.LastAssignedVendedorID, &c.Version, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func scanRoster(row pgx.Row) (RosterEntry, error) {
	var e RosterEntry
	err := row.Scan(&e.ID, &e.VendedorID, &e.Active, &e.Priority, &e.CreatedAt, &e.VendedorNome, &e.VendedorEmail)
	return e, err
}
