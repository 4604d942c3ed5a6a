// Package repository stores closers, the people a vendedor hands deals to.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pipeline_backend/platform/apperr"
	"pipeline_backend/platform/db"
)

const (
	closerNotFoundMessage = "closer not found"

	closerColumns = `c.id, c.vendedor_id, u.nome, c.nome, c.ativo, c.created_at, c.updated_at`
	closerFrom    = ` FROM closers c LEFT JOIN users u ON u.id = c.vendedor_id`
)

// Closer is a closer owned by a vendedor.
type Closer struct {
	ID           uuid.UUID
	VendedorID   uuid.UUID
	VendedorNome *string
	Nome         string
	Ativo        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateParams contains parameters for creating a closer.
type CreateParams struct {
	VendedorID uuid.UUID
	Nome       string
}

// UpdateParams contains parameters for updating a closer. Nil fields are left unchanged.
type UpdateParams struct {
	ID    uuid.UUID
	Nome  *string
	Ativo *bool
}

// Repository defines closer storage operations. A nil owner means no
// ownership restriction.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID, owner *uuid.UUID) (Closer, error)
	List(ctx context.Context, owner *uuid.UUID, activeOnly bool) ([]Closer, error)
	Create(ctx context.Context, params CreateParams) (Closer, error)
	Update(ctx context.Context, params UpdateParams, owner *uuid.UUID) (Closer, error)
	Delete(ctx context.Context, id uuid.UUID, owner *uuid.UUID) error
}

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new closers repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// GetByID loads a closer visible to owner.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID, owner *uuid.UUID) (Closer, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+closerColumns+closerFrom+`
		WHERE c.id = $1 AND ($2::uuid IS NULL OR c.vendedor_id = $2)`, id, owner)
	closer, err := scanCloser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Closer{}, apperr.NotFound(closerNotFoundMessage)
		}
		return Closer{}, fmt.Errorf("get closer: %w", err)
	}
	return closer, nil
}

// List returns closers visible to owner, ordered by name.
func (r *Repo) List(ctx context.Context, owner *uuid.UUID, activeOnly bool) ([]Closer, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+closerColumns+closerFrom+`
		WHERE ($1::uuid IS NULL OR c.vendedor_id = $1)
		  AND ($2::boolean = false OR c.ativo = true)
		ORDER BY lower(c.nome) ASC`, owner, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list closers: %w", err)
	}
	defer rows.Close()

	items := make([]Closer, 0)
	for rows.Next() {
		closer, err := scanCloser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan closer: %w", err)
		}
		items = append(items, closer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate closers: %w", err)
	}
	return items, nil
}

// Create inserts a new active closer.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Closer, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO closers (vendedor_id, nome)
		VALUES ($1, $2)
		RETURNING id`, params.VendedorID, params.Nome).Scan(&id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Closer{}, apperr.Validation("unknown vendedor")
		}
		return Closer{}, fmt.Errorf("create closer: %w", err)
	}
	return r.GetByID(ctx, id, nil)
}

// Update applies the non-nil fields of params to a closer visible to owner.
func (r *Repo) Update(ctx context.Context, params UpdateParams, owner *uuid.UUID) (Closer, error) {
	result, err := r.pool.Exec(ctx, `
		UPDATE closers SET
			nome = COALESCE($2, nome),
			ativo = COALESCE($3, ativo),
			updated_at = now()
		WHERE id = $1 AND ($4::uuid IS NULL OR vendedor_id = $4)`,
		params.ID, params.Nome, params.Ativo, owner)
	if err != nil {
		return Closer{}, fmt.Errorf("update closer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return Closer{}, apperr.NotFound(closerNotFoundMessage)
	}
	return r.GetByID(ctx, params.ID, nil)
}

// Delete removes a closer visible to owner. Leads pointing at it keep their
// history and lose the reference.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID, owner *uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM closers WHERE id = $1 AND ($2::uuid IS NULL OR vendedor_id = $2)`, id, owner)
	if err != nil {
		return fmt.Errorf("delete closer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(closerNotFoundMessage)
	}
	return nil
}

func scanCloser(row pgx.Row) (Closer, error) {
	var c Closer
	err := row.Scan(&c.ID, &c.VendedorID, &c.VendedorNome, &c.Nome, &c.Ativo, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
