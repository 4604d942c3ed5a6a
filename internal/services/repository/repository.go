package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pipeline_backend/platform/apperr"
	"pipeline_backend/platform/db"
)

const (
	serviceNotFoundMessage  = "service not found"
	serviceDuplicateMessage = "a service with this name already exists"

	serviceColumns = `id, nome, descricao, ativo, created_at, updated_at`
)

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new services repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByID retrieves a service by its ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Service, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id)
	svc, err := scanService(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Service{}, apperr.NotFound(serviceNotFoundMessage)
		}
		return Service{}, fmt.Errorf("get service by id: %w", err)
	}
	return svc, nil
}

// List returns the catalog ordered by name, optionally restricted to active services.
func (r *Repo) List(ctx context.Context, activeOnly bool) ([]Service, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE ($1::boolean = false OR ativo = true)
		ORDER BY lower(nome) ASC`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	return scanServices(rows)
}

// Create inserts a new active service.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Service, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO services (nome, descricao)
		VALUES ($1, $2)
		RETURNING `+serviceColumns, params.Nome, params.Descricao)
	svc, err := scanService(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Service{}, apperr.Conflict(serviceDuplicateMessage)
		}
		return Service{}, fmt.Errorf("create service: %w", err)
	}
	return svc, nil
}

// Update applies the non-nil fields of params.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (Service, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE services SET
			nome = COALESCE($2, nome),
			descricao = COALESCE($3, descricao),
			ativo = COALESCE($4, ativo),
			updated_at = now()
		WHERE id = $1
		RETURNING `+serviceColumns, params.ID, params.Nome, params.Descricao, params.Ativo)
	svc, err := scanService(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Service{}, apperr.NotFound(serviceNotFoundMessage)
		}
		if db.IsUniqueViolation(err) {
			return Service{}, apperr.Conflict(serviceDuplicateMessage)
		}
		return Service{}, fmt.Errorf("update service: %w", err)
	}
	return svc, nil
}

// SetActive sets the active flag of a service.
func (r *Repo) SetActive(ctx context.Context, id uuid.UUID, ativo bool) (Service, error) {
	return r.Update(ctx, UpdateParams{ID: id, Ativo: &ativo})
}

// Delete removes a service. Services still tagged on or sold to a lead
// cannot be removed.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return apperr.ReferencedInUse("service")
		}
		return fmt.Errorf("delete service: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(serviceNotFoundMessage)
	}
	return nil
}

func scanService(row pgx.Row) (Service, error) {
	var svc Service
	err := row.Scan(&svc.ID, &svc.Nome, &svc.Descricao, &svc.Ativo, &svc.CreatedAt, &svc.UpdatedAt)
	return svc, err
}

func scanServices(rows pgx.Rows) ([]Service, error) {
	items := make([]Service, 0)
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		items = append(items, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate services: %w", err)
	}
	return items, nil
}
