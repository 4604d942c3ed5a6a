package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service is a sellable service from the catalog.
type Service struct {
	ID        uuid.UUID
	Nome      string
	Descricao *string
	Ativo     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateParams contains parameters for creating a service.
type CreateParams struct {
	Nome      string
	Descricao *string
}

// UpdateParams contains parameters for updating a service. Nil fields are left unchanged.
type UpdateParams struct {
	ID        uuid.UUID
	Nome      *string
	Descricao *string
	Ativo     *bool
}

// ServiceReader provides read operations for the catalog.
type ServiceReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Service, error)
	List(ctx context.Context, activeOnly bool) ([]Service, error)
}

// ServiceWriter provides write operations for the catalog.
type ServiceWriter interface {
	Create(ctx context.Context, params CreateParams) (Service, error)
	Update(ctx context.Context, params UpdateParams) (Service, error)
	SetActive(ctx context.Context, id uuid.UUID, ativo bool) (Service, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository combines all catalog storage operations.
type Repository interface {
	ServiceReader
	ServiceWriter
}
