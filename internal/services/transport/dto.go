package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateServiceRequest contains data for creating a new service.
type CreateServiceRequest struct {
	Nome      string  `json:"nome" validate:"required,min=1,max=100"`
	Descricao *string `json:"descricao,omitempty" validate:"omitempty,max=500"`
}

// UpdateServiceRequest contains data for updating an existing service.
type UpdateServiceRequest struct {
	Nome      *string `json:"nome,omitempty" validate:"omitempty,min=1,max=100"`
	Descricao *string `json:"descricao,omitempty" validate:"omitempty,max=500"`
	Ativo     *bool   `json:"ativo,omitempty"`
}

// ListServicesRequest filters the catalog listing.
type ListServicesRequest struct {
	ActiveOnly bool `form:"activeOnly"`
}

// ServiceResponse represents a service in API responses.
type ServiceResponse struct {
	ID        uuid.UUID `json:"id"`
	Nome      string    `json:"nome"`
	Descricao *string   `json:"descricao,omitempty"`
	Ativo     bool      `json:"ativo"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ServiceListResponse wraps a list of services.
type ServiceListResponse struct {
	Items []ServiceResponse `json:"items"`
	Total int               `json:"total"`
}
