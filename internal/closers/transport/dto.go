package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateCloserRequest contains data for creating a closer. VendedorID is
// honoured for administrators only; vendedores always own what they create.
type CreateCloserRequest struct {
	Nome       string     `json:"nome" validate:"required,min=1,max=120"`
	VendedorID *uuid.UUID `json:"vendedorId,omitempty"`
}

// UpdateCloserRequest contains data for updating a closer.
type UpdateCloserRequest struct {
	Nome  *string `json:"nome,omitempty" validate:"omitempty,min=1,max=120"`
	Ativo *bool   `json:"ativo,omitempty"`
}

// ListClosersRequest filters the closer listing.
type ListClosersRequest struct {
	ActiveOnly bool `form:"activeOnly"`
}

// CloserResponse represents a closer in API responses.
type CloserResponse struct {
	ID           uuid.UUID `json:"id"`
	VendedorID   uuid.UUID `json:"vendedorId"`
	VendedorNome *string   `json:"vendedorNome,omitempty"`
	Nome         string    `json:"nome"`
	Ativo        bool      `json:"ativo"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CloserListResponse wraps a list of closers.
type CloserListResponse struct {
	Items []CloserResponse `json:"items"`
	Total int              `json:"total"`
}
