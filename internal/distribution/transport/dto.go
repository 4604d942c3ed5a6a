package transport

import (
	"time"

	"github.com/google/uuid"
)

// UpdateConfigRequest sets the automatic distribution config.
type UpdateConfigRequest struct {
	Enabled          *bool   `json:"enabled,omitempty"`
	DistributionMode *string `json:"distributionMode,omitempty" validate:"omitempty,oneof=round_robin"`
}

// ConfigResponse is the distribution config.
type ConfigResponse struct {
	Enabled                bool       `json:"enabled"`
	DistributionMode       string     `json:"distributionMode"`
	LastAssignedVendedorID *uuid.UUID `json:"lastAssignedVendedorId,omitempty"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

// AddRosterRequest enrolls a vendedor in the rotation.
type AddRosterRequest struct {
	VendedorID uuid.UUID `json:"vendedorId" validate:"required"`
	Priority   int       `json:"priority" validate:"min=0"`
}

// UpdateRosterRequest changes a roster membership.
type UpdateRosterRequest struct {
	Active   *bool `json:"active,omitempty"`
	Priority *int  `json:"priority,omitempty" validate:"omitempty,min=0"`
}

// RosterEntryResponse is one roster membership.
type RosterEntryResponse struct {
	ID            uuid.UUID `json:"id"`
	VendedorID    uuid.UUID `json:"vendedorId"`
	VendedorNome  *string   `json:"vendedorNome,omitempty"`
	VendedorEmail string    `json:"vendedorEmail"`
	Active        bool      `json:"active"`
	Priority      int       `json:"priority"`
	CreatedAt     time.Time `json:"createdAt"`
}

// RosterResponse wraps the roster.
type RosterResponse struct {
	Items []RosterEntryResponse `json:"items"`
}

// BatchAssignRequest assigns one vendedor to many leads.
type BatchAssignRequest struct {
	LeadIDs    []uuid.UUID `json:"leadIds" validate:"required,min=1,max=500"`
	VendedorID uuid.UUID   `json:"vendedorId" validate:"required"`
}

// BatchFailure reports one lead that could not be assigned.
type BatchFailure struct {
	LeadID uuid.UUID `json:"leadId"`
	Error  string    `json:"error"`
}

// BatchAssignResponse summarises a batch assignment.
type BatchAssignResponse struct {
	Requested int            `json:"requested"`
	Assigned  int            `json:"assigned"`
	Failures  []BatchFailure `json:"failures"`
}

// AutoAssignResponse reports the outcome of one automatic assignment.
type AutoAssignResponse struct {
	Assigned   bool       `json:"assigned"`
	VendedorID *uuid.UUID `json:"vendedorId,omitempty"`
	Reason     string     `json:"reason,omitempty"`
}
