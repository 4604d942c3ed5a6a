// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"pipeline_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published after the public intake stored a new lead.
type LeadCreated struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (e LeadCreated) EventName() string { return "leads.created" }

// LeadStatusChanged is published after a transition committed.
type LeadStatusChanged struct {
	BaseEvent
	LeadID     uuid.UUID  `json:"leadId"`
	ActorID    uuid.UUID  `json:"actorId"`
	FromStatus string     `json:"fromStatus"`
	ToStatus   string     `json:"toStatus"`
	VendedorID *uuid.UUID `json:"vendedorId,omitempty"`
	WonCents   *int64     `json:"wonCents,omitempty"`
}

func (e LeadStatusChanged) EventName() string { return "leads.status_changed" }

// LeadAssigned is published when a lead's vendedor changes, manually or by
// automatic distribution. VendedorID is nil when the assignment was cleared.
type LeadAssigned struct {
	BaseEvent
	LeadID     uuid.UUID  `json:"leadId"`
	VendedorID *uuid.UUID `json:"vendedorId,omitempty"`
	ActorID    *uuid.UUID `json:"actorId,omitempty"`
	Automatic  bool       `json:"automatic"`
}

func (e LeadAssigned) EventName() string { return "leads.assigned" }

// LeadDeleted is published after an admin removed a lead.
type LeadDeleted struct {
	BaseEvent
	LeadID  uuid.UUID `json:"leadId"`
	ActorID uuid.UUID `json:"actorId"`
}

func (e LeadDeleted) EventName() string { return "leads.deleted" }

// LeadSLAWarning is published by the scheduler when a lead still needs a
// first action close to the end of its 48h window.
type LeadSLAWarning struct {
	BaseEvent
	LeadID     uuid.UUID  `json:"leadId"`
	Status     string     `json:"status"`
	VendedorID *uuid.UUID `json:"vendedorId,omitempty"`
	Deadline   time.Time  `json:"deadline"`
}

func (e LeadSLAWarning) EventName() string { return "leads.sla_warning" }

// =============================================================================
// Auth Domain Events
// =============================================================================

// VendedorProvisioned is published after an admin created a vendedor account.
type VendedorProvisioned struct {
	BaseEvent
	UserID    uuid.UUID `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedBy uuid.UUID `json:"createdBy"`
}

func (e VendedorProvisioned) EventName() string { return "auth.vendedor_provisioned" }
