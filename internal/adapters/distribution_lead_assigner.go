package adapters

import (
	"context"

	distsvc "pipeline_backend/internal/distribution/service"
	leadsvc "pipeline_backend/internal/leads/service"

	"github.com/google/uuid"
)

// DistributionLeadAssigner adapts the leads service for batch distribution,
// so each batch item goes through the same scoped assignment and activity
// trail as a single manual assignment.
type DistributionLeadAssigner struct {
	leads *leadsvc.Service
}

// NewDistributionLeadAssigner creates a new distribution lead assigner adapter.
func NewDistributionLeadAssigner(leads *leadsvc.Service) *DistributionLeadAssigner {
	return &DistributionLeadAssigner{leads: leads}
}

// AssignLead assigns vendedorID to leadID on behalf of actorID.
func (a *DistributionLeadAssigner) AssignLead(ctx context.Context, leadID uuid.UUID, vendedorID uuid.UUID, actorID uuid.UUID) error {
	_, err := a.leads.Assign(ctx, leadID, &vendedorID, actorID)
	return err
}

// Compile-time check.
var _ distsvc.LeadAssigner = (*DistributionLeadAssigner)(nil)
