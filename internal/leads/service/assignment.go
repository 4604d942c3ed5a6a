package service

import (
	"context"
	"time"

	"pipeline_backend/internal/events"
	"pipeline_backend/internal/leads/domain"
	"pipeline_backend/internal/leads/repository"
	"pipeline_backend/internal/leads/transport"
	"pipeline_backend/platform/apperr"

	"github.com/google/uuid"
)

// Assign sets or clears the vendedor of a lead. Callers are expected to be
// administrators; the route is admin-only.
func (s *Service) Assign(ctx context.Context, leadID uuid.UUID, vendedorID *uuid.UUID, actorID uuid.UUID) (transport.LeadResponse, error) {
	if vendedorID != nil {
		ok, err := s.repo.IsVendedor(ctx, *vendedorID)
		if err != nil {
			return transport.LeadResponse{}, err
		}
		if !ok {
			return transport.LeadResponse{}, apperr.Validation("user is not a vendedor")
		}
	}

	lead, err := s.repo.SetVendedor(ctx, repository.AssignParams{
		LeadID:     leadID,
		VendedorID: vendedorID,
		ActorID:    &actorID,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.log.WithContext(ctx).Info("lead assigned", "leadId", leadID, "vendedorId", vendedorID, "actorId", actorID)
	s.eventBus.Publish(ctx, events.LeadAssigned{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     leadID,
		VendedorID: vendedorID,
		ActorID:    &actorID,
	})

	return toLeadResponse(lead, s.now()), nil
}

// CheckSLA runs when a lead's SLA reminder fires. Leads that were deleted,
// have left the open statuses or were already warned are ignored; nothing
// here changes the status.
func (s *Service) CheckSLA(ctx context.Context, leadID uuid.UUID) error {
	lead, err := s.repo.GetByID(ctx, leadID)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	sla, ok := domain.ComputeSLA(domain.Status(lead.Status), lead.CreatedAt, s.now())
	if !ok {
		return nil
	}

	written, err := s.repo.AddSLAWarning(ctx, repository.AddActivityParams{
		LeadID:    leadID,
		EventType: repository.ActivitySLAWarning,
		Message:   "lead still waiting for action",
		Metadata: map[string]any{
			"status":   lead.Status,
			"bucket":   string(sla.Bucket),
			"deadline": sla.Deadline.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return err
	}
	if !written {
		return nil
	}

	s.log.Info("lead sla warning", "leadId", leadID, "status", lead.Status, "bucket", sla.Bucket)
	s.eventBus.Publish(ctx, events.LeadSLAWarning{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     leadID,
		Status:     lead.Status,
		VendedorID: lead.VendedorID,
		Deadline:   sla.Deadline,
	})
	return nil
}

const slaSweepBatch = 100

// SweepSLA runs CheckSLA for open leads past the reminder mark that never got
// a warning, covering reminders that were never enqueued. It returns how many
// leads were checked.
func (s *Service) SweepSLA(ctx context.Context) (int, error) {
	offset := s.slaReminder
	if offset <= 0 {
		offset = domain.DefaultSLAReminderOffset
	}

	ids, err := s.repo.ListSLADue(ctx, s.now().Add(-offset), slaSweepBatch)
	if err != nil {
		return 0, err
	}

	for _, id := range ids {
		if err := s.CheckSLA(ctx, id); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}
