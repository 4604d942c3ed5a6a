// Package service implements lead distribution: the config singleton, the
// roster, batch manual assignment and automatic round-robin.
package service

import (
	"context"
	"errors"

	"pipeline_backend/internal/distribution/domain"
	"pipeline_backend/internal/distribution/repository"
	"pipeline_backend/internal/distribution/transport"
	"pipeline_backend/internal/events"
	"pipeline_backend/platform/apperr"
	"pipeline_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// maxPointerAttempts bounds the optimistic round-robin retries.
	maxPointerAttempts = 3
	// batchConcurrency bounds concurrent assignments in a batch.
	batchConcurrency = 5

	reasonDisabled        = "distribution disabled"
	reasonUnsupportedMode = "unsupported distribution mode"
	reasonAlreadyAssigned = "lead already assigned"
	reasonEmptyRoster     = "no active vendedor in the roster"
)

// LeadAssigner performs a manual assignment on behalf of an administrator.
type LeadAssigner interface {
	AssignLead(ctx context.Context, leadID uuid.UUID, vendedorID uuid.UUID, actorID uuid.UUID) error
}

// Service provides business logic for distribution.
type Service struct {
	repo     repository.Repository
	assigner LeadAssigner
	eventBus events.Bus
	log      *logger.Logger
}

// New creates a new distribution service.
func New(repo repository.Repository, assigner LeadAssigner, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, assigner: assigner, eventBus: eventBus, log: log}
}

// GetConfig returns the distribution config, creating it on first read.
func (s *Service) GetConfig(ctx context.Context) (transport.ConfigResponse, error) {
	cfg, err := s.repo.GetConfig(ctx)
	if err != nil {
		return transport.ConfigResponse{}, err
	}
	return toConfigResponse(cfg), nil
}

// UpdateConfig sets the config. Existing unassigned leads are not distributed retroactively.
func (s *Service) UpdateConfig(ctx context.Context, req transport.UpdateConfigRequest) (transport.ConfigResponse, error) {
	if req.DistributionMode != nil {
		if _, ok := domain.ParseMode(*req.DistributionMode); !ok {
			return transport.ConfigResponse{}, apperr.Validation("unsupported distribution mode")
		}
	}

	cfg, err := s.repo.UpdateConfig(ctx, repository.UpdateConfigParams{
		Enabled: req.Enabled,
		Mode:    req.DistributionMode,
	})
	if err != nil {
		return transport.ConfigResponse{}, err
	}

	s.log.Info("distribution config updated", "enabled", cfg.Enabled, "mode", cfg.Mode)
	return toConfigResponse(cfg), nil
}

// ListRoster returns the roster in rotation order.
func (s *Service) ListRoster(ctx context.Context) (transport.RosterResponse, error) {
	entries, err := s.repo.ListRoster(ctx)
	if err != nil {
		return transport.RosterResponse{}, err
	}
	items := make([]transport.RosterEntryResponse, len(entries))
	for i, e := range entries {
		items[i] = toRosterResponse(e)
	}
	return transport.RosterResponse{Items: items}, nil
}

// AddToRoster enrolls a vendedor as an active member.
func (s *Service) AddToRoster(ctx context.Context, req transport.AddRosterRequest) (transport.RosterEntryResponse, error) {
	ok, err := s.repo.IsVendedor(ctx, req.VendedorID)
	if err != nil {
		return transport.RosterEntryResponse{}, err
	}
	if !ok {
		return transport.RosterEntryResponse{}, apperr.Validation("user is not a vendedor")
	}

	entry, err := s.repo.AddToRoster(ctx, req.VendedorID, req.Priority)
	if err != nil {
		return transport.RosterEntryResponse{}, err
	}

	s.log.Info("vendedor added to roster", "vendedorId", req.VendedorID, "priority", req.Priority)
	return toRosterResponse(entry), nil
}

// UpdateRoster changes the active flag or priority of a membership.
func (s *Service) UpdateRoster(ctx context.Context, id uuid.UUID, req transport.UpdateRosterRequest) (transport.RosterEntryResponse, error) {
	entry, err := s.repo.UpdateRoster(ctx, repository.UpdateRosterParams{
		ID:       id,
		Active:   req.Active,
		Priority: req.Priority,
	})
	if err != nil {
		return transport.RosterEntryResponse{}, err
	}

	s.log.Info("roster entry updated", "id", id, "active", entry.Active, "priority", entry.Priority)
	return toRosterResponse(entry), nil
}

// RemoveFromRoster removes a membership without touching already distributed leads.
func (s *Service) RemoveFromRoster(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.RemoveFromRoster(ctx, id); err != nil {
		return err
	}
	s.log.Info("roster entry removed", "id", id)
	return nil
}

// BatchAssign assigns vendedorID to every lead independently. A failing lead
// is reported and does not stop the others.
func (s *Service) BatchAssign(ctx context.Context, actorID uuid.UUID, req transport.BatchAssignRequest) (transport.BatchAssignResponse, error) {
	ok, err := s.repo.IsVendedor(ctx, req.VendedorID)
	if err != nil {
		return transport.BatchAssignResponse{}, err
	}
	if !ok {
		return transport.BatchAssignResponse{}, apperr.Validation("user is not a vendedor")
	}

	leadIDs := uniqueIDs(req.LeadIDs)
	results := make([]error, len(leadIDs))

	var g errgroup.Group
	g.SetLimit(batchConcurrency)
	for i, leadID := range leadIDs {
		g.Go(func() error {
			results[i] = s.assigner.AssignLead(ctx, leadID, req.VendedorID, actorID)
			return nil
		})
	}
	_ = g.Wait()

	resp := transport.BatchAssignResponse{
		Requested: len(leadIDs),
		Failures:  make([]transport.BatchFailure, 0),
	}
	for i, err := range results {
		if err == nil {
			resp.Assigned++
			continue
		}
		s.log.Warn("batch assignment failed", "leadId", leadIDs[i], "error", err)
		resp.Failures = append(resp.Failures, transport.BatchFailure{
			LeadID: leadIDs[i],
			Error:  failureMessage(err),
		})
	}

	s.log.Info("batch assignment finished", "vendedorId", req.VendedorID, "requested", resp.Requested, "assigned", resp.Assigned)
	return resp, nil
}

// AutoAssign runs the round-robin policy for one lead. Disabled config, an
// unsupported mode, an already assigned lead or an empty rotation are
// reported as not assigned without error.
func (s *Service) AutoAssign(ctx context.Context, leadID uuid.UUID) (transport.AutoAssignResponse, error) {
	current, err := s.repo.LeadVendedor(ctx, leadID)
	if err != nil {
		return transport.AutoAssignResponse{}, err
	}
	if current != nil {
		return skipped(reasonAlreadyAssigned), nil
	}

	for attempt := 1; attempt <= maxPointerAttempts; attempt++ {
		cfg, err := s.repo.GetConfig(ctx)
		if err != nil {
			return transport.AutoAssignResponse{}, err
		}
		if !cfg.Enabled {
			return skipped(reasonDisabled), nil
		}
		if mode, ok := domain.ParseMode(cfg.Mode); !ok || mode != domain.ModeRoundRobin {
			return skipped(reasonUnsupportedMode), nil
		}

		roster, err := s.repo.ListRoster(ctx)
		if err != nil {
			return transport.AutoAssignResponse{}, err
		}
		vendedorID, ok := domain.NextVendedor(members(roster), cfg.LastAssignedVendedorID)
		if !ok {
			return skipped(reasonEmptyRoster), nil
		}

		err = s.repo.CommitAssignment(ctx, repository.CommitParams{
			LeadID:          leadID,
			VendedorID:      vendedorID,
			ExpectedVersion: cfg.Version,
		})
		switch {
		case errors.Is(err, repository.ErrPointerMoved):
			s.log.Debug("distribution pointer moved, retrying", "leadId", leadID, "attempt", attempt)
			continue
		case errors.Is(err, repository.ErrLeadTaken):
			return skipped(reasonAlreadyAssigned), nil
		case err != nil:
			return transport.AutoAssignResponse{}, err
		}

		s.log.Info("lead auto-assigned", "leadId", leadID, "vendedorId", vendedorID)
		s.eventBus.Publish(ctx, events.LeadAssigned{
			BaseEvent:  events.NewBaseEvent(),
			LeadID:     leadID,
			VendedorID: &vendedorID,
			Automatic:  true,
		})
		return transport.AutoAssignResponse{Assigned: true, VendedorID: &vendedorID}, nil
	}

	s.log.Warn("round-robin gave up after concurrent updates", "leadId", leadID, "attempts", maxPointerAttempts)
	return transport.AutoAssignResponse{}, apperr.Conflict("distribution is busy, try again")
}

// HandleLeadCreated distributes a freshly created lead.
func (s *Service) HandleLeadCreated(ctx context.Context, event events.Event) error {
	created, ok := event.(events.LeadCreated)
	if !ok {
		return nil
	}
	result, err := s.AutoAssign(ctx, created.LeadID)
	if err != nil {
		s.log.Error("automatic distribution failed", "leadId", created.LeadID, "error", err)
		return err
	}
	if !result.Assigned {
		s.log.Debug("lead left unassigned", "leadId", created.LeadID, "reason", result.Reason)
	}
	return nil
}

func skipped(reason string) transport.AutoAssignResponse {
	return transport.AutoAssignResponse{Assigned: false, Reason: reason}
}

func members(entries []repository.RosterEntry) []domain.Member {
	out := make([]domain.Member, len(entries))
	for i, e := range entries {
		out[i] = e.Member
	}
	return out
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func failureMessage(err error) string {
	if domainErr, ok := apperr.As(err); ok {
		return domainErr.Message
	}
	return "assignment failed"
}

func toConfigResponse(cfg repository.Config) transport.ConfigResponse {
	return transport.ConfigResponse{
		Enabled:                cfg.Enabled,
		DistributionMode:       cfg.Mode,
		LastAssignedVendedorID: cfg.LastAssignedVendedorID,
		UpdatedAt:              cfg.UpdatedAt,
	}
}

func toRosterResponse(e repository.RosterEntry) transport.RosterEntryResponse {
	return transport.RosterEntryResponse{
		ID:            e.ID,
		VendedorID:    e.VendedorID,
		VendedorNome:  e.VendedorNome,
		VendedorEmail: e.VendedorEmail,
		Active:        e.Active,
		Priority:      e.Priority,
		CreatedAt:     e.CreatedAt,
	}
}
