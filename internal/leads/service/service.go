// Package service implements the lead lifecycle: intake, scoped reads and
// edits, status transitions with their ledger side effects, and assignment.
package service

import (
	"context"
	"math"
	"strings"
	"time"

	"pipeline_backend/internal/events"
	"pipeline_backend/internal/leads/domain"
	"pipeline_backend/internal/leads/repository"
	"pipeline_backend/internal/leads/transport"
	"pipeline_backend/platform/apperr"
	"pipeline_backend/platform/httpkit"
	"pipeline_backend/platform/logger"
	"pipeline_backend/platform/phone"
	"pipeline_backend/platform/sanitize"
	"pipeline_backend/platform/taxid"

	"github.com/google/uuid"
)

const (
	msgLeadNotFound  = "lead not found"
	defaultPageSize  = 20
	maxPageSize      = 100
	activityLeadNote = "lead received from the landing page"
)

// SLAScheduler enqueues the reminder that fires before a lead's SLA expires.
type SLAScheduler interface {
	ScheduleLeadSLACheck(ctx context.Context, leadID uuid.UUID, runAt time.Time) error
}

// Service provides business logic for leads.
type Service struct {
	repo        repository.Repository
	eventBus    events.Bus
	transitions domain.TransitionTable
	log         *logger.Logger

	sla         SLAScheduler
	slaReminder time.Duration
	now         func() time.Time
}

// New creates a new leads service.
func New(repo repository.Repository, eventBus events.Bus, transitions domain.TransitionTable, log *logger.Logger) *Service {
	return &Service{
		repo:        repo,
		eventBus:    eventBus,
		transitions: transitions,
		log:         log,
		now:         time.Now,
	}
}

// SetSLAScheduler enables SLA reminders, fired offset after lead creation.
func (s *Service) SetSLAScheduler(scheduler SLAScheduler, offset time.Duration) {
	s.sla = scheduler
	s.slaReminder = offset
}

// CreatePublic stores a lead from the landing page. Nothing about the stored
// row is returned to the anonymous caller.
func (s *Service) CreatePublic(ctx context.Context, req transport.PublicLeadRequest) error {
	if !taxid.Valid(req.CpfCnpj) {
		return apperr.Validation("invalid CPF/CNPJ")
	}
	telefone := phone.NormalizeE164(req.Telefone)

	nome := sanitize.Line(req.NomeCompleto)
	if nome == "" {
		return apperr.Validation("nomeCompleto is required")
	}

	lead, err := s.repo.Create(ctx, repository.CreateLeadParams{
		NomeCompleto: nome,
		Telefone:     telefone,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		CpfCnpj:      taxid.Normalize(req.CpfCnpj),
		Notas:        sanitize.TextPtr(req.Mensagem),
	})
	if err != nil {
		return err
	}

	if err := s.repo.AddActivity(ctx, repository.AddActivityParams{
		LeadID:    lead.ID,
		EventType: repository.ActivityCreated,
		Message:   activityLeadNote,
	}); err != nil {
		s.log.Warn("failed to record lead creation activity", "leadId", lead.ID, "error", err)
	}

	s.log.Info("lead created", "leadId", lead.ID)
	s.eventBus.Publish(ctx, events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		Name:      lead.NomeCompleto,
		CreatedAt: lead.CreatedAt,
	})

	if s.sla != nil {
		runAt := lead.CreatedAt.Add(s.slaReminder)
		if err := s.sla.ScheduleLeadSLACheck(ctx, lead.ID, runAt); err != nil {
			s.log.Warn("failed to schedule sla reminder", "leadId", lead.ID, "error", err)
		}
	}

	return nil
}

// GetByID returns a lead visible to the caller.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, identity httpkit.Identity) (transport.LeadResponse, error) {
	lead, err := s.loadScoped(ctx, id, identity)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return toLeadResponse(lead, s.now()), nil
}

// List returns the leads visible to the caller. Vendedores only ever see
// their own leads, whatever filter they send.
func (s *Service) List(ctx context.Context, identity httpkit.Identity, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	params := repository.ListParams{
		Search: req.Search,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}
	if req.Status != "" {
		status := req.Status
		params.Status = &status
	}
	if req.From != "" {
		from, err := time.Parse(domain.DateLayout, req.From)
		if err != nil {
			return transport.LeadListResponse{}, apperr.Validation("invalid from date")
		}
		params.CreatedFrom = &from
	}
	if req.To != "" {
		to, err := time.Parse(domain.DateLayout, req.To)
		if err != nil {
			return transport.LeadListResponse{}, apperr.Validation("invalid to date")
		}
		end := to.AddDate(0, 0, 1)
		params.CreatedTo = &end
	}

	if identity.IsAdmin() {
		params.Unassigned = req.Unassigned
		if req.VendedorID != "" {
			vendedorID, err := uuid.Parse(req.VendedorID)
			if err != nil {
				return transport.LeadListResponse{}, apperr.Validation("invalid vendedorId")
			}
			params.VendedorID = &vendedorID
		}
	} else {
		own := identity.UserID()
		params.VendedorID = &own
	}

	leads, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	now := s.now()
	items := make([]transport.LeadResponse, len(leads))
	for i, lead := range leads {
		items[i] = toLeadResponse(lead, now)
	}

	return transport.LeadListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// Stats counts the caller's visible leads per status.
func (s *Service) Stats(ctx context.Context, identity httpkit.Identity) (transport.LeadStatsResponse, error) {
	var scope *uuid.UUID
	if !identity.IsAdmin() {
		own := identity.UserID()
		scope = &own
	}

	stats, err := s.repo.Stats(ctx, scope)
	if err != nil {
		return transport.LeadStatsResponse{}, err
	}

	byStatus := make(map[string]int, len(domain.AllStatuses()))
	for _, status := range domain.AllStatuses() {
		byStatus[string(status)] = stats.ByStatus[string(status)]
	}

	return transport.LeadStatsResponse{
		Total:         stats.Total,
		ByStatus:      byStatus,
		WonCount:      stats.WonCount,
		WonTotalCents: stats.WonTotalCents,
	}, nil
}

// Update edits contact details, notes and the closer of a lead.
func (s *Service) Update(ctx context.Context, id uuid.UUID, identity httpkit.Identity, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	if _, err := s.loadScoped(ctx, id, identity); err != nil {
		return transport.LeadResponse{}, err
	}

	params := repository.UpdateLeadParams{
		NomeCompleto: cleanedLine(req.NomeCompleto),
		Notas:        cleanedText(req.Notas),
	}
	if params.NomeCompleto != nil && *params.NomeCompleto == "" {
		return transport.LeadResponse{}, apperr.Validation("nomeCompleto cannot be empty")
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		params.Email = &email
	}
	if req.Telefone != nil {
		telefone := phone.NormalizeE164(*req.Telefone)
		params.Telefone = &telefone
	}
	if req.CloserID.Set {
		if req.CloserID.Value != nil && !identity.IsAdmin() {
			owner, err := s.repo.CloserOwner(ctx, *req.CloserID.Value)
			if err != nil {
				return transport.LeadResponse{}, err
			}
			if owner != identity.UserID() {
				return transport.LeadResponse{}, apperr.Forbidden("closer belongs to another vendedor")
			}
		}
		params.CloserSet = true
		params.CloserID = req.CloserID.Value
	}

	lead, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.log.Info("lead updated", "leadId", id, "actorId", identity.UserID())
	return toLeadResponse(lead, s.now()), nil
}

// Delete removes a lead. Admin only.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, identity httpkit.Identity) error {
	if !identity.IsAdmin() {
		return apperr.Forbidden("only administrators can delete leads")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("lead deleted", "leadId", id, "actorId", identity.UserID())
	s.eventBus.Publish(ctx, events.LeadDeleted{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    id,
		ActorID:   identity.UserID(),
	})
	return nil
}

// ListActivity returns the lead timeline, newest first.
func (s *Service) ListActivity(ctx context.Context, id uuid.UUID, identity httpkit.Identity) ([]transport.ActivityResponse, error) {
	if _, err := s.loadScoped(ctx, id, identity); err != nil {
		return nil, err
	}

	items, err := s.repo.ListActivity(ctx, id)
	if err != nil {
		return nil, err
	}

	out := make([]transport.ActivityResponse, len(items))
	for i, item := range items {
		out[i] = transport.ActivityResponse{
			ID:        item.ID,
			ActorID:   item.ActorID,
			EventType: item.EventType,
			Message:   item.Message,
			Metadata:  item.Metadata,
			CreatedAt: item.CreatedAt,
		}
	}
	return out, nil
}

// loadScoped hides leads the caller may not see behind a not-found error.
func (s *Service) loadScoped(ctx context.Context, id uuid.UUID, identity httpkit.Identity) (repository.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Lead{}, err
	}
	if !canAccess(lead, identity) {
		return repository.Lead{}, apperr.NotFound(msgLeadNotFound)
	}
	return lead, nil
}

func canAccess(lead repository.Lead, identity httpkit.Identity) bool {
	if identity.IsAdmin() {
		return true
	}
	return lead.VendedorID != nil && *lead.VendedorID == identity.UserID()
}

func cleanedLine(value *string) *string {
	if value == nil {
		return nil
	}
	out := sanitize.Line(*value)
	return &out
}

// cleanedText keeps an explicit empty note so it can be cleared.
func cleanedText(value *string) *string {
	if value == nil {
		return nil
	}
	out := sanitize.Text(*value)
	return &out
}
