package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pipeline_backend/internal/events"
	"pipeline_backend/internal/leads/domain"
	"pipeline_backend/internal/leads/repository"
	"pipeline_backend/internal/leads/transport"
	"pipeline_backend/platform/apperr"
	"pipeline_backend/platform/httpkit"

	"github.com/google/uuid"
)

// Transition moves a lead to another status. The payload is validated before
// anything is written; the status, its association set and the timeline row
// are then committed together.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, identity httpkit.Identity, req transport.TransitionRequest) (transport.LeadResponse, error) {
	to, err := domain.ParseStatus(req.Status)
	if err != nil {
		return transport.LeadResponse{}, apperr.Validation("invalid status")
	}

	domainReq, err := toDomainTransition(to, req)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	plan, err := domain.PlanTransition(domainReq, s.now())
	if err != nil {
		return transport.LeadResponse{}, err
	}

	lead, err := s.loadScoped(ctx, id, identity)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	from := domain.Status(lead.Status)
	if !s.transitions.Allows(from, to) {
		return transport.LeadResponse{}, apperr.Validation(fmt.Sprintf("transition from %s to %s is not allowed", from, to)).
			WithDetails(map[string][]string{"allowed": statusNames(s.transitions.Targets(from))})
	}

	label, err := s.serviceLabel(ctx, plan.ServiceIDs())
	if err != nil {
		return transport.LeadResponse{}, err
	}

	params := repository.ApplyTransitionParams{
		LeadID:     id,
		ActorID:    identity.UserID(),
		FromStatus: lead.Status,
		Plan:       plan,
	}
	switch to {
	case domain.StatusGanho:
		params.WonLabel = label
	case domain.StatusInteresseOutros:
		params.InterestLabel = label
	}

	updated, err := s.repo.ApplyTransition(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.log.WithContext(ctx).Info("lead status changed", "leadId", id, "from", lead.Status, "to", to, "actorId", identity.UserID())

	evt := events.LeadStatusChanged{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     id,
		ActorID:    identity.UserID(),
		FromStatus: lead.Status,
		ToStatus:   string(to),
		VendedorID: updated.VendedorID,
	}
	if plan.Won != nil {
		total := plan.Won.TotalCents
		evt.WonCents = &total
	}
	s.eventBus.Publish(ctx, evt)

	return toLeadResponse(updated, s.now()), nil
}

// AllowedTransitions lists where the lead may go from its current status.
func (s *Service) AllowedTransitions(ctx context.Context, id uuid.UUID, identity httpkit.Identity) ([]string, error) {
	lead, err := s.loadScoped(ctx, id, identity)
	if err != nil {
		return nil, err
	}

	return statusNames(s.transitions.Targets(domain.Status(lead.Status))), nil
}

func statusNames(statuses []domain.Status) []string {
	out := make([]string, len(statuses))
	for i, st := range statuses {
		out[i] = string(st)
	}
	return out
}

func toDomainTransition(to domain.Status, req transport.TransitionRequest) (domain.TransitionRequest, error) {
	out := domain.TransitionRequest{
		To:           to,
		ServiceIDs:   req.ServiceIDs,
		TotalCents:   req.ValorGanhoCents,
		Installments: req.QtdParcelas,
	}

	if req.FormaPagamento != "" {
		method, err := domain.ParsePaymentMethod(req.FormaPagamento)
		if err != nil {
			return domain.TransitionRequest{}, apperr.Validation("invalid payment method")
		}
		out.PaymentMethod = method
	}

	if req.DataPagamento != "" {
		date, err := time.Parse(domain.DateLayout, req.DataPagamento)
		if err != nil {
			return domain.TransitionRequest{}, apperr.Validation("invalid payment date")
		}
		out.PaymentDate = &date
	}

	if len(req.SoldServices) > 0 {
		out.SoldServices = make([]domain.SoldEntry, len(req.SoldServices))
		for i, item := range req.SoldServices {
			out.SoldServices[i] = domain.SoldEntry{ServiceID: item.ServiceID, ValorCents: item.ValorCents}
		}
	}

	return out, nil
}

// serviceLabel joins the service names in request order, failing on any id
// missing from the catalog.
func (s *Service) serviceLabel(ctx context.Context, ids []uuid.UUID) (string, error) {
	if len(ids) == 0 {
		return "", nil
	}

	refs, err := s.repo.GetServices(ctx, ids)
	if err != nil {
		return "", err
	}

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		ref, ok := refs[id]
		if !ok {
			return "", apperr.Validation("unknown service: " + id.String())
		}
		names = append(names, ref.Nome)
	}
	return strings.Join(names, ", "), nil
}
