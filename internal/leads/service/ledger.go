package service

import (
	"context"

	"pipeline_backend/internal/leads/domain"
	"pipeline_backend/internal/leads/repository"
	"pipeline_backend/internal/leads/transport"
	"pipeline_backend/platform/apperr"
	"pipeline_backend/platform/httpkit"

	"github.com/google/uuid"
)

func (s *Service) ListTags(ctx context.Context, id uuid.UUID, identity httpkit.Identity) ([]transport.TagResponse, error) {
	if _, err := s.loadScoped(ctx, id, identity); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListTags(ctx, id)
	if err != nil {
		return nil, err
	}

	out := make([]transport.TagResponse, len(rows))
	for i, row := range rows {
		out[i] = transport.TagResponse{ServiceID: row.ServiceID, Nome: row.Nome, Ativo: row.Ativo}
	}
	return out, nil
}

// ReplaceTags overwrites the tag set of a lead. An empty set clears it.
func (s *Service) ReplaceTags(ctx context.Context, id uuid.UUID, identity httpkit.Identity, serviceIDs []uuid.UUID) ([]transport.TagResponse, error) {
	if _, err := s.loadScoped(ctx, id, identity); err != nil {
		return nil, err
	}

	ids := domain.UniqueIDs(serviceIDs)
	if _, err := s.serviceLabel(ctx, ids); err != nil {
		return nil, err
	}

	if err := s.repo.ReplaceTags(ctx, id, ids); err != nil {
		return nil, err
	}

	actorID := identity.UserID()
	if err := s.repo.AddActivity(ctx, repository.AddActivityParams{
		LeadID:    id,
		ActorID:   &actorID,
		EventType: repository.ActivityTagsReplaced,
		Message:   "service tags updated",
		Metadata:  map[string]any{"count": len(ids)},
	}); err != nil {
		s.log.Warn("failed to record tag activity", "leadId", id, "error", err)
	}

	s.log.Info("lead tags replaced", "leadId", id, "count", len(ids))
	return s.ListTags(ctx, id, identity)
}

func (s *Service) ListSoldServices(ctx context.Context, id uuid.UUID, identity httpkit.Identity) ([]transport.SoldServiceResponse, error) {
	if _, err := s.loadScoped(ctx, id, identity); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListSoldServices(ctx, id)
	if err != nil {
		return nil, err
	}

	out := make([]transport.SoldServiceResponse, len(rows))
	for i, row := range rows {
		out[i] = transport.SoldServiceResponse{
			ServiceID:  row.ServiceID,
			Nome:       row.Nome,
			Ativo:      row.Ativo,
			ValorCents: row.ValorCents,
		}
	}
	return out, nil
}

// ReplaceSoldServices overwrites the sale ledger of a won lead. The values
// must add up to the lead's won amount.
func (s *Service) ReplaceSoldServices(ctx context.Context, id uuid.UUID, identity httpkit.Identity, items []transport.SoldServiceInput) ([]transport.SoldServiceResponse, error) {
	lead, err := s.loadScoped(ctx, id, identity)
	if err != nil {
		return nil, err
	}
	if lead.Status != string(domain.StatusGanho) || lead.ValorGanhoCents == nil {
		return nil, apperr.Validation("sold services can only be set on won leads")
	}

	entries := make([]domain.SoldEntry, len(items))
	for i, item := range items {
		entries[i] = domain.SoldEntry{ServiceID: item.ServiceID, ValorCents: item.ValorCents}
	}
	if err := domain.ValidateSoldEntries(*lead.ValorGanhoCents, entries); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if _, err := s.serviceLabel(ctx, domain.EntryServiceIDs(entries)); err != nil {
		return nil, err
	}

	if err := s.repo.ReplaceSoldServices(ctx, id, entries); err != nil {
		return nil, err
	}

	actorID := identity.UserID()
	if err := s.repo.AddActivity(ctx, repository.AddActivityParams{
		LeadID:    id,
		ActorID:   &actorID,
		EventType: repository.ActivitySoldReplaced,
		Message:   "sold services updated",
		Metadata:  map[string]any{"count": len(entries)},
	}); err != nil {
		s.log.Warn("failed to record sold services activity", "leadId", id, "error", err)
	}

	s.log.Info("lead sold services replaced", "leadId", id, "count", len(entries))
	return s.ListSoldServices(ctx, id, identity)
}
