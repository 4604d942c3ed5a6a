// Package service implements the service catalog used to tag leads and
// record sales.
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"pipeline_backend/internal/services/repository"
	"pipeline_backend/internal/services/transport"
	"pipeline_backend/platform/apperr"
	"pipeline_backend/platform/logger"
)

// Service provides business logic for the service catalog.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new services service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// GetByID retrieves a service by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.ServiceResponse, error) {
	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ServiceResponse{}, err
	}
	return toResponse(svc), nil
}

// List returns the catalog. Inactive services are hidden from pickers by
// passing activeOnly; they stay visible on existing leads.
func (s *Service) List(ctx context.Context, activeOnly bool) (transport.ServiceListResponse, error) {
	items, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return transport.ServiceListResponse{}, err
	}
	return toListResponse(items), nil
}

// Create creates a new active service.
func (s *Service) Create(ctx context.Context, req transport.CreateServiceRequest) (transport.ServiceResponse, error) {
	nome := strings.TrimSpace(req.Nome)
	if nome == "" {
		return transport.ServiceResponse{}, apperr.Validation("nome is required")
	}

	svc, err := s.repo.Create(ctx, repository.CreateParams{
		Nome:      nome,
		Descricao: trimmedOrNil(req.Descricao),
	})
	if err != nil {
		return transport.ServiceResponse{}, err
	}

	s.log.Info("service created", "id", svc.ID, "nome", svc.Nome)
	return toResponse(svc), nil
}

// Update updates an existing service.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateServiceRequest) (transport.ServiceResponse, error) {
	var nome *string
	if req.Nome != nil {
		trimmed := strings.TrimSpace(*req.Nome)
		if trimmed == "" {
			return transport.ServiceResponse{}, apperr.Validation("nome cannot be empty")
		}
		nome = &trimmed
	}

	svc, err := s.repo.Update(ctx, repository.UpdateParams{
		ID:        id,
		Nome:      nome,
		Descricao: trimmedOrNil(req.Descricao),
		Ativo:     req.Ativo,
	})
	if err != nil {
		return transport.ServiceResponse{}, err
	}

	s.log.Info("service updated", "id", svc.ID, "nome", svc.Nome)
	return toResponse(svc), nil
}

// Delete removes a service that no lead references.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("service deleted", "id", id)
	return nil
}

// ToggleActive flips the active flag of a service.
func (s *Service) ToggleActive(ctx context.Context, id uuid.UUID) (transport.ServiceResponse, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ServiceResponse{}, err
	}

	svc, err := s.repo.SetActive(ctx, id, !current.Ativo)
	if err != nil {
		return transport.ServiceResponse{}, err
	}

	s.log.Info("service active toggled", "id", id, "ativo", svc.Ativo)
	return toResponse(svc), nil
}

func toResponse(svc repository.Service) transport.ServiceResponse {
	return transport.ServiceResponse{
		ID:        svc.ID,
		Nome:      svc.Nome,
		Descricao: svc.Descricao,
		Ativo:     svc.Ativo,
		CreatedAt: svc.CreatedAt,
		UpdatedAt: svc.UpdatedAt,
	}
}

func toListResponse(items []repository.Service) transport.ServiceListResponse {
	responses := make([]transport.ServiceResponse, len(items))
	for i, item := range items {
		responses[i] = toResponse(item)
	}
	return transport.ServiceListResponse{Items: responses, Total: len(responses)}
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}
