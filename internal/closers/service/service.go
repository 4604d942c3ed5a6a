// Package service implements closer management. Vendedores manage their own
// closers; administrators see and manage all of them.
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"pipeline_backend/internal/closers/repository"
	"pipeline_backend/internal/closers/transport"
	"pipeline_backend/platform/apperr"
	"pipeline_backend/platform/httpkit"
	"pipeline_backend/platform/logger"
)

// Service provides business logic for closers.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new closers service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List returns the closers visible to the caller.
func (s *Service) List(ctx context.Context, actor httpkit.Identity, activeOnly bool) (transport.CloserListResponse, error) {
	items, err := s.repo.List(ctx, ownerScope(actor), activeOnly)
	if err != nil {
		return transport.CloserListResponse{}, err
	}

	responses := make([]transport.CloserResponse, len(items))
	for i, item := range items {
		responses[i] = toResponse(item)
	}
	return transport.CloserListResponse{Items: responses, Total: len(responses)}, nil
}

// Create adds a closer owned by the caller, or by the requested vendedor
// when an administrator creates it.
func (s *Service) Create(ctx context.Context, actor httpkit.Identity, req transport.CreateCloserRequest) (transport.CloserResponse, error) {
	nome := strings.TrimSpace(req.Nome)
	if nome == "" {
		return transport.CloserResponse{}, apperr.Validation("nome is required")
	}

	owner := actor.UserID()
	if actor.IsAdmin() && req.VendedorID != nil {
		owner = *req.VendedorID
	}

	closer, err := s.repo.Create(ctx, repository.CreateParams{VendedorID: owner, Nome: nome})
	if err != nil {
		return transport.CloserResponse{}, err
	}

	s.log.Info("closer created", "id", closer.ID, "vendedorId", owner)
	return toResponse(closer), nil
}

// Update renames or (de)activates a closer visible to the caller.
func (s *Service) Update(ctx context.Context, actor httpkit.Identity, id uuid.UUID, req transport.UpdateCloserRequest) (transport.CloserResponse, error) {
	var nome *string
	if req.Nome != nil {
		trimmed := strings.TrimSpace(*req.Nome)
		if trimmed == "" {
			return transport.CloserResponse{}, apperr.Validation("nome cannot be empty")
		}
		nome = &trimmed
	}

	closer, err := s.repo.Update(ctx, repository.UpdateParams{ID: id, Nome: nome, Ativo: req.Ativo}, ownerScope(actor))
	if err != nil {
		return transport.CloserResponse{}, err
	}

	s.log.Info("closer updated", "id", id)
	return toResponse(closer), nil
}

// Delete removes a closer visible to the caller.
func (s *Service) Delete(ctx context.Context, actor httpkit.Identity, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, ownerScope(actor)); err != nil {
		return err
	}
	s.log.Info("closer deleted", "id", id)
	return nil
}

func ownerScope(actor httpkit.Identity) *uuid.UUID {
	if actor.IsAdmin() {
		return nil
	}
	id := actor.UserID()
	return &id
}

func toResponse(c repository.Closer) transport.CloserResponse {
	return transport.CloserResponse{
		ID:           c.ID,
		VendedorID:   c.VendedorID,
		VendedorNome: c.VendedorNome,
		Nome:         c.Nome,
		Ativo:        c.Ativo,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
