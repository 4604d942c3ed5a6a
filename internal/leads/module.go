// Package leads provides the lead lifecycle bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"pipeline_backend/internal/events"
	apphttp "pipeline_backend/internal/http"
	"pipeline_backend/internal/leads/domain"
	"pipeline_backend/internal/leads/handler"
	"pipeline_backend/internal/leads/repository"
	"pipeline_backend/internal/leads/service"
	"pipeline_backend/platform/config"
	"pipeline_backend/platform/logger"
	"pipeline_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler       *handler.Handler
	publicHandler *handler.PublicHandler
	service       *service.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
// The transition table is loaded from LEAD_TRANSITIONS_FILE when set.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, cfg config.LeadsConfig, log *logger.Logger) (*Module, error) {
	transitions, err := domain.LoadTransitionTable(cfg.GetLeadTransitionsFile())
	if err != nil {
		return nil, err
	}

	repo := repository.New(pool)
	svc := service.New(repo, eventBus, transitions, log)

	return &Module{
		handler:       handler.New(svc, val),
		publicHandler: handler.NewPublicHandler(svc, val),
		service:       svc,
	}, nil
}

// Service returns the leads service for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// EnableSLAReminders wires the scheduler that fires SLA checks.
func (m *Module) EnableSLAReminders(scheduler service.SLAScheduler, cfg config.LeadsConfig) {
	m.service.SetSLAScheduler(scheduler, cfg.GetSLAReminderOffset())
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.publicHandler.RegisterRoutes(ctx.Public)
	m.handler.RegisterRoutes(ctx.Protected.Group("/leads"))
}

var _ apphttp.Module = (*Module)(nil)
