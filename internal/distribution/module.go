// Package distribution provides the lead distribution bounded context module.
package distribution

import (
	"pipeline_backend/internal/distribution/handler"
	"pipeline_backend/internal/distribution/repository"
	"pipeline_backend/internal/distribution/service"
	"pipeline_backend/internal/events"
	apphttp "pipeline_backend/internal/http"
	"pipeline_backend/platform/logger"
	"pipeline_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the distribution bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the distribution module and subscribes it to lead creation.
func NewModule(pool *pgxpool.Pool, assigner service.LeadAssigner, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), assigner, eventBus, log)
	eventBus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(svc.HandleLeadCreated))

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Service returns the distribution service.
func (m *Module) Service() *service.Service {
	return m.service
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "distribution"
}

// RegisterRoutes mounts distribution routes under /admin/distribution.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Admin.Group("/distribution"))
}

var _ apphttp.Module = (*Module)(nil)
