// Package dashboard provides the sales dashboard module.
package dashboard

import (
	"pipeline_backend/internal/dashboard/cache"
	"pipeline_backend/internal/dashboard/handler"
	"pipeline_backend/internal/dashboard/repository"
	"pipeline_backend/internal/dashboard/service"
	"pipeline_backend/internal/events"
	apphttp "pipeline_backend/internal/http"
	"pipeline_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the dashboard module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule wires the dashboard. Pass a nil cache to compute on every
// request. Every lead event invalidates the cache.
func NewModule(pool *pgxpool.Pool, c cache.Cache, bus events.Bus, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), c, log)

	invalidate := events.HandlerFunc(svc.HandleLeadEvent)
	for _, name := range []string{
		events.LeadCreated{}.EventName(),
		events.LeadStatusChanged{}.EventName(),
		events.LeadAssigned{}.EventName(),
		events.LeadDeleted{}.EventName(),
		events.LeadSLAWarning{}.EventName(),
	} {
		bus.Subscribe(name, invalidate)
	}

	return &Module{handler: handler.New(svc)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "dashboard"
}

// RegisterRoutes mounts the dashboard on the protected group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/dashboard", m.handler.Get)
}

var _ apphttp.Module = (*Module)(nil)
