// Package closers provides the closer management bounded context module.
package closers

import (
	"pipeline_backend/internal/closers/handler"
	"pipeline_backend/internal/closers/repository"
	"pipeline_backend/internal/closers/service"
	apphttp "pipeline_backend/internal/http"
	"pipeline_backend/platform/logger"
	"pipeline_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the closers bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the closers module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), log)
	return &Module{handler: handler.New(svc, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "closers"
}

// RegisterRoutes mounts closer routes on the protected group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/closers"))
}

var _ apphttp.Module = (*Module)(nil)
