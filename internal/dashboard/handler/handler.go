package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pipeline_backend/internal/dashboard/service"
	"pipeline_backend/internal/dashboard/transport"
	"pipeline_backend/platform/httpkit"
)

// Handler serves the dashboard.
type Handler struct {
	svc *service.Service
}

// New creates a new dashboard handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Get returns the aggregates for the caller's scope.
// GET /api/v1/dashboard?period=30d&vendedorId=...
func (h *Handler) Get(c *gin.Context) {
	var req transport.DashboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Get(c.Request.Context(), identity, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
