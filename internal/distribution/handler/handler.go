package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pipeline_backend/internal/distribution/service"
	"pipeline_backend/internal/distribution/transport"
	"pipeline_backend/platform/httpkit"
	"pipeline_backend/platform/validator"
)

// Handler handles HTTP requests for distribution administration.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidRosterID  = "invalid roster entry ID"
	msgInvalidLeadID    = "invalid lead ID"
)

// New creates a new distribution handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts distribution routes on an admin-only group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/config", h.GetConfig)
	rg.PUT("/config", h.UpdateConfig)
	rg.GET("/roster", h.ListRoster)
	rg.POST("/roster", h.AddToRoster)
	rg.PATCH("/roster/:id", h.UpdateRoster)
	rg.DELETE("/roster/:id", h.RemoveFromRoster)
	rg.POST("/batch", h.BatchAssign)
	rg.POST("/auto-assign/:leadId", h.AutoAssign)
}

// GET /api/v1/admin/distribution/config
func (h *Handler) GetConfig(c *gin.Context) {
	result, err := h.svc.GetConfig(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// PUT /api/v1/admin/distribution/config
func (h *Handler) UpdateConfig(c *gin.Context) {
	var req transport.UpdateConfigRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.UpdateConfig(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GET /api/v1/admin/distribution/roster
func (h *Handler) ListRoster(c *gin.Context) {
	result, err := h.svc.ListRoster(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// POST /api/v1/admin/distribution/roster
func (h *Handler) AddToRoster(c *gin.Context) {
	var req transport.AddRosterRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.AddToRoster(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// PATCH /api/v1/admin/distribution/roster/:id
func (h *Handler) UpdateRoster(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRosterID, nil)
		return
	}
	var req transport.UpdateRosterRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.UpdateRoster(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DELETE /api/v1/admin/distribution/roster/:id
func (h *Handler) RemoveFromRoster(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRosterID, nil)
		return
	}

	if httpkit.HandleError(c, h.svc.RemoveFromRoster(c.Request.Context(), id)) {
		return
	}
	httpkit.NoContent(c)
}

// POST /api/v1/admin/distribution/batch
func (h *Handler) BatchAssign(c *gin.Context) {
	var req transport.BatchAssignRequest
	if !h.bind(c, &req) {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.BatchAssign(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// POST /api/v1/admin/distribution/auto-assign/:leadId
func (h *Handler) AutoAssign(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("leadId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return
	}

	result, err := h.svc.AutoAssign(c.Request.Context(), leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return false
	}
	return true
}
