package handler

import (
	"net/http"

	"pipeline_backend/internal/leads/service"
	"pipeline_backend/internal/leads/transport"
	"pipeline_backend/platform/httpkit"
	"pipeline_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler serves the authenticated lead routes.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidLeadID    = "invalid lead ID"
)

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the lead routes on a group that already requires an
// admin or vendedor token.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	adminOnly := httpkit.RequireRole(httpkit.RoleAdmin)

	rg.GET("", h.List)
	rg.GET("/stats", h.Stats)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", adminOnly, h.Delete)
	rg.PATCH("/:id/status", h.Transition)
	rg.GET("/:id/transitions", h.AllowedTransitions)
	rg.GET("/:id/activity", h.ListActivity)
	rg.GET("/:id/tags", h.ListTags)
	rg.PUT("/:id/tags", h.ReplaceTags)
	rg.GET("/:id/sold-services", h.ListSoldServices)
	rg.PUT("/:id/sold-services", h.ReplaceSoldServices)
	rg.PUT("/:id/assign", adminOnly, h.Assign)
}

// GET /api/v1/leads
func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.List(c.Request.Context(), identity, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GET /api/v1/leads/stats
func (h *Handler) Stats(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Stats(c.Request.Context(), identity)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GET /api/v1/leads/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, identity, ok := h.leadContext(c)
	if !ok {
		return
	}

	lead, err := h.svc.GetByID(c.Request.Context(), id, identity)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

// PATCH /api/v1/leads/:id
func (h *Handler) Update(c *gin.Context) {
	id, identity, ok := h.leadContext(c)
	if !ok {
		return
	}

	var req transport.UpdateLeadRequest
	if !h.bind(c, &req) {
		return
	}

	lead, err := h.svc.Update(c.Request.Context(), id, identity, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

// DELETE /api/v1/leads/:id
func (h *Handler) Delete(c *gin.Context) {
	id, identity, ok := h.leadContext(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id, identity)) {
		return
	}
	httpkit.NoContent(c)
}

// PATCH /api/v1/leads/:id/status
func (h *Handler) Transition(c *gin.Context) {
	id, identity, ok := h.leadContext(c)
	if !ok {
		return
	}

	var req transport.TransitionRequest
	if !h.bind(c, &req) {
		return
	}

	lead, err := h.svc.Transition(c.Request.Context(), id, identity, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

// GET /api/v1/leads/:id/transitions
func (h *Handler) AllowedTransitions(c *gin.Context) {
	id, identity, ok := h.leadContext(c)
	if !ok {
		return
	}

	targets, err := h.svc.AllowedTransitions(c.Request.Context(), id, identity)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"statuses": targets})
}

// GET /api/v1/leads/:id/activity
func (h *Handler) ListActivity(c *gin.Context) {
	id, identity, ok := h.leadContext(c)
	if !ok {
		return
	}

	items, err := h.svc.ListActivity(c.Request.Context(), id, identity)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": items})
}

// GET /api/v1/leads/:id/tags
func (h *Handler) ListTags(c *gin.Context) {
	id, identity, ok := h.leadContext(c)
	if !ok {
		return
	}

	tags, err := h.svc.ListTags(c.Request.Context(), id, identity)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": tags})
}

// PUT /api/v1/leads/:id/tags
func (h *Handler) ReplaceTags(c *gin.Context) {
	id, identity, ok := h.leadContext(c)
	if !ok {
		return
	}

	var req transport.ReplaceTagsRequest
	if !h.bind(c, &req) {
		return
	}

	tags, err := h.svc.ReplaceTags(c.Request.Context(), id, identity, req.ServiceIDs)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": tags})
}

// GET /api/v1/leads/:id/sold-services
func (h *Handler) ListSoldServices(c *gin.Context) {
	id, identity, ok := h.leadContext(c)
	if !ok {
		return
	}

	items, err := h.svc.ListSoldServices(c.Request.Context(), id, identity)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": items})
}

// PUT /api/v1/leads/:id/sold-services
func (h *Handler) ReplaceSoldServices(c *gin.Context) {
	id, identity, ok := h.leadContext(c)
	if !ok {
		return
	}

	var req transport.ReplaceSoldServicesRequest
	if !h.bind(c, &req) {
		return
	}

	items, err := h.svc.ReplaceSoldServices(c.Request.Context(), id, identity, req.Items)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": items})
}

// PUT /api/v1/leads/:id/assign
func (h *Handler) Assign(c *gin.Context) {
	id, identity, ok := h.leadContext(c)
	if !ok {
		return
	}

	var req transport.AssignLeadRequest
	if !h.bind(c, &req) {
		return
	}

	lead, err := h.svc.Assign(c.Request.Context(), id, req.VendedorID, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) leadContext(c *gin.Context) (uuid.UUID, httpkit.Identity, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return uuid.Nil, nil, false
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return uuid.Nil, nil, false
	}
	return id, identity, true
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
