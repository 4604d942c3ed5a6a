package handler

import (
	"net/http"

	"pipeline_backend/internal/leads/service"
	"pipeline_backend/internal/leads/transport"
	"pipeline_backend/platform/httpkit"
	"pipeline_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// PublicHandler serves the unauthenticated landing page intake.
type PublicHandler struct {
	svc *service.Service
	val *validator.Validator
}

func NewPublicHandler(svc *service.Service, val *validator.Validator) *PublicHandler {
	return &PublicHandler{svc: svc, val: val}
}

// RegisterRoutes registers the intake under /public.
func (h *PublicHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/leads", h.Create)
}

// POST /api/v1/public/leads
// The stored row is never echoed back.
func (h *PublicHandler) Create(c *gin.Context) {
	var req transport.PublicLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if httpkit.HandleError(c, h.svc.CreatePublic(c.Request.Context(), req)) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.PublicLeadResponse{Success: true})
}
