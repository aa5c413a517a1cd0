package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Staunch-Software/Drs-backend/internal/dto"
	"github.com/Staunch-Software/Drs-backend/internal/service"
	"github.com/Staunch-Software/Drs-backend/pkg/response"
)

// VesselHandler serves the fleet registry.
type VesselHandler struct {
	svc    service.VesselService
	logger *zap.Logger
}

// NewVesselHandler creates the VesselHandler.
func NewVesselHandler(svc service.VesselService, logger *zap.Logger) *VesselHandler {
	return &VesselHandler{svc: svc, logger: logger}
}

// Create handles POST /api/v1/vessels.
func (h *VesselHandler) Create(c *gin.Context) {
	var req dto.CreateVesselRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeValidation, err.Error())
		return
	}

	result, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrVesselExists) {
			response.Conflict(c, response.CodeConflict, err.Error())
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			response.BadRequest(c, response.CodeValidation, err.Error())
			return
		}
		h.logger.Error("creating vessel failed", zap.Error(err))
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// Get handles GET /api/v1/vessels/:imo.
func (h *VesselHandler) Get(c *gin.Context) {
	result, err := h.svc.Get(c.Request.Context(), c.Param("imo"))
	if err != nil {
		if errors.Is(err, service.ErrVesselNotFound) {
			response.NotFound(c, response.CodeNotFound, err.Error())
			return
		}
		h.logger.Error("loading vessel failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// List handles GET /api/v1/vessels.
func (h *VesselHandler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.logger.Error("listing vessels failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
