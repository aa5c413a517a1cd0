package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Staunch-Software/Drs-backend/internal/dto"
	"github.com/Staunch-Software/Drs-backend/internal/service"
	"github.com/Staunch-Software/Drs-backend/pkg/response"
)

// DefectHandler serves the defect lifecycle, its chat threads, and its
// procurement entries.
type DefectHandler struct {
	svc       service.DefectService
	threadSvc service.ThreadService
	blobSvc   service.BlobService
	logger    *zap.Logger
}

// NewDefectHandler creates the DefectHandler.
func NewDefectHandler(svc service.DefectService, threadSvc service.ThreadService, blobSvc service.BlobService, logger *zap.Logger) *DefectHandler {
	return &DefectHandler{svc: svc, threadSvc: threadSvc, blobSvc: blobSvc, logger: logger}
}

// List handles GET /api/v1/defects.
func (h *DefectHandler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context(), currentUserID(c), c.Query("vessel_imo"))
	if err != nil {
		h.defectError(c, err, "listing defects failed")
		return
	}
	response.OK(c, result)
}

// Get handles GET /api/v1/defects/:id.
func (h *DefectHandler) Get(c *gin.Context) {
	result, err := h.svc.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.defectError(c, err, "loading defect failed")
		return
	}
	response.OK(c, result)
}

// Create handles POST /api/v1/defects.
func (h *DefectHandler) Create(c *gin.Context) {
	var req dto.CreateDefectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeValidation, err.Error())
		return
	}

	result, created, err := h.svc.Create(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		h.defectError(c, err, "creating defect failed")
		return
	}
	if !created {
		// Retry of an earlier submission: the existing record comes back.
		response.OK(c, result)
		return
	}
	response.Created(c, result)
}

// Update handles PATCH /api/v1/defects/:id.
func (h *DefectHandler) Update(c *gin.Context) {
	var req dto.UpdateDefectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeValidation, err.Error())
		return
	}

	result, err := h.svc.Update(c.Request.Context(), currentUserID(c), c.Param("id"), &req)
	if err != nil {
		h.defectError(c, err, "updating defect failed")
		return
	}
	response.OK(c, result)
}

// Close handles PATCH /api/v1/defects/:id/close.
func (h *DefectHandler) Close(c *gin.Context) {
	var req dto.CloseDefectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeValidation, err.Error())
		return
	}

	result, err := h.svc.Close(c.Request.Context(), currentUserID(c), c.Param("id"), &req)
	if err != nil {
		h.defectError(c, err, "closing defect failed")
		return
	}
	response.OK(c, result)
}

// Delete handles DELETE /api/v1/defects/:id.
func (h *DefectHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.defectError(c, err, "deleting defect failed")
		return
	}
	response.OK(c, gin.H{"message": "defect removed"})
}

// ── threads ──

// CreateThread handles POST /api/v1/defects/threads.
func (h *DefectHandler) CreateThread(c *gin.Context) {
	var req dto.CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeValidation, err.Error())
		return
	}

	result, created, err := h.threadSvc.Create(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		h.defectError(c, err, "creating thread failed")
		return
	}
	if !created {
		response.OK(c, result)
		return
	}
	response.Created(c, result)
}

// ListThreads handles GET /api/v1/defects/:id/threads.
func (h *DefectHandler) ListThreads(c *gin.Context) {
	result, err := h.threadSvc.ListByDefect(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.defectError(c, err, "listing threads failed")
		return
	}
	response.OK(c, result)
}

// ── procurement entries ──

// CreatePrEntry handles POST /api/v1/defects/:id/pr-entries.
func (h *DefectHandler) CreatePrEntry(c *gin.Context) {
	var req dto.CreatePrEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeValidation, err.Error())
		return
	}

	result, err := h.svc.CreatePrEntry(c.Request.Context(), currentUserID(c), c.Param("id"), &req)
	if err != nil {
		h.defectError(c, err, "creating pr entry failed")
		return
	}
	response.Created(c, result)
}

// ListPrEntries handles GET /api/v1/defects/:id/pr-entries.
func (h *DefectHandler) ListPrEntries(c *gin.Context) {
	result, err := h.svc.ListPrEntries(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.defectError(c, err, "listing pr entries failed")
		return
	}
	response.OK(c, result)
}

// DeletePrEntry handles DELETE /api/v1/pr-entries/:id.
func (h *DefectHandler) DeletePrEntry(c *gin.Context) {
	if err := h.svc.DeletePrEntry(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.defectError(c, err, "deleting pr entry failed")
		return
	}
	response.OK(c, gin.H{"message": "pr entry removed"})
}

// ── SAS ──

// UploadURL handles GET /api/v1/defects/sas: a write URL for direct
// image upload during defect reporting. blobName is an accepted alias
// for the file_name parameter, kept for older clients.
func (h *DefectHandler) UploadURL(c *gin.Context) {
	fileName := c.Query("file_name")
	if fileName == "" {
		fileName = c.Query("blobName")
	}
	if fileName == "" {
		response.BadRequest(c, response.CodeValidation, "file_name query parameter is required")
		return
	}

	result, err := h.blobSvc.UploadURL(fileName)
	if err != nil {
		h.logger.Error("minting upload url failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// defectError maps service sentinels onto HTTP status codes.
func (h *DefectHandler) defectError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrDefectNotFound),
		errors.Is(err, service.ErrThreadNotFound),
		errors.Is(err, service.ErrPrEntryNotFound),
		errors.Is(err, service.ErrVesselNotFound),
		errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, response.CodeNotFound, err.Error())
	case errors.Is(err, service.ErrVesselNotAllowed):
		response.Forbidden(c, response.CodeForbidden, err.Error())
	case errors.Is(err, service.ErrDefectClosed):
		response.Conflict(c, response.CodeConflict, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		response.BadRequest(c, response.CodeValidation, err.Error())
	case errors.Is(err, service.ErrAttachmentTooLarge):
		response.Error(c, 413, response.CodeTooLarge, err.Error())
	default:
		h.logger.Error(logMsg, zap.Error(err))
		response.InternalError(c)
	}
}
