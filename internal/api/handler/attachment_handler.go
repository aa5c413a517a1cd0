package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Staunch-Software/Drs-backend/internal/dto"
	"github.com/Staunch-Software/Drs-backend/internal/service"
	"github.com/Staunch-Software/Drs-backend/pkg/response"
)

// AttachmentHandler serves attachment metadata registration and SAS URL
// minting for thread attachments.
type AttachmentHandler struct {
	threadSvc service.ThreadService
	blobSvc   service.BlobService
	logger    *zap.Logger
}

// NewAttachmentHandler creates the AttachmentHandler.
func NewAttachmentHandler(threadSvc service.ThreadService, blobSvc service.BlobService, logger *zap.Logger) *AttachmentHandler {
	return &AttachmentHandler{threadSvc: threadSvc, blobSvc: blobSvc, logger: logger}
}

// Create handles POST /api/v1/defects/attachments: registers metadata
// for an already-uploaded blob.
func (h *AttachmentHandler) Create(c *gin.Context) {
	var req dto.CreateAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeValidation, err.Error())
		return
	}

	result, created, err := h.threadSvc.CreateAttachment(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		h.attachmentError(c, err)
		return
	}
	if !created {
		response.OK(c, result)
		return
	}
	response.Created(c, result)
}

// UploadURL handles GET /api/v1/attachments/upload-url. blobName is an
// accepted alias for the file_name parameter, kept for older clients.
func (h *AttachmentHandler) UploadURL(c *gin.Context) {
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

// SignedURL handles POST /api/v1/attachments/signed-url.
func (h *AttachmentHandler) SignedURL(c *gin.Context) {
	var req dto.SignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeValidation, err.Error())
		return
	}

	result, err := h.blobSvc.SignedURL(req.BlobPath)
	if err != nil {
		h.logger.Error("minting signed url failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// BatchSignedURLs handles POST /api/v1/attachments/batch-signed-urls.
func (h *AttachmentHandler) BatchSignedURLs(c *gin.Context) {
	var req dto.BatchSignedURLsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeValidation, err.Error())
		return
	}

	response.OK(c, h.blobSvc.BatchSignedURLs(req.BlobPaths))
}

func (h *AttachmentHandler) attachmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrThreadNotFound):
		response.NotFound(c, response.CodeNotFound, err.Error())
	case errors.Is(err, service.ErrAttachmentTooLarge):
		response.Error(c, 413, response.CodeTooLarge, err.Error())
	default:
		h.logger.Error("attachment operation failed", zap.Error(err))
		response.InternalError(c)
	}
}
