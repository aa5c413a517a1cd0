package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Staunch-Software/Drs-backend/internal/service"
	"github.com/Staunch-Software/Drs-backend/pkg/response"
)

// ExportHandler streams defect register exports.
type ExportHandler struct {
	svc    service.ExportService
	logger *zap.Logger
}

// NewExportHandler creates the ExportHandler.
func NewExportHandler(svc service.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{svc: svc, logger: logger}
}

// Defects handles GET /api/v1/export/defects: the register as xlsx.
func (h *ExportHandler) Defects(c *gin.Context) {
	file, err := h.svc.ExportDefects(c.Request.Context(), currentUserID(c), c.Query("vessel"))
	if err != nil {
		h.exportError(c, err)
		return
	}
	h.stream(c, file)
}

// Calendar handles GET /api/v1/export/defects/calendar.ics.
func (h *ExportHandler) Calendar(c *gin.Context) {
	file, err := h.svc.ExportTargetCloseCalendar(c.Request.Context(), currentUserID(c), c.Query("vessel"))
	if err != nil {
		h.exportError(c, err)
		return
	}
	h.stream(c, file)
}

func (h *ExportHandler) stream(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

func (h *ExportHandler) exportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNothingToExport):
		response.NotFound(c, response.CodeNotFound, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, response.CodeNotFound, err.Error())
	default:
		h.logger.Error("export failed", zap.Error(err))
		response.InternalError(c)
	}
}
