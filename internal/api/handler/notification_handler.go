package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Staunch-Software/Drs-backend/internal/service"
	"github.com/Staunch-Software/Drs-backend/pkg/response"
)

// NotificationHandler serves the current user's mention tasks and in-app
// notifications.
type NotificationHandler struct {
	svc    service.UserService
	logger *zap.Logger
}

// NewNotificationHandler creates the NotificationHandler.
func NewNotificationHandler(svc service.UserService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, logger: logger}
}

// MyTasks handles GET /api/v1/users/me/tasks.
func (h *NotificationHandler) MyTasks(c *gin.Context) {
	tasks, err := h.svc.MyTasks(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.logger.Error("listing tasks failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, tasks)
}

// CompleteTask handles PATCH /api/v1/tasks/:id/complete.
func (h *NotificationHandler) CompleteTask(c *gin.Context) {
	result, err := h.svc.CompleteTask(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTaskNotFound):
			response.NotFound(c, response.CodeNotFound, err.Error())
		case errors.Is(err, service.ErrNotOwner):
			response.Forbidden(c, response.CodeForbidden, err.Error())
		default:
			h.logger.Error("completing task failed", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// MyNotifications handles GET /api/v1/users/me/notifications.
func (h *NotificationHandler) MyNotifications(c *gin.Context) {
	notifications, err := h.svc.MyNotifications(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.logger.Error("listing notifications failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, notifications)
}

// MarkRead handles PATCH /api/v1/notifications/:id/read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	result, err := h.svc.MarkNotificationRead(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotificationNotFound):
			response.NotFound(c, response.CodeNotFound, err.Error())
		case errors.Is(err, service.ErrNotOwner):
			response.Forbidden(c, response.CodeForbidden, err.Error())
		default:
			h.logger.Error("marking notification read failed", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// MarkAllSeen handles POST /api/v1/notifications/mark-all-seen.
func (h *NotificationHandler) MarkAllSeen(c *gin.Context) {
	if err := h.svc.MarkAllSeen(c.Request.Context(), currentUserID(c)); err != nil {
		h.logger.Error("marking notifications seen failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"message": "all notifications marked seen"})
}
