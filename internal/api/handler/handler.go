package handler

import (
	"go.uber.org/zap"

	"github.com/Staunch-Software/Drs-backend/internal/service"
)

// Handler aggregates all HTTP handlers.
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Vessel       *VesselHandler
	Defect       *DefectHandler
	Attachment   *AttachmentHandler
	Notification *NotificationHandler
	Export       *ExportHandler
}

// NewHandler wires the handler aggregate.
func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth, logger),
		User:         NewUserHandler(svc.User, logger),
		Vessel:       NewVesselHandler(svc.Vessel, logger),
		Defect:       NewDefectHandler(svc.Defect, svc.Thread, svc.Blob, logger),
		Attachment:   NewAttachmentHandler(svc.Thread, svc.Blob, logger),
		Notification: NewNotificationHandler(svc.User, logger),
		Export:       NewExportHandler(svc.Export, logger),
	}
}
