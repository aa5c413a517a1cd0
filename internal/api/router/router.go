package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Staunch-Software/Drs-backend/config"
	"github.com/Staunch-Software/Drs-backend/internal/api/handler"
	"github.com/Staunch-Software/Drs-backend/internal/api/middleware"
	"github.com/Staunch-Software/Drs-backend/internal/model"
	"github.com/Staunch-Software/Drs-backend/pkg/jwt"
	"github.com/Staunch-Software/Drs-backend/pkg/redis"
)

// maxBodyBytes caps JSON request bodies at 1 MiB, matching the
// per-attachment size limit. File content goes to blob storage directly,
// so nothing legitimate comes close.
const maxBodyBytes = 1 << 20

// New builds the gin engine with all routes and middleware.
func New(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(&cfg.Server.CORS),
		middleware.BodyLimit(maxBodyBytes),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	// Credential exchange is the only unauthenticated endpoint; it gets a
	// per-IP rate limit to slow password guessing.
	v1.POST("/login/access-token",
		middleware.RateLimit(rdb, logger, "login", 10, time.Minute),
		h.Auth.Login,
	)

	authed := v1.Group("")
	authed.Use(middleware.JWTAuth(jwtMgr, rdb))
	{
		authed.POST("/auth/logout", h.Auth.Logout)

		defects := authed.Group("/defects")
		{
			defects.GET("", h.Defect.List)
			defects.POST("", h.Defect.Create)
			defects.GET("/sas", h.Defect.UploadURL)
			defects.POST("/threads", h.Defect.CreateThread)
			defects.POST("/attachments", h.Attachment.Create)
			defects.GET("/:id", h.Defect.Get)
			defects.PATCH("/:id", h.Defect.Update)
			defects.DELETE("/:id", h.Defect.Delete)
			defects.PATCH("/:id/close", h.Defect.Close)
			defects.GET("/:id/threads", h.Defect.ListThreads)
			defects.GET("/:id/pr-entries", h.Defect.ListPrEntries)
			defects.POST("/:id/pr-entries", h.Defect.CreatePrEntry)
		}
		authed.DELETE("/pr-entries/:id", h.Defect.DeletePrEntry)

		attachments := authed.Group("/attachments")
		{
			attachments.GET("/upload-url", h.Attachment.UploadURL)
			attachments.POST("/signed-url", h.Attachment.SignedURL)
			attachments.POST("/batch-signed-urls", h.Attachment.BatchSignedURLs)
		}

		vessels := authed.Group("/vessels")
		{
			vessels.GET("", h.Vessel.List)
			vessels.GET("/:imo", h.Vessel.Get)
			vessels.POST("", middleware.RoleAuth(string(model.RoleAdmin)), h.Vessel.Create)
		}

		users := authed.Group("/users")
		{
			users.POST("", middleware.RoleAuth(string(model.RoleAdmin)), h.User.Create)
			users.GET("", middleware.RoleAuth(string(model.RoleShore), string(model.RoleAdmin)), h.User.List)
			users.GET("/me", h.User.Me)
			users.GET("/me/tasks", h.Notification.MyTasks)
			users.GET("/me/notifications", h.Notification.MyNotifications)
		}

		authed.PATCH("/tasks/:id/complete", h.Notification.CompleteTask)
		authed.PATCH("/notifications/:id/read", h.Notification.MarkRead)
		authed.POST("/notifications/mark-all-seen", h.Notification.MarkAllSeen)

		exports := authed.Group("/export")
		exports.Use(middleware.RoleAuth(string(model.RoleShore), string(model.RoleAdmin)))
		{
			exports.GET("/defects", h.Export.Defects)
			exports.GET("/defects/calendar.ics", h.Export.Calendar)
		}
	}

	return r
}
