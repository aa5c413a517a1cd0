package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Staunch-Software/Drs-backend/internal/dto"
	"github.com/Staunch-Software/Drs-backend/internal/service"
	"github.com/Staunch-Software/Drs-backend/pkg/response"
)

// AuthHandler serves login and logout.
type AuthHandler struct {
	svc    service.AuthService
	logger *zap.Logger
}

// NewAuthHandler creates the AuthHandler.
func NewAuthHandler(svc service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

// Login handles POST /api/v1/login/access-token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeValidation, err.Error())
		return
	}

	result, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(c, response.CodeUnauthorized, err.Error())
		case errors.Is(err, service.ErrUserInactive):
			response.Forbidden(c, response.CodeForbidden, err.Error())
		default:
			h.logger.Error("login failed", zap.Error(err))
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Logout handles POST /api/v1/auth/logout. The token presented in the
// Authorization header is revoked for its remaining lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), currentTokenJTI(c), currentTokenExpiry(c)); err != nil {
		h.logger.Error("logout failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"message": "logged out"})
}
