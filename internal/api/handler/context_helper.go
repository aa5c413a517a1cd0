package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Staunch-Software/Drs-backend/internal/api/middleware"
)

// currentUserID returns the authenticated user id set by JWTAuth. Routes
// using it are always behind the auth middleware, so absence is a
// programming error and yields an empty id (rejected downstream).
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserID)
}

func currentTokenJTI(c *gin.Context) string {
	return c.GetString(middleware.CtxTokenJTI)
}

func currentTokenExpiry(c *gin.Context) time.Time {
	if v, ok := c.Get(middleware.CtxExpiresAt); ok {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Time{}
}
