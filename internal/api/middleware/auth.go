package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Staunch-Software/Drs-backend/pkg/jwt"
	"github.com/Staunch-Software/Drs-backend/pkg/redis"
	"github.com/Staunch-Software/Drs-backend/pkg/response"
)

// Context keys set by JWTAuth for downstream handlers.
const (
	CtxUserID    = "user_id"
	CtxRole      = "role"
	CtxTokenJTI  = "token_jti"
	CtxExpiresAt = "token_expires_at"
)

// JWTAuth verifies the Bearer token and rejects blacklisted (logged-out)
// tokens. A Redis outage fails open on the blacklist check: an expired
// token is still rejected by signature verification.
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, response.CodeUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, response.CodeUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			code := response.CodeUnauthorized
			if errors.Is(err, jwt.ErrTokenExpired) {
				code = response.CodeTokenExpired
			}
			response.Unauthorized(c, code, err.Error())
			c.Abort()
			return
		}

		if blacklisted, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID); err == nil && blacklisted {
			response.Unauthorized(c, response.CodeTokenRevoked, "token has been revoked")
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxTokenJTI, claims.ID)
		c.Set(CtxExpiresAt, claims.ExpiresAt.Time)
		c.Next()
	}
}

// RoleAuth allows only the listed roles past. Must run after JWTAuth.
func RoleAuth(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		response.Forbidden(c, response.CodeForbidden, "insufficient permissions")
		c.Abort()
	}
}
