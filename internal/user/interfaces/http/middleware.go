package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/autopartsmall/internal/user/domain"
	"github.com/wyfcoding/pkg/response"
)

const identityKey = "identity"

// Identity 当前请求的已认证身份
type Identity struct {
	UserID uint
	Email  string
	Role   domain.UserRole
}

// CurrentIdentity 从 gin 上下文取出已认证身份
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// Authenticate 校验 Bearer token 并注入身份；失败返回 401
func Authenticate(sessions domain.SessionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.ErrorWithStatus(c, http.StatusUnauthorized, "missing or malformed authorization header", "")
			c.Abort()
			return
		}

		session, err := sessions.Get(c.Request.Context(), token)
		if err != nil {
			response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to load session", err.Error())
			c.Abort()
			return
		}
		if session == nil || session.Expired(time.Now()) {
			response.ErrorWithStatus(c, http.StatusUnauthorized, "invalid or expired session", "")
			c.Abort()
			return
		}

		c.Set(identityKey, Identity{
			UserID: session.UserID,
			Email:  session.Email,
			Role:   session.Role,
		})
		c.Next()
	}
}

// RequireRole 要求当前身份具备给定角色之一；否则返回 403
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			response.ErrorWithStatus(c, http.StatusUnauthorized, "authentication required", "")
			c.Abort()
			return
		}
		for _, role := range roles {
			if id.Role == role {
				c.Next()
				return
			}
		}
		response.ErrorWithStatus(c, http.StatusForbidden, "insufficient role", "")
		c.Abort()
	}
}
