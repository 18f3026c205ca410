package middleware

import (
	"IQNet/internal/pkg/security"
	log "log/slog"

	"github.com/gin-gonic/gin"
)

// AuthOptionalMiddleware 可选鉴权：解析成功注入 UID，失败或缺失则按游客处理 (UID 为 0)
func AuthOptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", uint64(0))

		token, err := security.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.Next()
			return
		}

		claims, err := security.Authenticate(c.Request.Context(), token, revokedLookup)
		switch {
		case err == nil:
			c.Set("user_id", claims.UserID)
		case !security.IsCredentialError(err):
			log.WarnContext(c.Request.Context(), "可选鉴权查询失败，按游客处理", "err", err)
		}

		c.Next()
	}
}
