package middleware

import (
	"IQNet/internal/pkg/redis"
	"IQNet/internal/pkg/response"
	"IQNet/internal/pkg/security"
	log "log/slog"

	"github.com/gin-gonic/gin"
)

// revokedLookup 已注销的 Token 以签名为 key 记录在 Redis
var revokedLookup security.RevokedLookup = redis.GetValue

// AuthMiddleware 负责验证 JWT 并将用户身份信息注入 Context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := security.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}

		claims, err := security.Authenticate(c.Request.Context(), token, revokedLookup)
		if err != nil {
			if security.IsCredentialError(err) {
				response.Fail(c, response.Unauthorized, "Token 无效或已过期")
			} else {
				log.ErrorContext(c.Request.Context(), "鉴权失败", "err", err)
				response.Fail(c, response.InternalServerError, "未知错误")
			}
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Next()
	}
}
