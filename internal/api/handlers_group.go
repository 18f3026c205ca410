package api

import (
	"IQNet/internal/api/handler"
	"IQNet/internal/api/middleware"
)

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	PostHandler         *handler.PostHandler
	PostActionHandler   *handler.PostActionHandler
	ConnectionHandler   *handler.ConnectionHandler
	NotificationHandler *handler.NotificationHandler
	PointHandler        *handler.PointHandler
	WSHandler           *handler.WsHandler
	RateLimiter         *middleware.RateLimiter
	AllowOrigins        []string
}
