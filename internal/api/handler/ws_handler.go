package handler

import (
	"IQNet/internal/pkg/push"
	"IQNet/internal/pkg/redis"
	"IQNet/internal/pkg/response"
	"IQNet/internal/pkg/security"
	"IQNet/internal/service"
	"context"
	"fmt"
	log "log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// channelSubscriber 订阅单个频道，返回前必须已得到确认
type channelSubscriber func(ctx context.Context, channel string) (msgs <-chan string, closeFn func(), err error)

func redisSubscriber(ctx context.Context, channel string) (<-chan string, func(), error) {
	pubsub, err := redis.SubscribeConfirmed(ctx, channel)
	if err != nil {
		return nil, nil, err
	}
	msgs := make(chan string)
	done := make(chan struct{})
	go func() {
		defer close(msgs)
		for msg := range pubsub.Channel() {
			select {
			case msgs <- msg.Payload:
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return msgs, func() {
		once.Do(func() {
			close(done)
			_ = pubsub.Close()
		})
	}, nil
}

type WsHandler struct {
	binder    push.Binder
	subscribe channelSubscriber
}

func NewWsHandler(binder push.Binder) *WsHandler {
	return &WsHandler{binder: binder, subscribe: redisSubscriber}
}

// attach 先确认订阅再绑定句柄，绑定生效后的推送不会丢
func (s *WsHandler) attach(ctx context.Context, userID uint64) (<-chan string, func(), error) {
	handle := uuid.NewString()

	msgs, closeSub, err := s.subscribe(ctx, push.ConnChannel(handle))
	if err != nil {
		return nil, nil, fmt.Errorf("subscribe %s: %w", handle, err)
	}
	if err = s.binder.Bind(ctx, userID, handle); err != nil {
		closeSub()
		return nil, nil, fmt.Errorf("bind %s: %w", handle, err)
	}

	detach := func() {
		// 只解绑自己的句柄，新连接的绑定不受影响
		removed, err := s.binder.Unbind(ctx, userID, handle)
		if err != nil {
			log.Error("WS 解绑失败", "userID", userID, "err", err)
		} else {
			log.Info("用户 WS 连接已断开", "userID", userID, "unbound", removed)
		}
		closeSub()
	}
	log.Info("用户 WS 连接已建立", "userID", userID, "handle", handle)
	return msgs, detach, nil
}

// Connect 每个用户只保留最后一次建立的连接
func (s *WsHandler) Connect(c *gin.Context) {
	// 鉴权
	token := c.Query("token")
	if token == "" {
		response.Error(c, service.UnauthorizedError)
		return
	}
	claims, err := security.Authenticate(c.Request.Context(), token, redis.GetValue)
	if err != nil {
		log.WarnContext(c.Request.Context(), "WS 鉴权失败", "err", err)
		if security.IsCredentialError(err) {
			response.Error(c, service.UnauthorizedError)
		} else {
			response.Error(c, service.UnExpectedError)
		}
		return
	}
	userID := claims.UserID

	// 升级 Websocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WS 协议升级失败", "err", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	msgs, detach, err := s.attach(context.Background(), userID)
	if err != nil {
		log.Error("WS 建立推送通道失败", "userID", userID, "err", err)
		return
	}
	defer detach()

	stopChan := make(chan struct{})

	// 读循环：监听客户端主动断开
	go func() {
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				close(stopChan)
				return
			}
		}
	}()

	// 写循环：监听 Redis 并推送至客户端
	for {
		select {
		case payload, ok := <-msgs:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
				log.Error("WS 推送失败", "userID", userID, "err", err)
				return
			}
		case <-stopChan:
			return
		}
	}
}
