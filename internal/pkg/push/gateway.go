package push

import (
	"context"
)

// Gateway 按用户推送实时事件，尽力而为，不确认送达
type Gateway interface {
	Emit(ctx context.Context, userID uint64, event string, payload any) error
}

// Binder 维护 用户 -> 在线连接句柄 的映射，每个用户只保留一个句柄
type Binder interface {
	Bind(ctx context.Context, userID uint64, handle string) error
	Unbind(ctx context.Context, userID uint64, handle string) (bool, error)
	Lookup(ctx context.Context, userID uint64) (string, error)
}

// Envelope 推送到连接上的消息体
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}
