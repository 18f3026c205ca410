package push

import (
	"IQNet/internal/pkg/consts"
	"IQNet/internal/pkg/metrics"
	"IQNet/internal/pkg/redis"
	"context"
	log "log/slog"
	"strconv"

	"github.com/goccy/go-json"
)

// RedisGateway 绑定关系存 Redis Hash，消息经 Pub/Sub 投递给持有该句柄的 WS 连接
type RedisGateway struct{}

func NewRedisGateway() *RedisGateway {
	return &RedisGateway{}
}

// ConnChannel 连接句柄对应的频道
func ConnChannel(handle string) string {
	return consts.WSConnChannel + handle
}

func (s *RedisGateway) Bind(ctx context.Context, userID uint64, handle string) error {
	return redis.HSet(ctx, consts.WSBindingKey, strconv.FormatUint(userID, 10), handle)
}

// Unbind 只删除仍指向当前句柄的绑定，避免误删新连接
func (s *RedisGateway) Unbind(ctx context.Context, userID uint64, handle string) (bool, error) {
	return redis.HDelIfEqual(ctx, consts.WSBindingKey, strconv.FormatUint(userID, 10), handle)
}

func (s *RedisGateway) Lookup(ctx context.Context, userID uint64) (string, error) {
	return redis.HGet(ctx, consts.WSBindingKey, strconv.FormatUint(userID, 10))
}

func (s *RedisGateway) Emit(ctx context.Context, userID uint64, event string, payload any) error {
	handle, err := s.Lookup(ctx, userID)
	if err != nil {
		metrics.Pushes.WithLabelValues(event, "error").Inc()
		return err
	}
	if handle == "" {
		metrics.Pushes.WithLabelValues(event, "unbound").Inc()
		return nil
	}

	data, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		metrics.Pushes.WithLabelValues(event, "error").Inc()
		return err
	}

	if err = redis.Publish(ctx, ConnChannel(handle), data); err != nil {
		metrics.Pushes.WithLabelValues(event, "error").Inc()
		return err
	}

	metrics.Pushes.WithLabelValues(event, "sent").Inc()
	log.DebugContext(ctx, "push emitted", "user_id", userID, "event", event)
	return nil
}
