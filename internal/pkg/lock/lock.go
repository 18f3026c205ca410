package lock

import (
	"context"
	"sync"
)

// Op 被保护的操作类型
type Op uint8

const (
	OpCommentAdd Op = iota + 1
	OpReplyAdd
	OpPostReaction
	OpLedger
)

func (o Op) String() string {
	switch o {
	case OpCommentAdd:
		return "comment_add"
	case OpReplyAdd:
		return "reply_add"
	case OpPostReaction:
		return "post_reaction"
	case OpLedger:
		return "ledger"
	default:
		return "unknown"
	}
}

// Key 操作者 + 目标 + 操作类型
type Key struct {
	Actor  uint64
	Target string
	Op     Op
}

// Manager 单进程内存互斥表，不同 Key 之间互不阻塞
type Manager struct {
	mu     sync.Mutex
	tokens map[Key]chan struct{}
}

func NewManager() *Manager {
	return &Manager{tokens: make(map[Key]chan struct{})}
}

// TryAcquire 非阻塞获取，失败立即返回 false
func (m *Manager) TryAcquire(key Key) (func(), bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, held := m.tokens[key]; held {
		return nil, false
	}
	token := make(chan struct{})
	m.tokens[key] = token
	return m.releaser(key, token), true
}

// Acquire 阻塞直到获取成功或 ctx 结束
func (m *Manager) Acquire(ctx context.Context, key Key) (func(), error) {
	for {
		m.mu.Lock()
		token, held := m.tokens[key]
		if !held {
			token = make(chan struct{})
			m.tokens[key] = token
			m.mu.Unlock()
			return m.releaser(key, token), nil
		}
		m.mu.Unlock()

		select {
		case <-token:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Held 当前 Key 是否被持有
func (m *Manager) Held(key Key) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, held := m.tokens[key]
	return held
}

// releaser 重复调用只生效一次
func (m *Manager) releaser(key Key, token chan struct{}) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			if m.tokens[key] == token {
				delete(m.tokens, key)
			}
			m.mu.Unlock()
			close(token)
		})
	}
}
