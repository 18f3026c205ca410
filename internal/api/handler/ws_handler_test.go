package handler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingBinder 记录调用顺序
type recordingBinder struct {
	mu      sync.Mutex
	calls   *[]string
	handles map[uint64]string
	bindErr error
}

func (b *recordingBinder) record(call string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	*b.calls = append(*b.calls, call)
}

func (b *recordingBinder) Bind(_ context.Context, userID uint64, handle string) error {
	b.record("bind:" + handle)
	if b.bindErr != nil {
		return b.bindErr
	}
	b.handles[userID] = handle
	return nil
}

func (b *recordingBinder) Unbind(_ context.Context, userID uint64, handle string) (bool, error) {
	b.record("unbind:" + handle)
	if b.handles[userID] != handle {
		return false, nil
	}
	delete(b.handles, userID)
	return true, nil
}

func (b *recordingBinder) Lookup(_ context.Context, userID uint64) (string, error) {
	return b.handles[userID], nil
}

func newRecordingHandler(subErr, bindErr error) (*WsHandler, *[]string) {
	calls := &[]string{}
	binder := &recordingBinder{calls: calls, handles: map[uint64]string{}, bindErr: bindErr}
	h := &WsHandler{binder: binder}
	h.subscribe = func(_ context.Context, channel string) (<-chan string, func(), error) {
		binder.record("subscribe:" + channel)
		if subErr != nil {
			return nil, nil, subErr
		}
		return make(chan string), func() { binder.record("close") }, nil
	}
	return h, calls
}

func TestAttachSubscribesBeforeBind(t *testing.T) {
	h, calls := newRecordingHandler(nil, nil)

	msgs, detach, err := h.attach(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, msgs)
	require.Len(t, *calls, 2)
	assert.True(t, strings.HasPrefix((*calls)[0], "subscribe:ws:conn:"))
	handle := strings.TrimPrefix((*calls)[0], "subscribe:ws:conn:")
	assert.Equal(t, "bind:"+handle, (*calls)[1])

	detach()
	assert.Equal(t, []string{"unbind:" + handle, "close"}, (*calls)[2:])
}

func TestAttachFailedSubscribeNeverBinds(t *testing.T) {
	h, calls := newRecordingHandler(errors.New("redis down"), nil)

	_, _, err := h.attach(context.Background(), 7)
	require.Error(t, err)
	require.Len(t, *calls, 1)
	assert.True(t, strings.HasPrefix((*calls)[0], "subscribe:"))
}

func TestAttachFailedBindClosesSubscription(t *testing.T) {
	h, calls := newRecordingHandler(nil, errors.New("hset failed"))

	_, _, err := h.attach(context.Background(), 7)
	require.Error(t, err)
	require.Len(t, *calls, 3)
	assert.Equal(t, "close", (*calls)[2])
}
