package job

import (
	"IQNet/internal/service"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubNotificationService struct {
	service.NotificationService
	before time.Time
	calls  int
	err    error
}

func (s *stubNotificationService) PurgeRead(_ context.Context, before time.Time) (int64, error) {
	s.calls++
	s.before = before
	return 3, s.err
}

func TestNotificationCleanupCutoff(t *testing.T) {
	stub := &stubNotificationService{}
	job := NewNotificationCleanupJob(stub, 7)
	fixed := time.Date(2026, 3, 10, 3, 30, 0, 0, time.UTC)
	job.now = func() time.Time { return fixed }

	job.Run()

	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, fixed.AddDate(0, 0, -7), stub.before)
}

func TestNotificationCleanupDefaultsAndErrors(t *testing.T) {
	stub := &stubNotificationService{err: errors.New("mongo down")}
	job := NewNotificationCleanupJob(stub, 0)
	assert.Equal(t, 30*24*time.Hour, job.retention)

	assert.NotPanics(t, job.Run)
	assert.Equal(t, 1, stub.calls)
}
