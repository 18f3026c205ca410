package job

import (
	"IQNet/internal/pkg/logger"
	"IQNet/internal/service"
	"context"
	log "log/slog"
	"time"
)

// NotificationCleanupJob 清理超过保留期的已读通知
type NotificationCleanupJob struct {
	notifySvc service.NotificationService
	retention time.Duration
	now       func() time.Time
}

func NewNotificationCleanupJob(notifySvc service.NotificationService, retentionDays int) *NotificationCleanupJob {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &NotificationCleanupJob{
		notifySvc: notifySvc,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		now:       time.Now,
	}
}

func (s *NotificationCleanupJob) Run() {
	ctx := logger.WithTrace(context.Background(), "job-notification-")
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	before := s.now().Add(-s.retention)
	deleted, err := s.notifySvc.PurgeRead(ctx, before)
	if err != nil {
		log.ErrorContext(ctx, "purge read notifications failed", "before", before, "err", err)
		return
	}
	if deleted > 0 {
		log.InfoContext(ctx, "notification cleanup job finished", "deleted", deleted, "before", before)
	}
}
