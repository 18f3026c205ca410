package cron

import (
	"IQNet/internal/job"
	"fmt"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

const defaultCleanupSpec = "0 30 3 * * *"

type Manager struct {
	engine                 *cron.Cron
	notificationCleanupJob *job.NotificationCleanupJob
	cleanupSpec            string
}

func NewCronManager(notificationCleanupJob *job.NotificationCleanupJob, cleanupSpec string) *Manager {
	if cleanupSpec == "" {
		cleanupSpec = defaultCleanupSpec
	}
	return &Manager{
		engine:                 cron.New(cron.WithSeconds()),
		notificationCleanupJob: notificationCleanupJob,
		cleanupSpec:            cleanupSpec,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.cleanupSpec, s.notificationCleanupJob); err != nil {
		return fmt.Errorf("register notification cleanup job (%s): %w", s.cleanupSpec, err)
	}
	return nil
}

// Start 注册并启动，注册失败时不启动引擎
func (s *Manager) Start() error {
	if err := s.RegisterJobs(); err != nil {
		return err
	}
	log.Info("Cron 定时任务引擎启动", "jobs", len(s.engine.Entries()))
	s.engine.Start()
	return nil
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
