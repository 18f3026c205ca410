package cron

import (
	"IQNet/internal/job"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterJobs(t *testing.T) {
	mgr := NewCronManager(job.NewNotificationCleanupJob(nil, 30), "")
	assert.NoError(t, mgr.RegisterJobs())
	assert.Len(t, mgr.engine.Entries(), 1)

	bad := NewCronManager(job.NewNotificationCleanupJob(nil, 30), "not a cron spec")
	assert.Error(t, bad.RegisterJobs())
}

func TestStartRejectsBadSpec(t *testing.T) {
	bad := NewCronManager(job.NewNotificationCleanupJob(nil, 30), "61 * * * * *")
	require.Error(t, bad.Start())

	mgr := NewCronManager(job.NewNotificationCleanupJob(nil, 30), "0 0 4 * * *")
	require.NoError(t, mgr.Start())
	mgr.Stop()
}
