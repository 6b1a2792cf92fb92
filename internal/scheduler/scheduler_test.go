package scheduler

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/flowcast/internal/ingest"
)

func newTestScheduler() *Scheduler {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	fetch := func(ctx context.Context) (ingest.Table, *ingest.Table, error) {
		return ingest.Table{}, nil, nil
	}
	return NewScheduler(nil, fetch, logger)
}

func TestStartWithoutJobs(t *testing.T) {
	s := newTestScheduler()
	assert.Error(t, s.Start())
}

func TestScheduleRejectsBadExpression(t *testing.T) {
	s := newTestScheduler()
	assert.Error(t, s.ScheduleRefresh("not a cron expression"))
}

func TestStartStopLifecycle(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.ScheduleRefresh("0 6 * * *"))
	require.NoError(t, s.Start())

	// Double start is rejected; scheduling while running is rejected
	assert.Error(t, s.Start())
	assert.Error(t, s.ScheduleRefresh("0 7 * * *"))

	s.Stop()
	s.Stop() // idempotent
}
