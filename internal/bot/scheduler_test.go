package bot

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/degenstudios/degenbot/internal/bot/tasks"
	"github.com/degenstudios/degenbot/internal/config"
)

func TestSchedulerRunsEnabledTasks(t *testing.T) {
	var ran, skipped atomic.Int32
	taskMap := map[string]tasks.ScheduledTaskFunc{
		"tick": func(context.Context) error {
			ran.Add(1)
			return nil
		},
		"disabled": func(context.Context) error {
			skipped.Add(1)
			return nil
		},
	}

	cfg := &config.SchedulerConfig{
		Tasks: map[string]config.TaskConfig{
			"tick":       {Enabled: true, Interval: 10 * time.Millisecond},
			"disabled":   {Enabled: false, Interval: 10 * time.Millisecond},
			"unknown":    {Enabled: true, Interval: 10 * time.Millisecond},
			"unschedule": {Enabled: true},
		},
	}

	s, err := NewScheduler(slog.New(slog.DiscardHandler), cfg, taskMap)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	defer s.Stop()

	require.Eventually(t, func() bool { return ran.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(0), skipped.Load(), "disabled tasks never run")
}

func TestSchedulerDoubleStart(t *testing.T) {
	s, err := NewScheduler(slog.New(slog.DiscardHandler), &config.SchedulerConfig{}, nil)
	require.NoError(t, err)

	require.NoError(t, s.Start())
	assert.Error(t, s.Start(), "starting twice is rejected")
	require.NoError(t, s.Stop())
	assert.NoError(t, s.Stop(), "stopping an idle scheduler is a no-op")
}
