package tasks

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/degenstudios/degenbot/internal/config"
	"github.com/degenstudios/degenbot/internal/pending"
	"github.com/degenstudios/degenbot/internal/telegram/telegramtest"
)

func newSweepFixture(t *testing.T) (TaskDeps, *telegramtest.FakeClient, *clockwork.FakeClock) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	clock := clockwork.NewFakeClock()
	fake := telegramtest.NewFakeClient()
	deps := TaskDeps{
		Logger:  slog.New(slog.DiscardHandler),
		Config:  cfg,
		TG:      fake,
		Pending: pending.NewTableWithClock(cfg.Overlay.Expiry, clock),
	}
	return deps, fake, clock
}

func TestOverlayCleanupEvictsExpiredRequests(t *testing.T) {
	deps, fake, clock := newSweepFixture(t)
	task := newOverlayCleanupTask(deps)

	stale := pending.SessionKey{ChatID: 100, UserID: 7}
	deps.Pending.Put(stale, 42)
	fake.Usernames[7] = "alice"

	clock.Advance(2 * time.Minute)
	fresh := pending.SessionKey{ChatID: 200, UserID: 8}
	deps.Pending.Put(fresh, 43)

	clock.Advance(90 * time.Second)
	require.NoError(t, task(context.Background()))

	require.Len(t, fake.Messages, 1)
	assert.Equal(t, int64(100), fake.Messages[0].ChatID)
	assert.Contains(t, fake.Messages[0].Text, "alice, you degen, you forgot")

	require.Len(t, fake.Deleted, 1)
	assert.Equal(t, 42, fake.Deleted[0].MessageID, "the stale prompt is removed from the chat")

	_, ok := deps.Pending.Get(stale)
	assert.False(t, ok)
	_, ok = deps.Pending.Get(fresh)
	assert.True(t, ok, "live requests survive the sweep")
}

func TestOverlayCleanupNothingExpired(t *testing.T) {
	deps, fake, _ := newSweepFixture(t)
	task := newOverlayCleanupTask(deps)

	deps.Pending.Put(pending.SessionKey{ChatID: 100, UserID: 7}, 42)

	require.NoError(t, task(context.Background()))
	assert.Empty(t, fake.Messages)
	assert.Empty(t, fake.Deleted)
	assert.Equal(t, 1, deps.Pending.Len())
}

func TestOverlayCleanupUsernameFallback(t *testing.T) {
	tests := []struct {
		name  string
		setup func(fake *telegramtest.FakeClient)
	}{
		{"user has no username", func(*telegramtest.FakeClient) {}},
		{"lookup fails", func(fake *telegramtest.FakeClient) {
			fake.UsernameErr = errors.New("chat member not found")
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			deps, fake, clock := newSweepFixture(t)
			task := newOverlayCleanupTask(deps)
			tc.setup(fake)

			deps.Pending.Put(pending.SessionKey{ChatID: 100, UserID: 7}, 42)
			clock.Advance(deps.Config.Overlay.Expiry + time.Second)

			require.NoError(t, task(context.Background()))

			require.Len(t, fake.Messages, 1)
			assert.Contains(t, fake.Messages[0].Text, "Degen, you degen")
		})
	}
}

func TestOverlayCleanupContinuesAfterSendFailure(t *testing.T) {
	deps, fake, clock := newSweepFixture(t)
	task := newOverlayCleanupTask(deps)
	fake.SendMessageErr = errors.New("blocked by user")

	deps.Pending.Put(pending.SessionKey{ChatID: 100, UserID: 7}, 42)
	deps.Pending.Put(pending.SessionKey{ChatID: 200, UserID: 8}, 43)
	clock.Advance(deps.Config.Overlay.Expiry + time.Second)

	require.NoError(t, task(context.Background()), "per-entry failures never abort the sweep")
	assert.Len(t, fake.Deleted, 2, "prompts are still deleted")
	assert.Equal(t, 0, deps.Pending.Len())
}

func TestRegisterAllTasks(t *testing.T) {
	deps, _, _ := newSweepFixture(t)

	tasks := RegisterAllTasks(deps)

	require.Len(t, tasks, 1)
	assert.Contains(t, tasks, config.TaskOverlayCleanup)
}
