package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level       string
		debugActive bool
	}{
		{"debug", true},
		{"info", false},
		{"warn", false},
		{"error", false},
		{"bogus", false},
	}
	for _, tc := range tests {
		t.Run(tc.level, func(t *testing.T) {
			log := NewLogger(tc.level, true)
			require.NotNil(t, log)
			assert.Equal(t, tc.debugActive, log.Enabled(context.Background(), slog.LevelDebug))
		})
	}
}

func TestMiddlewareCallsNext(t *testing.T) {
	log := NewLogger("debug", false)

	called := false
	next := func(ctx context.Context, b *bot.Bot, update *models.Update) {
		called = true
	}

	update := &models.Update{
		ID: 1,
		Message: &models.Message{
			ID:   2,
			From: &models.User{ID: 7},
			Chat: models.Chat{ID: 100},
			Text: "/degenme",
		},
	}
	Middleware(log)(next)(context.Background(), nil, update)

	assert.True(t, called)
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 50, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is a longer string", 10, "this is..."},
		{"abcdef", 3, "..."},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, truncateString(tc.in, tc.maxLen))
	}
}
