package handlers

import (
	"log/slog"

	"github.com/degenstudios/degenbot/internal/config"
	"github.com/degenstudios/degenbot/internal/pending"
	"github.com/degenstudios/degenbot/internal/queue"
	"github.com/degenstudios/degenbot/internal/ratelimit"
	"github.com/degenstudios/degenbot/internal/telegram"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger  *slog.Logger
	Config  *config.Config
	TG      telegram.Client
	Pending *pending.Table
	Limiter *ratelimit.Limiter
	Queue   *queue.Queue
}
