// Package tasks implements scheduled background tasks for the bot,
// along with their dependencies and registration.
package tasks

import (
	"log/slog"

	"github.com/degenstudios/degenbot/internal/config"
	"github.com/degenstudios/degenbot/internal/pending"
	"github.com/degenstudios/degenbot/internal/telegram"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger  *slog.Logger
	Config  *config.Config
	TG      telegram.Client
	Pending *pending.Table
}
