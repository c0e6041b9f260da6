package tasks

import (
	"context"
	"fmt"

	"github.com/degenstudios/degenbot/internal/config"
)

// newOverlayCleanupTask creates the scheduled task that evicts expired
// overlay requests. For each expired entry it reminds the user to
// re-issue the command and deletes the stale prompt message. Per-entry
// failures are logged and never abort the sweep.
func newOverlayCleanupTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", config.TaskOverlayCleanup)

	return func(ctx context.Context) error {
		expired := deps.Pending.TakeExpired()
		if len(expired) == 0 {
			log.DebugContext(ctx, "No expired overlay requests")
			return nil
		}

		log.InfoContext(ctx, "Evicting expired overlay requests", "count", len(expired))

		for _, entry := range expired {
			entryLog := log.With("chat_id", entry.Key.ChatID, "user_id", entry.Key.UserID)

			who := "Degen"
			username, err := deps.TG.Username(ctx, entry.Key.ChatID, entry.Key.UserID)
			if err != nil {
				entryLog.WarnContext(ctx, "Failed to look up username, using fallback", "error", err)
			} else if username != "" {
				who = username
			}

			text := fmt.Sprintf(deps.Config.Messages.ExpiredBySweeper, who)
			if _, err := deps.TG.SendMessage(ctx, entry.Key.ChatID, text); err != nil {
				entryLog.ErrorContext(ctx, "Failed to send expiry message", "error", err)
			}

			if err := deps.TG.DeleteMessage(ctx, entry.Key.ChatID, entry.MessageID); err != nil {
				entryLog.ErrorContext(ctx, "Failed to delete expired prompt message", "error", err, "message_id", entry.MessageID)
			}
		}

		return nil
	}
}
