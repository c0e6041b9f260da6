package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/degenstudios/degenbot/internal/queue"
)

// NewPhotoHandler returns the default handler for updates no command
// matched. Photo messages are enqueued for the overlay processor;
// unknown /commands and everything else are silently dropped so the bot
// never answers commands meant for other bots sharing the chat.
func NewPhotoHandler(deps *HandlerDeps) bot.HandlerFunc {
	return photoHandler{deps}.Handle
}

type photoHandler struct {
	deps *HandlerDeps
}

func (h photoHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "photo")

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	if cmd, ok := parseCommand(msg.Text); ok {
		log.DebugContext(ctx, "Ignoring unknown command", "command", cmd, "chat_id", msg.Chat.ID)
		return
	}

	if len(msg.Photo) == 0 {
		log.DebugContext(ctx, "Ignoring message without photo", "chat_id", msg.Chat.ID)
		return
	}

	h.deps.Queue.Enqueue(queue.Job{
		ChatID:  msg.Chat.ID,
		UserID:  msg.From.ID,
		Message: msg,
	})
	log.DebugContext(ctx, "Enqueued photo message",
		"chat_id", msg.Chat.ID, "user_id", msg.From.ID, "message_id", msg.ID, "queue_len", h.deps.Queue.Len())
}
