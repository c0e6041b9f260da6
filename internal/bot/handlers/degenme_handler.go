package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/degenstudios/degenbot/internal/pending"
)

// NewDegenMeHandler returns the handler for the /degenme command. It
// rate-limits the caller, sends the photo prompt, and records the
// pending request so a later photo reply can be matched to it.
func NewDegenMeHandler(deps *HandlerDeps) bot.HandlerFunc {
	return degenMeHandler{deps}.Handle
}

type degenMeHandler struct {
	deps *HandlerDeps
}

func (h degenMeHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "degenme")

	msg := update.Message
	if msg == nil || msg.From == nil {
		log.WarnContext(ctx, "Degenme handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := msg.Chat.ID
	userID := msg.From.ID
	key := pending.SessionKey{ChatID: chatID, UserID: userID}

	// The limiter is consulted on every invocation, replacements included.
	if !h.deps.Limiter.Allow(fmt.Sprintf("%d:%d", chatID, userID)) {
		log.InfoContext(ctx, "Rate limited", "chat_id", chatID, "user_id", userID)
		if _, err := h.deps.TG.SendMessage(ctx, chatID, h.deps.Config.Messages.RateLimited); err != nil {
			log.ErrorContext(ctx, "Failed to send rate limit message", "error", err, "chat_id", chatID)
		}
		return
	}

	who := "there"
	if msg.From.Username != "" {
		who = "@" + msg.From.Username
	}

	text := fmt.Sprintf(h.deps.Config.Messages.Prompt, who)
	if _, exists := h.deps.Pending.Get(key); exists {
		text = h.deps.Config.Messages.PromptCancelled + text
	}

	sentID, err := h.deps.TG.SendMessage(ctx, chatID, text)
	if err != nil {
		log.ErrorContext(ctx, "Failed to send prompt message", "error", err, "chat_id", chatID)
		return
	}

	replaced := h.deps.Pending.Put(key, sentID)
	log.InfoContext(ctx, "Recorded pending overlay request",
		"chat_id", chatID, "user_id", userID, "prompt_message_id", sentID, "replaced", replaced)
}
