package handlers

import (
	tgbot "github.com/go-telegram/bot"

	"github.com/degenstudios/degenbot/internal/telegram"
)

// RegisterAllCommands initializes and returns a map of all available
// bot commands. The photo dispatcher is not part of this map; it is
// installed as the bot's default handler.
func RegisterAllCommands(deps *HandlerDeps) map[string]telegram.RegisteredHandler {
	handlers := make(map[string]telegram.RegisteredHandler)

	handlers["/start"] = telegram.RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "start",
		Handler:     NewStartHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["/degenme"] = telegram.RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "degenme",
		Handler:     NewDegenMeHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}

	return handlers
}
