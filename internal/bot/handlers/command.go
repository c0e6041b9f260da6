// Package handlers contains Telegram bot command and message handlers,
// along with their registration logic.
package handlers

import "strings"

// parseCommand extracts the command name from a message text of the
// form "/cmd", "/cmd@botname", or "/cmd args". The second return value
// is false when the text does not start with a command token.
func parseCommand(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	token, _, _ := strings.Cut(text, " ")
	name, _, _ := strings.Cut(token[1:], "@")
	if name == "" {
		return "", false
	}
	return name, true
}
