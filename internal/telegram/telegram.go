// Package telegram wraps the go-telegram/bot library behind the small
// transport surface the rest of the application needs, and handles
// handler registration.
package telegram

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const (
	fileDownloadTimeout = 30 * time.Second
	maxDownloadSize     = 10 * 1024 * 1024
)

// Client is the transport surface used by handlers, the overlay
// processor, and scheduled tasks. Implementations must be safe for
// concurrent use.
type Client interface {
	// SendMessage sends plain text to a chat and returns the new
	// message's ID.
	SendMessage(ctx context.Context, chatID int64, text string) (int, error)
	// SendPhoto uploads in-memory image bytes as a photo with a caption
	// and returns the new message's ID.
	SendPhoto(ctx context.Context, chatID int64, data []byte, filename, caption string) (int, error)
	// DeleteMessage removes a message from a chat.
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	// DownloadFile resolves a Telegram file ID and fetches its bytes.
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
	// Username looks up a chat member's username. It returns an empty
	// string when the member has none.
	Username(ctx context.Context, chatID, userID int64) (string, error)
}

// NewTelegramBot creates a Telegram bot instance using the
// go-telegram/bot library.
func NewTelegramBot(token string, logger *slog.Logger, opts ...bot.Option) (*bot.Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "telegram_bot")

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Error("Failed to create Telegram bot instance", "error", err)
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log.Info("Telegram bot instance created successfully", "token_prefix", token[:8]+"...")
	return b, nil
}

// NewClient wraps a bot instance as a Client. The token is needed to
// build file-download URLs.
func NewClient(b *bot.Bot, token string) Client {
	return &tgClient{bot: b, token: token, http: http.DefaultClient}
}

type tgClient struct {
	bot   *bot.Bot
	token string
	http  *http.Client
}

func (c *tgClient) SendMessage(ctx context.Context, chatID int64, text string) (int, error) {
	msg, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		return 0, fmt.Errorf("failed to send message: %w", err)
	}
	return msg.ID, nil
}

func (c *tgClient) SendPhoto(ctx context.Context, chatID int64, data []byte, filename, caption string) (int, error) {
	msg, err := c.bot.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileUpload{Filename: filename, Data: bytes.NewReader(data)},
		Caption: caption,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to send photo: %w", err)
	}
	return msg.ID, nil
}

func (c *tgClient) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	ok, err := c.bot.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: messageID})
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	if !ok {
		return fmt.Errorf("telegram refused to delete message %d", messageID)
	}
	return nil
}

// DownloadFile resolves fileID and fetches the bytes from Telegram's
// token-scoped file endpoint.
func (c *tgClient) DownloadFile(ctx context.Context, fileID string) (data []byte, err error) {
	if fileID == "" {
		return nil, fmt.Errorf("empty fileID provided for download")
	}

	downloadCtx, cancel := context.WithTimeout(ctx, fileDownloadTimeout)
	defer cancel()

	fileObj, err := c.bot.GetFile(downloadCtx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to get file info from Telegram: %w", err)
	}
	if fileObj.FilePath == "" {
		return nil, fmt.Errorf("empty file path returned from Telegram for file ID %s", fileID)
	}

	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", c.token, fileObj.FilePath)
	req, err := http.NewRequestWithContext(downloadCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("unexpected status code %d downloading file: %s", resp.StatusCode, string(body))
	}

	data, err = io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read file data: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("received empty file data for file ID %s", fileID)
	}
	return data, nil
}

func (c *tgClient) Username(ctx context.Context, chatID, userID int64) (string, error) {
	member, err := c.bot.GetChatMember(ctx, &bot.GetChatMemberParams{ChatID: chatID, UserID: userID})
	if err != nil {
		return "", fmt.Errorf("failed to get chat member: %w", err)
	}
	if u := memberUser(member); u != nil {
		return u.Username, nil
	}
	return "", nil
}

// memberUser extracts the User from whichever variant of the chat
// member union is populated.
func memberUser(m *models.ChatMember) *models.User {
	switch {
	case m == nil:
		return nil
	case m.Owner != nil:
		return m.Owner.User
	case m.Administrator != nil:
		// Administrator carries its User by value, unlike the other
		// union variants.
		return &m.Administrator.User
	case m.Member != nil:
		return m.Member.User
	case m.Restricted != nil:
		return m.Restricted.User
	case m.Left != nil:
		return m.Left.User
	case m.Banned != nil:
		return m.Banned.User
	}
	return nil
}
