// Package telegramtest provides an in-memory telegram.Client for tests.
package telegramtest

import (
	"context"
	"fmt"
	"sync"
)

// SentMessage records one SendMessage call.
type SentMessage struct {
	ID     int
	ChatID int64
	Text   string
}

// SentPhoto records one SendPhoto call.
type SentPhoto struct {
	ID       int
	ChatID   int64
	Data     []byte
	Filename string
	Caption  string
}

// DeletedMessage records one DeleteMessage call.
type DeletedMessage struct {
	ChatID    int64
	MessageID int
}

// FakeClient implements telegram.Client, recording outbound calls and
// serving canned files and usernames. The zero value is not usable;
// create instances with NewFakeClient.
type FakeClient struct {
	mu     sync.Mutex
	nextID int

	Messages []SentMessage
	Photos   []SentPhoto
	Deleted  []DeletedMessage

	// Files maps file IDs to their downloadable bytes.
	Files map[string][]byte
	// Usernames maps user IDs to usernames; absent users have none.
	Usernames map[int64]string

	SendMessageErr error
	SendPhotoErr   error
	DeleteErr      error
	DownloadErr    error
	UsernameErr    error
}

// NewFakeClient creates an empty FakeClient. Message IDs it assigns
// start at 1000.
func NewFakeClient() *FakeClient {
	return &FakeClient{
		nextID:    1000,
		Files:     make(map[string][]byte),
		Usernames: make(map[int64]string),
	}
}

func (f *FakeClient) SendMessage(_ context.Context, chatID int64, text string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendMessageErr != nil {
		return 0, f.SendMessageErr
	}
	f.nextID++
	f.Messages = append(f.Messages, SentMessage{ID: f.nextID, ChatID: chatID, Text: text})
	return f.nextID, nil
}

func (f *FakeClient) SendPhoto(_ context.Context, chatID int64, data []byte, filename, caption string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendPhotoErr != nil {
		return 0, f.SendPhotoErr
	}
	f.nextID++
	f.Photos = append(f.Photos, SentPhoto{ID: f.nextID, ChatID: chatID, Data: data, Filename: filename, Caption: caption})
	return f.nextID, nil
}

func (f *FakeClient) DeleteMessage(_ context.Context, chatID int64, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.Deleted = append(f.Deleted, DeletedMessage{ChatID: chatID, MessageID: messageID})
	return nil
}

func (f *FakeClient) DownloadFile(_ context.Context, fileID string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DownloadErr != nil {
		return nil, f.DownloadErr
	}
	data, ok := f.Files[fileID]
	if !ok {
		return nil, fmt.Errorf("unknown file id %q", fileID)
	}
	return data, nil
}

func (f *FakeClient) Username(_ context.Context, _ int64, userID int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UsernameErr != nil {
		return "", f.UsernameErr
	}
	return f.Usernames[userID], nil
}
