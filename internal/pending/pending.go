// Package pending tracks live overlay requests: for each (chat, user)
// pair, the prompt message the user must reply to and when it was
// created. All state is in-memory; a request disappears when it is
// fulfilled, replaced, or expires.
package pending

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// SessionKey identifies one interactive session. Two users in the same
// chat, or one user in two chats, have independent sessions.
type SessionKey struct {
	ChatID int64
	UserID int64
}

// Request is a live overlay request awaiting a photo reply.
type Request struct {
	MessageID int // the bot's prompt message
	CreatedAt time.Time
}

// Expired pairs a removed session with the prompt message that should
// be cleaned up.
type Expired struct {
	Key       SessionKey
	MessageID int
}

// Table is the authoritative map of live overlay requests, guarded by a
// single mutex. At most one Request exists per SessionKey.
type Table struct {
	mu      sync.Mutex
	entries map[SessionKey]Request
	expiry  time.Duration
	clock   clockwork.Clock
}

// NewTable creates an empty Table whose entries expire after the given
// duration.
func NewTable(expiry time.Duration) *Table {
	return NewTableWithClock(expiry, clockwork.NewRealClock())
}

// NewTableWithClock is NewTable with an injectable clock.
func NewTableWithClock(expiry time.Duration, clock clockwork.Clock) *Table {
	return &Table{
		entries: make(map[SessionKey]Request),
		expiry:  expiry,
		clock:   clock,
	}
}

// Get returns the live request for key, if any.
func (t *Table) Get(key SessionKey) (Request, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	req, ok := t.entries[key]
	return req, ok
}

// Put records a new request for key, replacing any prior entry. It
// returns true when an entry was replaced. The prior prompt message is
// left in the chat; only the table forgets it.
func (t *Table) Put(key SessionKey, messageID int) (replaced bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, replaced = t.entries[key]
	t.entries[key] = Request{MessageID: messageID, CreatedAt: t.clock.Now()}
	return replaced
}

// Remove deletes the request for key and returns it, if present.
func (t *Table) Remove(key SessionKey) (Request, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	req, ok := t.entries[key]
	if ok {
		delete(t.entries, key)
	}
	return req, ok
}

// IsExpired reports whether req is older than the table's expiry.
func (t *Table) IsExpired(req Request) bool {
	return t.clock.Now().Sub(req.CreatedAt) > t.expiry
}

// TakeExpired atomically removes and returns every request whose age
// exceeds the table's expiry.
func (t *Table) TakeExpired() []Expired {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	var expired []Expired
	for key, req := range t.entries {
		if now.Sub(req.CreatedAt) > t.expiry {
			expired = append(expired, Expired{Key: key, MessageID: req.MessageID})
			delete(t.entries, key)
		}
	}
	return expired
}

// Len returns the number of live requests.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
