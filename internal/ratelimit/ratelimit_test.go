package ratelimit

import (
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestAllowWithinWindow(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := NewWithClock(5, time.Minute, clock)

	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow("1:2"), "request %d should be admitted", i+1)
	}
	assert.False(t, l.Allow("1:2"), "sixth request should be rejected")
}

func TestWindowRollover(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := NewWithClock(5, time.Minute, clock)

	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow("k"))
	}
	assert.False(t, l.Allow("k"))

	// Exactly at the window boundary the old window still applies.
	clock.Advance(time.Minute)
	assert.False(t, l.Allow("k"))

	clock.Advance(time.Nanosecond)
	assert.True(t, l.Allow("k"), "a fresh window should admit again")
}

func TestRejectedRequestsDoNotExtendWindow(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := NewWithClock(1, time.Minute, clock)

	start := clock.Now()
	assert.True(t, l.Allow("k"))

	// Hammer the key every 10s. Rejections must not push the window
	// start forward, so the one admission lands at the first call past
	// the 60s window, not 60s after the last rejection.
	var admittedAt []time.Duration
	for i := 0; i < 10; i++ {
		clock.Advance(10 * time.Second)
		if l.Allow("k") {
			admittedAt = append(admittedAt, clock.Now().Sub(start))
		}
	}
	assert.Equal(t, []time.Duration{70 * time.Second}, admittedAt)
}

func TestKeysAreIndependent(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := NewWithClock(1, time.Minute, clock)

	assert.True(t, l.Allow("100:1"))
	assert.False(t, l.Allow("100:1"))
	assert.True(t, l.Allow("100:2"), "other user in same chat has its own bucket")
	assert.True(t, l.Allow("200:1"), "same user in other chat has its own bucket")
}

func TestPrune(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := NewWithClock(5, time.Minute, clock)

	for i := 0; i < 10; i++ {
		l.Allow(fmt.Sprintf("chat:%d", i))
	}
	assert.Len(t, l.buckets, 10)

	clock.Advance(2 * time.Hour)
	l.Allow("chat:0")

	l.Prune(time.Hour)
	assert.Len(t, l.buckets, 1, "only the refreshed bucket survives")
}
