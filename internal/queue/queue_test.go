package queue

import (
	"sync"
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFIFOOrder(t *testing.T) {
	q := New()

	_, ok := q.Dequeue()
	assert.False(t, ok)

	for i := 1; i <= 3; i++ {
		q.Enqueue(Job{ChatID: int64(i), UserID: 7, Message: &models.Message{ID: i}})
	}
	assert.Equal(t, 3, q.Len())

	for i := 1; i <= 3; i++ {
		job, ok := q.Dequeue()
		require.True(t, ok)
		assert.Equal(t, int64(i), job.ChatID)
		assert.Equal(t, i, job.Message.ID)
	}

	_, ok = q.Dequeue()
	assert.False(t, ok)
	assert.Equal(t, 0, q.Len())
}

func TestConcurrentProducers(t *testing.T) {
	q := New()

	var wg sync.WaitGroup
	const n = 50
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q.Enqueue(Job{ChatID: int64(i)})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, n, q.Len())

	seen := make(map[int64]bool)
	for {
		job, ok := q.Dequeue()
		if !ok {
			break
		}
		assert.False(t, seen[job.ChatID], "job delivered twice")
		seen[job.ChatID] = true
	}
	assert.Len(t, seen, n)
}
