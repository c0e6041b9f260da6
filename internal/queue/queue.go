// Package queue provides the FIFO of pending photo jobs drained by the
// overlay processor.
package queue

import (
	"sync"

	"github.com/go-telegram/bot/models"
)

// Job wraps an inbound photo message together with the chat and user
// that sent it.
type Job struct {
	ChatID  int64
	UserID  int64
	Message *models.Message
}

// Queue is a mutex-guarded FIFO of Jobs. It has a single producer (the
// photo branch of the update handler) and a single consumer (the
// overlay processor), but is safe for any number of either.
type Queue struct {
	mu   sync.Mutex
	jobs []Job
}

// New creates an empty Queue.
func New() *Queue {
	return &Queue{}
}

// Enqueue appends a job to the back of the queue.
func (q *Queue) Enqueue(job Job) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
}

// Dequeue removes and returns the oldest job. The second return value
// is false when the queue is empty.
func (q *Queue) Dequeue() (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.jobs) == 0 {
		return Job{}, false
	}
	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	return job, true
}

// Len returns the number of queued jobs.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}
