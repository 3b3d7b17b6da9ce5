// Package queue buffers tick results between the game loop and slow
// consumers such as spectator websockets.
//
// The producer never waits: a full queue discards its oldest tick so that
// a lagging reader always resumes from recent state.
package queue

import (
	"context"
	"sync"

	"github.com/okian/posefight/internal/domain/model"
	"github.com/okian/posefight/pkg/metrics"
)

const defaultQueueCapacity = 64

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a tick. It returns false only once the queue is closed.
	Enqueue(r model.TickResult) bool

	// Dequeue returns the receive side. It is closed by Close.
	Dequeue() <-chan model.TickResult

	// Next waits for the next tick, ctx cancellation or Close.
	Next(ctx context.Context) (model.TickResult, error)

	// Len returns the current number of queued ticks.
	Len() int

	// Close stops the queue. Buffered ticks stay readable.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	events   chan model.TickResult
	capacity int
	onDrop   func()

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.events = make(chan model.TickResult, q.capacity)
	return q
}

// Enqueue adds r, evicting the oldest tick if the buffer is full.
func (q *InMemoryQueue) Enqueue(r model.TickResult) bool { //nolint:gocritic // hugeParam: passed by value for channel semantics
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}

	select {
	case q.events <- r:
		return true
	default:
	}

	select {
	case <-q.events:
		q.dropped()
	default:
	}
	select {
	case q.events <- r:
	default:
		q.dropped()
	}
	return true
}

func (q *InMemoryQueue) dropped() {
	metrics.RecordFeedDrop()
	if q.onDrop != nil {
		q.onDrop()
	}
}

// Dequeue returns the receive side of the queue.
func (q *InMemoryQueue) Dequeue() <-chan model.TickResult {
	return q.events
}

// Next blocks until a tick is available.
func (q *InMemoryQueue) Next(ctx context.Context) (model.TickResult, error) {
	select {
	case r, ok := <-q.events:
		if !ok {
			return model.TickResult{}, ErrClosed
		}
		return r, nil
	case <-ctx.Done():
		return model.TickResult{}, ctx.Err()
	}
}

// Len returns the current number of queued ticks.
func (q *InMemoryQueue) Len() int {
	return len(q.events)
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil // already closed
	}

	close(q.events)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
