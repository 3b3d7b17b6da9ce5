package service

import (
	"sync"

	"github.com/google/uuid"

	"github.com/okian/posefight/internal/adapters/mq/queue"
	"github.com/okian/posefight/internal/domain/model"
	"github.com/okian/posefight/pkg/metrics"
)

// feed fans tick results out to subscribers. Each subscriber has its own
// bounded queue so a slow reader only loses its own ticks.
type feed struct {
	mu       sync.RWMutex
	capacity int
	subs     map[string]*queue.InMemoryQueue
}

func newFeed(capacity int) *feed {
	return &feed{capacity: capacity, subs: make(map[string]*queue.InMemoryQueue)}
}

func (f *feed) subscribe() (string, queue.Queue) {
	id := uuid.NewString()
	q := queue.NewInMemoryQueue(queue.WithCapacity(f.capacity))

	f.mu.Lock()
	f.subs[id] = q
	n := len(f.subs)
	f.mu.Unlock()

	metrics.UpdateFeedSubscribers(n)
	return id, q
}

func (f *feed) unsubscribe(id string) {
	f.mu.Lock()
	q, ok := f.subs[id]
	delete(f.subs, id)
	n := len(f.subs)
	f.mu.Unlock()

	if ok {
		_ = q.Close()
		metrics.UpdateFeedSubscribers(n)
	}
}

func (f *feed) publish(r model.TickResult) { //nolint:gocritic // hugeParam: copied into every queue anyway
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, q := range f.subs {
		q.Enqueue(r)
	}
}

func (f *feed) count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

func (f *feed) closeAll() {
	f.mu.Lock()
	subs := f.subs
	f.subs = make(map[string]*queue.InMemoryQueue)
	f.mu.Unlock()

	for _, q := range subs {
		_ = q.Close()
	}
	metrics.UpdateFeedSubscribers(0)
}

// Subscribe registers a tick consumer. Ticks published after the call are
// delivered until Unsubscribe or Stop closes the queue.
func (s *Service) Subscribe() (string, queue.Queue) {
	return s.feed.subscribe()
}

// Unsubscribe removes the consumer and closes its queue.
func (s *Service) Unsubscribe(id string) {
	s.feed.unsubscribe(id)
}
