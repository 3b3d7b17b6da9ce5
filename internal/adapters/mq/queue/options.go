package queue

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the maximum number of buffered ticks.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// WithDropHook registers fn to run for every discarded tick.
func WithDropHook(fn func()) Option {
	return func(q *InMemoryQueue) {
		q.onDrop = fn
	}
}
