package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/posefight/internal/domain/model"
)

func tick(n uint64) model.TickResult {
	return model.TickResult{Tick: n}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))

	// Test empty queue
	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(tick(1)) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	r := <-q.Dequeue()
	if r.Tick != 1 {
		t.Errorf("expected tick 1, got %d", r.Tick)
	}
	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_DropsOldestWhenFull(t *testing.T) {
	var drops atomic.Int32
	q := NewInMemoryQueue(WithCapacity(2), WithDropHook(func() { drops.Add(1) }))

	for i := uint64(1); i <= 5; i++ {
		if !q.Enqueue(tick(i)) {
			t.Fatalf("expected enqueue %d to succeed", i)
		}
	}

	if l := q.Len(); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
	if d := drops.Load(); d != 3 {
		t.Errorf("expected 3 drops, got %d", d)
	}

	// The newest ticks survive.
	for _, want := range []uint64{4, 5} {
		if r := <-q.Dequeue(); r.Tick != want {
			t.Errorf("expected tick %d, got %d", want, r.Tick)
		}
	}
}

func TestInMemoryQueue_Next(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(4))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := q.Next(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error on empty queue, got %v", err)
	}

	q.Enqueue(tick(9))
	r, err := q.Next(context.Background())
	if err != nil || r.Tick != 9 {
		t.Errorf("expected tick 9, got %d (%v)", r.Tick, err)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(8))
	const producers, ticks = 4, 500

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < ticks; i++ {
				q.Enqueue(tick(uint64(p*ticks + i)))
			}
		}(p)
	}

	done := make(chan int)
	go func() {
		n := 0
		for range q.Dequeue() {
			n++
		}
		done <- n
	}()

	wg.Wait()
	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	select {
	case n := <-done:
		if n == 0 || n > producers*ticks {
			t.Errorf("unexpected consumed count %d", n)
		}
	case <-time.After(time.Second):
		t.Fatal("consumer did not finish after close")
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))

	q.Enqueue(tick(1))
	q.Enqueue(tick(2))

	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}
	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}

	// Try to enqueue after closing (should fail)
	if q.Enqueue(tick(3)) {
		t.Error("expected enqueue to fail after closing")
	}

	// Buffered ticks drain before the closed signal.
	for _, want := range []uint64{1, 2} {
		r, err := q.Next(context.Background())
		if err != nil || r.Tick != want {
			t.Errorf("expected tick %d, got %d (%v)", want, r.Tick, err)
		}
	}
	if _, err := q.Next(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	// Close again should not error
	if err := q.Close(); err != nil {
		t.Errorf("expected second close to succeed, got error: %v", err)
	}
}
