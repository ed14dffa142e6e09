package msgstore

import "sync"

// Queue is a thread-safe FIFO outbound event queue.
//
// Register it as an Observer; hosts drain it after each mutating call
// commits (for example to persist the notifications) or wait on it from a
// separate goroutine.
//
// The queue is unbounded; bulk limits already cap how much one call adds.
type Queue struct {
	mu     sync.Mutex
	events []Notification
	closed bool
	signal chan struct{} // Signals availability (buffered, size 1)
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		events: make([]Notification, 0, 64),
		signal: make(chan struct{}, 1),
	}
}

// Notify implements Observer by enqueuing n.
func (q *Queue) Notify(n Notification) {
	q.Enqueue(n)
}

// Enqueue adds a notification to the back of the queue.
// Returns false if the queue is closed.
func (q *Queue) Enqueue(n Notification) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.events = append(q.events, n)

	// Non-blocking: the buffer of 1 coalesces multiple signals
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue removes and returns the front notification without blocking.
// Returns (Notification{}, false) if the queue is empty.
func (q *Queue) TryDequeue() (Notification, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return Notification{}, false
	}

	n := q.events[0]
	q.events[0] = Notification{}

	if len(q.events) == 1 {
		q.events = q.events[:0]
	} else {
		q.events = q.events[1:]
	}

	return n, true
}

// Drain removes and returns every queued notification in FIFO order.
// Returns an empty (non-nil) slice when the queue is empty.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Notification, len(q.events))
	copy(out, q.events)
	q.events = q.events[:0]
	return out
}

// Wait returns a channel that signals when notifications may be available.
// Use with select for context-aware waiting:
//
//	select {
//	case <-ctx.Done():
//	    return ctx.Err()
//	case <-q.Wait():
//	    // TryDequeue or Drain
//	}
func (q *Queue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Close signals that no more notifications will be enqueued.
// Wakes any blocked waiters by closing the signal channel.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}
