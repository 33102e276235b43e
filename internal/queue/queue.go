// Package queue buffers raw inbound events between the webhook endpoint and
// the dispatch worker. The endpoint enqueues and returns immediately; the
// worker drains in strict arrival order.
package queue

import (
	"sync"
	"time"
)

// Queue is an unbounded FIFO of opaque payloads. Enqueue never blocks the
// producer and never inspects the payload.
type Queue struct {
	mu     sync.Mutex
	items  [][]byte
	notify chan struct{}
	closed chan struct{}
	once   sync.Once
}

func New() *Queue {
	return &Queue{
		notify: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

// Enqueue appends a payload to the tail of the queue.
func (q *Queue) Enqueue(payload []byte) {
	q.mu.Lock()
	q.items = append(q.items, payload)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Dequeue removes and returns the head of the queue, blocking up to timeout
// when the queue is empty. It returns ok=false on timeout or after Close.
func (q *Queue) Dequeue(timeout time.Duration) ([]byte, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			payload := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return payload, true
		}
		q.mu.Unlock()

		select {
		case <-q.notify:
			// woken by a producer, re-check under the lock
		case <-q.closed:
			return nil, false
		case <-timer.C:
			return nil, false
		}
	}
}

// Len reports the number of buffered payloads.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close wakes any blocked consumer. Enqueued payloads already in the queue
// are still returned by subsequent Dequeue calls.
func (q *Queue) Close() {
	q.once.Do(func() {
		close(q.closed)
	})
}
