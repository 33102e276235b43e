package queue

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	q := New()

	for i := 0; i < 10; i++ {
		q.Enqueue([]byte(fmt.Sprintf("event-%d", i)))
	}
	assert.Equal(t, 10, q.Len())

	for i := 0; i < 10; i++ {
		payload, ok := q.Dequeue(time.Second)
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("event-%d", i), string(payload))
	}
	assert.Equal(t, 0, q.Len())
}

func TestDequeueTimeout(t *testing.T) {
	q := New()

	start := time.Now()
	payload, ok := q.Dequeue(50 * time.Millisecond)

	assert.False(t, ok)
	assert.Nil(t, payload)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestDequeueWakesOnEnqueue(t *testing.T) {
	q := New()

	go func() {
		time.Sleep(20 * time.Millisecond)
		q.Enqueue([]byte("late"))
	}()

	payload, ok := q.Dequeue(time.Second)
	require.True(t, ok)
	assert.Equal(t, "late", string(payload))
}

func TestEnqueueDoesNotBlock(t *testing.T) {
	q := New()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10000; i++ {
			q.Enqueue([]byte("x"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked without a consumer")
	}
	assert.Equal(t, 10000, q.Len())
}

func TestConcurrentProducers(t *testing.T) {
	q := New()

	const producers = 8
	const perProducer = 100

	done := make(chan struct{})
	for p := 0; p < producers; p++ {
		go func() {
			for i := 0; i < perProducer; i++ {
				q.Enqueue([]byte("event"))
			}
			done <- struct{}{}
		}()
	}
	for p := 0; p < producers; p++ {
		<-done
	}

	count := 0
	for {
		_, ok := q.Dequeue(10 * time.Millisecond)
		if !ok {
			break
		}
		count++
	}
	assert.Equal(t, producers*perProducer, count)
}

func TestClose(t *testing.T) {
	t.Run("wakes a blocked consumer", func(t *testing.T) {
		q := New()

		go func() {
			time.Sleep(20 * time.Millisecond)
			q.Close()
		}()

		start := time.Now()
		_, ok := q.Dequeue(5 * time.Second)
		assert.False(t, ok)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("drains remaining payloads after close", func(t *testing.T) {
		q := New()
		q.Enqueue([]byte("leftover"))
		q.Close()

		payload, ok := q.Dequeue(10 * time.Millisecond)
		require.True(t, ok)
		assert.Equal(t, "leftover", string(payload))

		_, ok = q.Dequeue(10 * time.Millisecond)
		assert.False(t, ok)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		q := New()
		q.Close()
		q.Close()
	})
}
