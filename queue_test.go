// FILE: queue_test.go
package sink

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueBoundedPush(t *testing.T) {
	q := &writeQueue{max: 3}

	for i := 0; i < 3; i++ {
		assert.True(t, q.push(queueEntry{payload: fmt.Sprintf("e%d", i)}))
	}
	assert.False(t, q.push(queueEntry{payload: "overflow"}))
	assert.Equal(t, 3, q.length(), "a rejected push must not change the queue")
}

func TestQueuePopOrder(t *testing.T) {
	q := &writeQueue{max: 10}

	for i := 0; i < 5; i++ {
		require.True(t, q.push(queueEntry{payload: fmt.Sprintf("e%d", i)}))
	}
	for i := 0; i < 5; i++ {
		e, ok := q.pop()
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("e%d", i), e.payload)
	}

	_, ok := q.pop()
	assert.False(t, ok)
	assert.Zero(t, q.length())
}

func TestQueueCompaction(t *testing.T) {
	// Interleave pushes and pops past the compaction threshold so the dead
	// prefix gets reclaimed while order is preserved.
	q := &writeQueue{max: 10_000}

	const n = 5000
	next := 0
	for i := 0; i < n; i++ {
		require.True(t, q.push(queueEntry{payload: fmt.Sprintf("e%d", i)}))
		if i%2 == 1 {
			e, ok := q.pop()
			require.True(t, ok)
			assert.Equal(t, fmt.Sprintf("e%d", next), e.payload)
			next++
		}
	}
	for {
		e, ok := q.pop()
		if !ok {
			break
		}
		assert.Equal(t, fmt.Sprintf("e%d", next), e.payload)
		next++
	}
	assert.Equal(t, n, next, "every pushed entry must come back out exactly once")
	assert.Less(t, q.head, 1024, "compaction must have reset the dead prefix")
}

func TestWriteRejectsWhenQueueFull(t *testing.T) {
	w, _ := newTestWriter(t, func(cfg *Config) {
		cfg.QueueSize = 2
	})

	// Park the drain loop so enqueued entries stay put.
	w.state.Draining.Store(true)

	f1 := w.Write("first")
	f2 := w.Write("second")
	err := <-w.Write("third")
	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Equal(t, 2, w.queue.length())

	// Release the processor; the accepted entries must still land.
	w.state.Draining.Store(false)
	w.startProcessor()
	require.NoError(t, w.Flush())
	assert.NoError(t, <-f1)
	assert.NoError(t, <-f2)
}
