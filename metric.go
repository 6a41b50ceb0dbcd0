// FILE: metric.go
package sink

import (
	"sync"
	"sync/atomic"
	"time"
)

// MetricsSnapshot is a point-in-time view of a writer's accounting.
// Reading it never mutates state.
type MetricsSnapshot struct {
	MessagesLogged      uint64
	BytesWritten        uint64
	WriteFailures       uint64
	Rotations           uint64
	AverageWriteLatency time.Duration

	QueueLength      int
	Draining         bool
	Rotating         bool
	StreamGeneration int64

	Breaker BreakerStats
}

// metrics accumulates counters and a bounded sliding window of write
// latencies. Pure accounting; it has no control-flow effect on the writer.
type metrics struct {
	messagesLogged atomic.Uint64
	bytesWritten   atomic.Uint64
	writeFailures  atomic.Uint64
	rotations      atomic.Uint64

	mu     sync.Mutex
	window [latencyWindowSize]time.Duration
	count  int
	next   int
	sum    time.Duration
}

// recordWrite accounts one successful write of n bytes taking elapsed time.
func (m *metrics) recordWrite(n int64, elapsed time.Duration) {
	m.messagesLogged.Add(1)
	m.bytesWritten.Add(uint64(n))

	m.mu.Lock()
	if m.count == latencyWindowSize {
		// Evict the oldest sample
		m.sum -= m.window[m.next]
	} else {
		m.count++
	}
	m.window[m.next] = elapsed
	m.sum += elapsed
	m.next = (m.next + 1) % latencyWindowSize
	m.mu.Unlock()
}

func (m *metrics) recordFailure() {
	m.writeFailures.Add(1)
}

func (m *metrics) recordRotation() {
	m.rotations.Add(1)
}

// averageLatency returns the running average over the current window.
func (m *metrics) averageLatency() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.count == 0 {
		return 0
	}
	return m.sum / time.Duration(m.count)
}
