// FILE: metric_test.go
package sink

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := &metrics{}

	assert.Zero(t, m.averageLatency(), "empty window averages to zero")

	m.recordWrite(10, time.Millisecond)
	m.recordWrite(20, 3*time.Millisecond)
	m.recordFailure()
	m.recordRotation()

	assert.Equal(t, uint64(2), m.messagesLogged.Load())
	assert.Equal(t, uint64(30), m.bytesWritten.Load())
	assert.Equal(t, uint64(1), m.writeFailures.Load())
	assert.Equal(t, uint64(1), m.rotations.Load())
	assert.Equal(t, 2*time.Millisecond, m.averageLatency())
}

func TestLatencyWindowEviction(t *testing.T) {
	m := &metrics{}

	// 150 samples at i milliseconds each; the window retains the last 100,
	// i.e. samples 51..150.
	for i := 1; i <= 150; i++ {
		m.recordWrite(1, time.Duration(i)*time.Millisecond)
	}

	assert.Equal(t, latencyWindowSize, m.count)

	var sum time.Duration
	for i := 51; i <= 150; i++ {
		sum += time.Duration(i) * time.Millisecond
	}
	assert.Equal(t, sum/latencyWindowSize, m.averageLatency())
}
