// FILE: error.go
package sink

import (
	"errors"
	"fmt"
	"strings"
)

// Typed outcomes surfaced through write futures. Callers are expected to
// branch on these with errors.Is.
var (
	// ErrQueueFull is the backpressure signal: the bounded queue is at
	// capacity and the write was rejected without side effect.
	ErrQueueFull = errors.New("sink: write queue full")

	// ErrCircuitOpen indicates the breaker is fast-failing writes after
	// repeated stream failures. Transient; retry after the cooldown.
	ErrCircuitOpen = errors.New("sink: circuit breaker open")

	// ErrStreamClosed indicates the writer was destroyed or lost its stream.
	// Recoverable only by constructing a new writer.
	ErrStreamClosed = errors.New("sink: writer destroyed or stream closed")
)

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "sink: ") {
		format = "sink: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, err2)
}
