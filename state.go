// FILE: state.go
package sink

import (
	"sync"
	"sync/atomic"
)

// State encapsulates the runtime state of the writer
type State struct {
	ShutdownCalled atomic.Bool // Destroy entered; new writes reject
	Draining       atomic.Bool // Single-flight guard for the drain loop
	Rotating       atomic.Bool // Single-flight guard for rotation

	CurrentFile atomic.Value // stores *os.File
	CurrentSize atomic.Int64 // Size of the current log file

	// StreamGeneration increments whenever a fresh append stream replaces
	// the active one (rotation or breaker reopen). Writes issued after a
	// rotation always observe the new generation because rotation only runs
	// between dequeues on the drain goroutine.
	StreamGeneration atomic.Int64

	TotalRotations atomic.Uint64 // Counter for successful rotations

	flushMu sync.Mutex // Collapses concurrent Flush calls onto one drain
}
