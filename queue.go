// FILE: queue.go
package sink

import (
	"sync"
	"time"
)

// queueEntry is one pending write. The done channel is buffered and receives
// exactly one value: nil on success or the typed failure.
type queueEntry struct {
	payload string
	done    chan error
}

// writeQueue is a bounded FIFO of pending entries. It is the single source
// of ordering truth: entries reach the stream in exactly arrival order.
type writeQueue struct {
	max int

	// mu guards queue state transitions only, never I/O
	mu      sync.Mutex
	entries []queueEntry
	head    int
}

func (q *writeQueue) push(e queueEntry) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries)-q.head >= q.max {
		return false
	}
	q.entries = append(q.entries, e)
	return true
}

func (q *writeQueue) pop() (queueEntry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head >= len(q.entries) {
		return queueEntry{}, false
	}
	e := q.entries[q.head]
	q.entries[q.head] = queueEntry{} // Release references for GC
	q.head++

	// Compact once the dead prefix dominates the backing array
	if q.head > 1024 && q.head*2 >= len(q.entries) {
		n := copy(q.entries, q.entries[q.head:])
		q.entries = q.entries[:n]
		q.head = 0
	}
	return e, true
}

func (q *writeQueue) length() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries) - q.head
}

// startProcessor launches the drain loop unless one is already in flight.
func (w *Writer) startProcessor() {
	if w.state.Draining.CompareAndSwap(false, true) {
		go w.drain()
	}
}

// drain is the single-flight processor: it pops entries strictly in arrival
// order until the queue is empty. A push that races with loop exit restarts
// the loop via the recheck below, so no entry is stranded.
func (w *Writer) drain() {
	for {
		for {
			e, ok := w.queue.pop()
			if !ok {
				break
			}
			w.process(e)
		}

		w.state.Draining.Store(false)

		// Recheck for entries pushed between the final pop and the flag
		// clear; their push saw Draining true and did not spawn a loop.
		if w.queue.length() == 0 {
			return
		}
		if !w.state.Draining.CompareAndSwap(false, true) {
			return // Another loop took over
		}
	}
}

// process handles one dequeued entry: breaker gate, conditional rotation,
// stream write, accounting, future resolution. Errors reject only this
// entry's future; the loop continues with the next entry.
func (w *Writer) process(e queueEntry) {
	start := time.Now()

	switch w.breaker.gate() {
	case gateReject:
		w.metrics.recordFailure()
		e.done <- ErrCircuitOpen
		return
	case gateReopen:
		// Cooldown elapsed: replace the stale handle before writing.
		// A failed reopen is not terminal, the write below will fail and
		// restart the breaker's failure run.
		w.reopenStream("circuit cooldown elapsed")
	}

	if w.cfg.Rotate {
		w.maybeRotate(int64(len(e.payload)) + 1)
	}

	f := w.currentFile()
	if f == nil {
		w.metrics.recordFailure()
		e.done <- ErrStreamClosed
		return
	}

	buf := make([]byte, 0, len(e.payload)+1)
	buf = append(buf, e.payload...)
	buf = append(buf, '\n')

	n, err := f.Write(buf)
	if err != nil {
		w.breaker.recordFailure()
		w.metrics.recordFailure()
		w.internalLog("write to '%s' failed: %v\n", w.cfg.FilePath, err)
		e.done <- fmtErrorf("file write failed: %w", err)
		return
	}

	w.state.CurrentSize.Add(int64(n))
	w.breaker.recordSuccess()
	w.metrics.recordWrite(int64(n), time.Since(start))
	e.done <- nil
}
