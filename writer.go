// FILE: writer.go
package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Writer is a queued, rotation-aware file sink. Formatted lines are enqueued
// by Write and drained strictly in arrival order by a single-flight
// processor that rotates the file at the size threshold and fast-fails
// through a circuit breaker when the underlying storage keeps failing.
//
// One Writer owns its file: two writers pointed at the same path are not
// coordinated with each other.
type Writer struct {
	cfg     *Config
	state   State
	queue   writeQueue
	breaker *breaker
	metrics *metrics

	registry *Registry
}

// NewWriter validates cfg, prepares the target directory and file, and
// registers the writer in the default registry. Configuration or filesystem
// setup failures abort construction entirely.
func NewWriter(cfg *Config) (*Writer, error) {
	return NewWriterWithRegistry(cfg, DefaultRegistry)
}

// NewWriterWithRegistry is NewWriter with an explicit lifecycle registry,
// for callers that orchestrate their own shutdown.
func NewWriterWithRegistry(cfg *Config, reg *Registry) (*Writer, error) {
	if cfg == nil {
		return nil, fmtErrorf("configuration cannot be nil")
	}
	if err := cfg.validate(); err != nil {
		return nil, fmtErrorf("invalid configuration: %w", err)
	}
	if reg == nil {
		return nil, fmtErrorf("registry cannot be nil")
	}

	w := &Writer{
		cfg: cfg.Clone(),
		queue: writeQueue{
			max: int(cfg.QueueSize),
		},
		breaker:  newBreaker(cfg.BreakerThreshold, time.Duration(cfg.BreakerCooldownMs)*time.Millisecond),
		metrics:  &metrics{},
		registry: reg,
	}
	w.state.CurrentFile.Store((*os.File)(nil))

	if w.cfg.Enabled {
		// Construction-time filesystem setup runs synchronously, before any
		// concurrent work exists, so blocking retries are acceptable here.
		dir := filepath.Dir(w.cfg.FilePath)
		if err := w.retryMkdirAll(dir); err != nil {
			return nil, fmtErrorf("failed to create log directory '%s': %w", dir, err)
		}

		f, err := w.retryOpenAppend(w.cfg.FilePath)
		if err != nil {
			return nil, fmtErrorf("failed to open log file '%s': %w", w.cfg.FilePath, err)
		}
		w.state.CurrentFile.Store(f)
		if fi, errStat := f.Stat(); errStat == nil {
			w.state.CurrentSize.Store(fi.Size())
		}
	}

	reg.register(w)
	return w, nil
}

// Write enqueues one formatted line. The returned channel resolves exactly
// once: nil when the line (plus trailing newline) has been handed to the OS
// write call, or a typed error. Write never blocks; a full queue rejects
// immediately with ErrQueueFull and a destroyed writer with ErrStreamClosed.
func (w *Writer) Write(line string) <-chan error {
	done := make(chan error, 1)

	if w.state.ShutdownCalled.Load() {
		done <- ErrStreamClosed
		return done
	}

	if !w.cfg.Enabled {
		// Disabled writers accept and discard
		done <- nil
		return done
	}

	if !w.queue.push(queueEntry{payload: line, done: done}) {
		done <- ErrQueueFull
		return done
	}

	w.startProcessor()
	return done
}

// Flush drains the queue to empty, including entries enqueued while the
// flush is waiting, and returns once the processor is idle. Individual write
// failures are delivered to their futures, not raised here. Safe to call
// repeatedly; concurrent calls collapse onto the one in-flight drain.
func (w *Writer) Flush() error {
	w.state.flushMu.Lock()
	defer w.state.flushMu.Unlock()

	w.awaitDrain()
	return nil
}

// awaitDrain waits until the queue is empty and no drain loop is running.
func (w *Writer) awaitDrain() {
	for {
		if w.queue.length() > 0 {
			// A push may have raced the last loop's exit
			w.startProcessor()
		} else if !w.state.Draining.Load() {
			return
		}
		time.Sleep(minWaitTime)
	}
}

// Destroy drains pending writes, closes the active stream and removes the
// writer from its registry. Idempotent: a second call is a no-op. After
// Destroy completes, Write rejects immediately with ErrStreamClosed.
func (w *Writer) Destroy() error {
	if !w.state.ShutdownCalled.CompareAndSwap(false, true) {
		return nil
	}

	w.state.flushMu.Lock()
	w.awaitDrain()
	w.state.flushMu.Unlock()

	var finalErr error
	if f := w.currentFile(); f != nil {
		w.state.CurrentFile.Store((*os.File)(nil))
		if err := f.Sync(); err != nil {
			finalErr = combineErrors(finalErr, fmtErrorf("failed to sync log file '%s' during destroy: %w", f.Name(), err))
		}
		if err := f.Close(); err != nil {
			finalErr = combineErrors(finalErr, fmtErrorf("failed to close log file '%s' during destroy: %w", f.Name(), err))
		}
	}

	w.registry.unregister(w)
	return finalErr
}

// Metrics returns a read-only snapshot of the writer's accounting and
// in-progress flags.
func (w *Writer) Metrics() MetricsSnapshot {
	return MetricsSnapshot{
		MessagesLogged:      w.metrics.messagesLogged.Load(),
		BytesWritten:        w.metrics.bytesWritten.Load(),
		WriteFailures:       w.metrics.writeFailures.Load(),
		Rotations:           w.metrics.rotations.Load(),
		AverageWriteLatency: w.metrics.averageLatency(),
		QueueLength:         w.queue.length(),
		Draining:            w.state.Draining.Load(),
		Rotating:            w.state.Rotating.Load(),
		StreamGeneration:    w.state.StreamGeneration.Load(),
		Breaker:             w.breaker.stats(),
	}
}

// GetConfig returns a copy of the writer's configuration.
func (w *Writer) GetConfig() *Config {
	return w.cfg.Clone()
}

// currentFile safely retrieves the active stream handle.
func (w *Writer) currentFile() *os.File {
	cfPtr := w.state.CurrentFile.Load()
	if cfPtr == nil {
		return nil
	}
	f, ok := cfPtr.(*os.File)
	if !ok {
		return nil
	}
	return f
}

// internalLog handles writing internal writer diagnostics to stderr, if enabled.
func (w *Writer) internalLog(format string, args ...any) {
	if !w.cfg.InternalErrorsToStderr {
		return
	}

	// Ensure consistent "sink: " prefix
	if !strings.HasPrefix(format, "sink: ") {
		format = "sink: " + format
	}

	fmt.Fprintf(os.Stderr, format, args...)
}
