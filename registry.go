// FILE: registry.go
package sink

import (
	"sync"

	"go.uber.org/multierr"
)

// Registry tracks live writers so a shutdown path can drain and close all of
// them. The package never installs signal handlers; wiring CloseAll into
// process shutdown is the caller's job.
type Registry struct {
	mu      sync.Mutex
	writers map[*Writer]struct{}
}

// DefaultRegistry receives writers constructed with NewWriter.
var DefaultRegistry = NewRegistry()

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		writers: make(map[*Writer]struct{}),
	}
}

func (r *Registry) register(w *Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writers[w] = struct{}{}
}

func (r *Registry) unregister(w *Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.writers, w)
}

// Len returns the number of live writers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.writers)
}

// CloseAll destroys every still-registered writer, draining buffered lines
// before returning. Errors from individual writers are aggregated; a writer
// already destroyed concurrently contributes nothing.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	writers := make([]*Writer, 0, len(r.writers))
	for w := range r.writers {
		writers = append(writers, w)
	}
	r.mu.Unlock()

	var err error
	for _, w := range writers {
		err = multierr.Append(err, w.Destroy())
	}
	return err
}

// CloseAll drains and destroys every writer in the default registry.
// Intended to be called from the application's shutdown path.
func CloseAll() error {
	return DefaultRegistry.CloseAll()
}
