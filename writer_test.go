// FILE: writer_test.go
package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestWriter builds a writer against a temp directory with fast retry
// settings. Rotation is off unless the mutator enables it.
func newTestWriter(t *testing.T, mutate func(*Config)) (*Writer, string) {
	t.Helper()

	cfg := DefaultConfig()
	cfg.FilePath = filepath.Join(t.TempDir(), "app.log")
	cfg.Rotate = false
	cfg.RetryCount = 1
	cfg.RetryDelayMs = 1
	if mutate != nil {
		mutate(cfg)
	}

	w, err := NewWriterWithRegistry(cfg, NewRegistry())
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Destroy() })

	return w, cfg.FilePath
}

func TestWriteOrdering(t *testing.T) {
	w, path := newTestWriter(t, nil)

	const n = 200
	var expected strings.Builder
	futures := make([]<-chan error, 0, n)
	for i := 0; i < n; i++ {
		line := fmt.Sprintf("line-%03d", i)
		expected.WriteString(line)
		expected.WriteByte('\n')
		futures = append(futures, w.Write(line))
	}

	require.NoError(t, w.Flush())
	for i, f := range futures {
		assert.NoError(t, <-f, "write %d should succeed", i)
	}

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, expected.String(), string(content),
		"file content must be the exact enqueue-order concatenation")
}

func TestWriteAfterDestroy(t *testing.T) {
	w, _ := newTestWriter(t, nil)

	require.NoError(t, <-w.Write("before destroy"))
	require.NoError(t, w.Destroy())

	err := <-w.Write("after destroy")
	assert.ErrorIs(t, err, ErrStreamClosed)
}

func TestDestroyIdempotent(t *testing.T) {
	w, _ := newTestWriter(t, nil)

	require.NoError(t, <-w.Write("only line"))
	require.NoError(t, w.Destroy())
	assert.NoError(t, w.Destroy(), "second destroy must be a no-op")
}

func TestDestroyDrainsPendingWrites(t *testing.T) {
	w, path := newTestWriter(t, nil)

	const n = 50
	for i := 0; i < n; i++ {
		w.Write(fmt.Sprintf("pending-%d", i))
	}
	require.NoError(t, w.Destroy())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, n, strings.Count(string(content), "\n"),
		"all buffered lines must reach the file before destroy returns")
}

func TestDisabledWriterDiscards(t *testing.T) {
	w, path := newTestWriter(t, func(cfg *Config) {
		cfg.Enabled = false
	})

	assert.NoError(t, <-w.Write("discarded"))
	assert.NoError(t, w.Flush())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "disabled writer must not create the file")

	m := w.Metrics()
	assert.Zero(t, m.MessagesLogged)
	assert.Zero(t, m.BytesWritten)
}

func TestConcurrentFlush(t *testing.T) {
	w, path := newTestWriter(t, nil)

	const n = 100
	for i := 0; i < n; i++ {
		w.Write(fmt.Sprintf("line-%d", i))
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, w.Flush())
		}()
	}
	wg.Wait()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, n, strings.Count(string(content), "\n"),
		"every entry present at flush time must be written when flush returns")
	assert.Zero(t, w.Metrics().QueueLength)
}

func TestFlushIsIdempotent(t *testing.T) {
	w, _ := newTestWriter(t, nil)

	require.NoError(t, <-w.Write("x"))
	require.NoError(t, w.Flush())
	require.NoError(t, w.Flush())
	require.NoError(t, w.Flush())
}

func TestMetricsSnapshot(t *testing.T) {
	w, _ := newTestWriter(t, nil)

	lines := []string{"a", "bb", "ccc"}
	var expectedBytes uint64
	for _, line := range lines {
		require.NoError(t, <-w.Write(line))
		expectedBytes += uint64(len(line) + 1)
	}
	require.NoError(t, w.Flush())

	m := w.Metrics()
	assert.Equal(t, uint64(len(lines)), m.MessagesLogged)
	assert.Equal(t, expectedBytes, m.BytesWritten)
	assert.Zero(t, m.WriteFailures)
	assert.Zero(t, m.Rotations)
	assert.Zero(t, m.QueueLength)
	assert.False(t, m.Breaker.Open)
	assert.Positive(t, m.AverageWriteLatency)
}

func TestNewWriterRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FilePath = ""
	_, err := NewWriterWithRegistry(cfg, NewRegistry())
	assert.Error(t, err)

	_, err = NewWriterWithRegistry(nil, NewRegistry())
	assert.Error(t, err)
}

func TestNewWriterResumesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(path, []byte("previous run\n"), 0644))

	cfg := DefaultConfig()
	cfg.FilePath = path
	cfg.Rotate = false
	w, err := NewWriterWithRegistry(cfg, NewRegistry())
	require.NoError(t, err)
	defer w.Destroy()

	require.NoError(t, <-w.Write("new run"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous run\nnew run\n", string(content),
		"construction must append to an existing file, not truncate it")
}
