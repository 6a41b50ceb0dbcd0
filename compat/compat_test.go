// FILE: compat/compat_test.go
package compat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/sink"
)

func newCompatWriter(t *testing.T) (*sink.Writer, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "compat.log")
	w, err := sink.NewBuilder().
		FilePath(path).
		Rotate(false).
		Retry(1, 1).
		Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Destroy() })

	return w, path
}

func TestFastHTTPAdapterTagsLines(t *testing.T) {
	w, path := newCompatWriter(t)
	adapter := NewFastHTTPAdapter(w)

	adapter.Printf("serving on %s", ":8080")
	adapter.Printf("error when serving connection %s", "1.2.3.4")
	require.NoError(t, w.Flush())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "INFO fasthttp: serving on :8080\n")
	assert.Contains(t, string(content), "ERROR fasthttp: error when serving connection 1.2.3.4\n")
}

func TestFastHTTPAdapterOptions(t *testing.T) {
	w, path := newCompatWriter(t)
	adapter := NewFastHTTPAdapter(w,
		WithDefaultLevel("NOTICE"),
		WithLevelDetector(func(string) string { return "" }),
	)

	adapter.Printf("plain message")
	require.NoError(t, w.Flush())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "NOTICE fasthttp: plain message\n")
}

func TestDetectLogLevel(t *testing.T) {
	cases := map[string]string{
		"connection failed":      "ERROR",
		"PANIC in handler":       "ERROR",
		"warning: deprecated":    "WARN",
		"trace: entering accept": "DEBUG",
		"listening on :8080":     "INFO",
	}
	for msg, want := range cases {
		assert.Equal(t, want, DetectLogLevel(msg), "message %q", msg)
	}
}

func TestGnetAdapterLevels(t *testing.T) {
	w, path := newCompatWriter(t)
	adapter := NewGnetAdapter(w)

	adapter.Debugf("poll fd=%d", 7)
	adapter.Infof("engine started")
	adapter.Warnf("slow consumer")
	adapter.Errorf("accept failed: %v", os.ErrClosed)
	require.NoError(t, w.Flush())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "DEBUG gnet: poll fd=7\n")
	assert.Contains(t, string(content), "INFO gnet: engine started\n")
	assert.Contains(t, string(content), "WARN gnet: slow consumer\n")
	assert.Contains(t, string(content), "ERROR gnet: accept failed: file already closed\n")
}

func TestGnetAdapterFatalFlushesBeforeHandler(t *testing.T) {
	w, path := newCompatWriter(t)

	var handled string
	adapter := NewGnetAdapter(w, WithFatalHandler(func(msg string) {
		handled = msg

		// The fatal line must already be on disk when the handler runs.
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "FATAL gnet: unrecoverable\n")
	}))

	adapter.Fatalf("unrecoverable")
	assert.Equal(t, "unrecoverable", handled)
}
