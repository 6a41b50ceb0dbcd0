// FILE: retry.go
package sink

import (
	"os"
	"time"
)

// Bounded-retry wrappers for the filesystem primitives used during
// construction and rotation. Each failed attempt is retried after a fixed
// delay, re-raising the final failure unchanged. Rename and remove treat a
// missing target as success: it is the normal leftover of a partially
// completed prior rotation. These wrappers never run on the per-entry write
// path, which makes a single attempt and routes failures to the breaker.

// withRetry runs op up to RetryCount+1 times with a fixed delay between
// attempts, returning the last error.
func (w *Writer) withRetry(op func() error) error {
	attempts := w.cfg.RetryCount + 1
	delay := time.Duration(w.cfg.RetryDelayMs) * time.Millisecond

	var err error
	for i := int64(0); i < attempts; i++ {
		if err = op(); err == nil {
			return nil
		}
		if i < attempts-1 && delay > 0 {
			time.Sleep(delay)
		}
	}
	return err
}

func (w *Writer) retryStat(path string) (os.FileInfo, error) {
	var info os.FileInfo
	err := w.withRetry(func() error {
		var e error
		info, e = os.Stat(path)
		return e
	})
	return info, err
}

func (w *Writer) retryMkdirAll(dir string) error {
	return w.withRetry(func() error {
		return os.MkdirAll(dir, 0755)
	})
}

func (w *Writer) retryReadFile(path string) ([]byte, error) {
	var data []byte
	err := w.withRetry(func() error {
		var e error
		data, e = os.ReadFile(path)
		return e
	})
	return data, err
}

// retryOpenFile opens path with the given flags, retrying on any error.
func (w *Writer) retryOpenFile(path string, flags int) (*os.File, error) {
	var f *os.File
	err := w.withRetry(func() error {
		var e error
		f, e = os.OpenFile(path, flags, 0644)
		return e
	})
	return f, err
}

// retryOpenAppend opens (creating if needed) the path as an append stream.
func (w *Writer) retryOpenAppend(path string) (*os.File, error) {
	return w.retryOpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY)
}

// retryRename renames oldPath to newPath. A missing source returns success
// immediately, without consuming retries.
func (w *Writer) retryRename(oldPath, newPath string) error {
	return w.withRetry(func() error {
		err := os.Rename(oldPath, newPath)
		if os.IsNotExist(err) {
			return nil
		}
		return err
	})
}

// retryRemove unlinks path. A missing target returns success immediately.
func (w *Writer) retryRemove(path string) error {
	return w.withRetry(func() error {
		err := os.Remove(path)
		if os.IsNotExist(err) {
			return nil
		}
		return err
	})
}
