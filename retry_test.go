// FILE: retry_test.go
package sink

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetryEventualSuccess(t *testing.T) {
	w, _ := newTestWriter(t, func(cfg *Config) {
		cfg.RetryCount = 3
	})

	attempts := 0
	err := w.withRetry(func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, attempts, "success must stop the retry loop")
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	w, _ := newTestWriter(t, func(cfg *Config) {
		cfg.RetryCount = 2
	})

	sentinel := errors.New("persistent")
	attempts := 0
	err := w.withRetry(func() error {
		attempts++
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel, "the final attempt's error is raised unchanged")
	assert.Equal(t, 3, attempts, "retry_count=2 means one initial attempt plus two retries")
}

func TestWithRetryZeroCountSingleAttempt(t *testing.T) {
	w, _ := newTestWriter(t, func(cfg *Config) {
		cfg.RetryCount = 0
	})

	attempts := 0
	_ = w.withRetry(func() error {
		attempts++
		return errors.New("fail")
	})
	assert.Equal(t, 1, attempts)
}

func TestRetryRenameMissingSource(t *testing.T) {
	w, _ := newTestWriter(t, nil)
	dir := t.TempDir()

	err := w.retryRename(filepath.Join(dir, "absent.log"), filepath.Join(dir, "dest.log"))
	assert.NoError(t, err, "a missing rename source is the leftover of a prior rotation")

	_, statErr := os.Stat(filepath.Join(dir, "dest.log"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRetryRemoveMissingTarget(t *testing.T) {
	w, _ := newTestWriter(t, nil)

	err := w.retryRemove(filepath.Join(t.TempDir(), "absent.log"))
	assert.NoError(t, err)
}

func TestRetryRenameMovesExistingFile(t *testing.T) {
	w, _ := newTestWriter(t, nil)
	dir := t.TempDir()

	src := filepath.Join(dir, "src.log")
	dst := filepath.Join(dir, "dst.log")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0644))

	require.NoError(t, w.retryRename(src, dst))

	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(content))
	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
}
