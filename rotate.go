// FILE: rotate.go
package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// splitLogPath splits the active file path into the base and extension used
// to derive rotated names: "/var/log/app.log" -> "/var/log/app", ".log".
func splitLogPath(path string) (base, ext string) {
	ext = filepath.Ext(path)
	base = strings.TrimSuffix(path, ext)
	return base, ext
}

// numberedName returns the rotated name for slot n, 1 being the newest:
// base.1.log, base.2.log, ...
func numberedName(base string, n int64, ext string) string {
	return fmt.Sprintf("%s.%d%s", base, n, ext)
}

// maybeRotate rotates the active file when the pending write of incoming
// bytes would push it past the size threshold. Concurrent triggers collapse
// onto the in-flight rotation. Rotation failure is never fatal: it is logged
// internally and writing continues on whatever stream is active.
func (w *Writer) maybeRotate(incoming int64) {
	if !w.state.Rotating.CompareAndSwap(false, true) {
		return
	}
	defer w.state.Rotating.Store(false)

	info, err := w.retryStat(w.cfg.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			// Nothing to rotate
			return
		}
		w.internalLog("rotation stat of '%s' failed: %v\n", w.cfg.FilePath, err)
		return
	}

	// An empty file never rotates, even for an oversized incoming line
	if info.Size() == 0 || info.Size()+incoming <= w.cfg.MaxLogSize {
		return
	}

	if w.cfg.OnMaxLogFilesReached == StrategyArchiveOld {
		err = w.rotateArchive()
	} else {
		err = w.rotateRenumber()
	}

	if err != nil {
		w.internalLog("rotation of '%s' failed: %v\n", w.cfg.FilePath, err)
		// Keep logging on whatever stream survives the failed rotation
		w.ensureStream()
		return
	}

	w.state.TotalRotations.Add(1)
	w.metrics.recordRotation()
}

// rotateRenumber implements the deleteOld strategy: drop the oldest slot,
// shift the survivors up one number, and move the active file into slot 1.
// Missing intermediate slots are normal on fresh deployments and are skipped
// silently by the tolerant rename/remove wrappers.
func (w *Writer) rotateRenumber() error {
	base, ext := splitLogPath(w.cfg.FilePath)

	if err := w.retryRemove(numberedName(base, w.cfg.MaxLogFiles, ext)); err != nil {
		return fmtErrorf("failed to drop oldest rotated file: %w", err)
	}

	for i := w.cfg.MaxLogFiles - 1; i >= 1; i-- {
		if err := w.retryRename(numberedName(base, i, ext), numberedName(base, i+1, ext)); err != nil {
			return fmtErrorf("failed to shift rotated file %d: %w", i, err)
		}
	}

	// Close before the rename so the handle never trails the renumbered file
	w.closeCurrent()

	if err := w.retryRename(w.cfg.FilePath, numberedName(base, 1, ext)); err != nil {
		return fmtErrorf("failed to retire active file: %w", err)
	}

	return w.openFreshStream(os.O_APPEND | os.O_CREATE | os.O_WRONLY)
}

// rotateArchive implements the archiveOld strategy: shift the .gz slots,
// compress the active file's contents into slot 1, then truncate the active
// file in place. The raw active file is never renamed.
func (w *Writer) rotateArchive() error {
	base, ext := splitLogPath(w.cfg.FilePath)

	if err := w.retryRemove(numberedName(base, w.cfg.MaxLogFiles, ext) + archiveSuffix); err != nil {
		return fmtErrorf("failed to drop oldest archive: %w", err)
	}

	for i := w.cfg.MaxLogFiles - 1; i >= 1; i-- {
		oldName := numberedName(base, i, ext) + archiveSuffix
		newName := numberedName(base, i+1, ext) + archiveSuffix
		if err := w.retryRename(oldName, newName); err != nil {
			return fmtErrorf("failed to shift archive %d: %w", i, err)
		}
	}

	contents, err := w.retryReadFile(w.cfg.FilePath)
	if err != nil {
		return fmtErrorf("failed to read active file for archiving: %w", err)
	}

	archivePath := numberedName(base, 1, ext) + archiveSuffix
	if err := w.retryWriteGzip(archivePath, contents); err != nil {
		return fmtErrorf("failed to write archive '%s': %w", archivePath, err)
	}

	// Truncate in place and continue on a fresh append stream
	w.closeCurrent()
	return w.openFreshStream(os.O_TRUNC | os.O_APPEND | os.O_CREATE | os.O_WRONLY)
}

// retryWriteGzip compresses contents into a gzip container at path,
// replacing any previous attempt's partial output on each retry.
func (w *Writer) retryWriteGzip(path string, contents []byte) error {
	return w.withRetry(func() error {
		f, err := os.Create(path)
		if err != nil {
			return err
		}

		zw := gzip.NewWriter(f)
		if _, err = zw.Write(contents); err != nil {
			zw.Close()
			f.Close()
			return err
		}
		if err = zw.Close(); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	})
}

// closeCurrent detaches and closes the active stream handle.
func (w *Writer) closeCurrent() {
	f := w.currentFile()
	if f == nil {
		return
	}
	w.state.CurrentFile.Store((*os.File)(nil))
	if err := f.Close(); err != nil {
		w.internalLog("failed to close log file '%s': %v\n", w.cfg.FilePath, err)
	}
}

// openFreshStream opens a new active stream with the given flags and
// advances the stream generation.
func (w *Writer) openFreshStream(flags int) error {
	f, err := w.retryOpenFile(w.cfg.FilePath, flags)
	if err != nil {
		return fmtErrorf("failed to open fresh log stream: %w", err)
	}

	w.state.CurrentFile.Store(f)
	w.state.CurrentSize.Store(0)
	if fi, errStat := f.Stat(); errStat == nil {
		w.state.CurrentSize.Store(fi.Size())
	}
	w.state.StreamGeneration.Add(1)
	return nil
}

// ensureStream reopens the active stream if a failed rotation left the
// writer without one.
func (w *Writer) ensureStream() {
	if w.currentFile() != nil {
		return
	}
	if err := w.openFreshStream(os.O_APPEND | os.O_CREATE | os.O_WRONLY); err != nil {
		w.internalLog("failed to recover log stream: %v\n", err)
	}
}

// reopenStream discards the current handle and opens a new append stream.
// Used by the breaker's cooldown reopen; failure is logged and left for the
// next write to surface.
func (w *Writer) reopenStream(reason string) {
	w.closeCurrent()
	if err := w.openFreshStream(os.O_APPEND | os.O_CREATE | os.O_WRONLY); err != nil {
		w.internalLog("stream reopen (%s) failed: %v\n", reason, err)
	}
}
