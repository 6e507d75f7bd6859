package logging

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

const rotateEvery = 24 * time.Hour

// FileWriter appends log lines to one file and rotates it when the next write
// would pass the size limit or the file is a day old. Rotated files are
// gzipped and only the newest maxBackups are kept.
type FileWriter struct {
	mu         sync.Mutex
	path       string
	maxBytes   int64
	maxBackups int
	now        func() time.Time

	file   *os.File
	size   int64
	opened time.Time
}

// NewFileWriter opens dir/name for appending, creating dir if needed.
func NewFileWriter(dir, name string, maxSizeMB, maxBackups int) (*FileWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	w := &FileWriter{
		path:       filepath.Join(dir, name),
		maxBytes:   int64(maxSizeMB) << 20,
		maxBackups: maxBackups,
		now:        time.Now,
	}
	if err := w.openLocked(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *FileWriter) openLocked() error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}
	w.file = f
	w.size = info.Size()
	w.opened = w.now()
	return nil
}

// Write implements io.Writer. Each call is expected to be one log line.
func (w *FileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return 0, os.ErrClosed
	}
	if w.size > 0 && (w.size+int64(len(p)) > w.maxBytes || w.now().Sub(w.opened) >= rotateEvery) {
		if err := w.rotateLocked(); err != nil {
			return 0, err
		}
	}
	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

func (w *FileWriter) rotateLocked() error {
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	w.file = nil

	rotated := fmt.Sprintf("%s.%s", w.path, w.now().UTC().Format("20060102-150405.000"))
	if err := os.Rename(w.path, rotated); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("rename log file: %w", err)
	}
	// A failed compression leaves the plain rotated file behind, which is still readable.
	if err := gzipFile(rotated); err == nil {
		_ = os.Remove(rotated)
	}
	w.pruneLocked()
	return w.openLocked()
}

func gzipFile(path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(path + ".gz")
	if err != nil {
		return err
	}
	zw := gzip.NewWriter(out)
	if _, err := io.Copy(zw, in); err != nil {
		zw.Close()
		out.Close()
		os.Remove(path + ".gz")
		return err
	}
	if err := zw.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// pruneLocked removes the oldest rotated files beyond maxBackups. The
// timestamp suffix sorts lexically in rotation order.
func (w *FileWriter) pruneLocked() {
	if w.maxBackups <= 0 {
		return
	}
	matches, err := filepath.Glob(w.path + ".*")
	if err != nil || len(matches) <= w.maxBackups {
		return
	}
	sort.Strings(matches)
	for _, path := range matches[:len(matches)-w.maxBackups] {
		_ = os.Remove(path)
	}
}

// Close closes the current file.
func (w *FileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}
