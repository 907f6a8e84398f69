package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Store is an append-only sequence of serialized product records
type Store interface {
	// Append adds one record to the end of the store
	Append(record string) error

	// Count returns the number of records currently stored
	Count() (int, error)
}

// AuditLog receives human-readable publication lines. It is never read back.
type AuditLog interface {
	Append(line string) error
}

// FileStore keeps records in a newline-delimited text file.
// The first record is written bare; every later one is preceded by "\n".
// Append checks the size and writes in two steps, so two concurrent first
// appends can land on one line without a separator. Writes are not locked.
type FileStore struct {
	path string
}

// OpenFileStore returns a store backed by path, creating its directory if needed.
// The file itself is created on first append.
func OpenFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file path
func (s *FileStore) Path() string {
	return s.path
}

// Append writes record with a single write call
func (s *FileStore) Append(record string) error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat store: %w", err)
	}

	data := []byte(record)
	if info.Size() > 0 {
		data = append([]byte{'\n'}, data...)
	}

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	return nil
}

// Count re-reads the file and returns its line count. A missing file has zero records.
func (s *FileStore) Count() (int, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("open store: %w", err)
	}
	defer f.Close()

	return countLines(f)
}

// countLines counts newline-separated lines; a trailing partial line counts as one
func countLines(r io.Reader) (int, error) {
	buf := make([]byte, 32*1024)
	lines := 0
	var last byte

	for {
		n, err := r.Read(buf)
		if n > 0 {
			lines += bytes.Count(buf[:n], []byte{'\n'})
			last = buf[n-1]
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read store: %w", err)
		}
	}

	if last != 0 && last != '\n' {
		lines++
	}
	return lines, nil
}

// FileLog appends lines to a text file, creating it if needed
type FileLog struct {
	path string
}

// OpenFileLog returns a log backed by path, creating its directory if needed
func OpenFileLog(path string) (*FileLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	return &FileLog{path: path}, nil
}

// Append writes line as-is; callers supply the trailing newline
func (l *FileLog) Append(line string) error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
