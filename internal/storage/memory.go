package storage

import "sync"

// MemoryStore is an in-process Store, used in tests
type MemoryStore struct {
	mu      sync.Mutex
	records []string
	err     error
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// FailWith makes every subsequent Append and Count return err (nil to clear)
func (m *MemoryStore) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MemoryStore) Append(record string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, record)
	return nil
}

func (m *MemoryStore) Count() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return len(m.records), nil
}

// Records returns a copy of everything appended so far
func (m *MemoryStore) Records() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.records...)
}

// MemoryLog is an in-process AuditLog, used in tests
type MemoryLog struct {
	mu    sync.Mutex
	lines []string
	err   error
}

// NewMemoryLog creates an empty in-memory log
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

// FailWith makes every subsequent Append return err (nil to clear)
func (m *MemoryLog) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MemoryLog) Append(line string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.lines = append(m.lines, line)
	return nil
}

// Lines returns a copy of everything appended so far
func (m *MemoryLog) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.lines...)
}
