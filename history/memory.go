package history

import (
	"context"
	"sync"
	"time"
)

// Memory is the ephemeral store: a newest-first slice that lives as long
// as the session that owns it. Growth is unbounded.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
	nextID  int64
	now     func() time.Time
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{nextID: 1, now: time.Now}
}

func (m *Memory) Append(ctx context.Context, e Entry) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e.ID = m.nextID
	m.nextID++
	if e.AskedAt.IsZero() {
		e.AskedAt = m.now()
	}
	m.entries = append([]Entry{e}, m.entries...)
	return e, nil
}

func (m *Memory) Recent(ctx context.Context, n int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n <= 0 || n > len(m.entries) {
		n = len(m.entries)
	}
	out := make([]Entry, n)
	copy(out, m.entries[:n])
	return out, nil
}

// Len returns the number of entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) Close() error { return nil }
