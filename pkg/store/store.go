// Package store records evaluated expressions in a bounded history.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lemonberrylabs/quickcalc/pkg/config"
	"github.com/lemonberrylabs/quickcalc/pkg/types"
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("history entry not found")

// Entry is one recorded evaluation.
type Entry struct {
	ID         string          `json:"id"`
	Expression string          `json:"expression"`
	Value      float64         `json:"value"`
	Formatted  string          `json:"formatted,omitempty"`
	OK         bool            `json:"ok"`
	ErrorKind  types.ErrorKind `json:"errorKind,omitempty"`
	Error      string          `json:"error,omitempty"`
	CreateTime time.Time       `json:"createTime"`
}

// Result converts the entry back into an evaluation result.
func (e *Entry) Result() types.Result {
	return types.Result{
		Expression: e.Expression,
		Value:      e.Value,
		Formatted:  e.Formatted,
		OK:         e.OK,
		ErrorKind:  e.ErrorKind,
		Error:      e.Error,
	}
}

// Store is a history of evaluations. Implementations are safe for
// concurrent use.
type Store interface {
	// Add records a result and returns the stored entry.
	Add(ctx context.Context, r types.Result) (*Entry, error)
	// Get returns the entry with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (*Entry, error)
	// List returns up to limit entries, newest first. limit <= 0 returns all.
	List(ctx context.Context, limit int) ([]*Entry, error)
	// Clear removes every entry.
	Clear(ctx context.Context) error
	Close() error
}

// Open returns the backend selected by cfg.
func Open(cfg config.HistoryConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		return NewMemory(cfg.Limit), nil
	case config.BackendSQLite:
		return NewSQLite(cfg.Path, cfg.Limit)
	}
	return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
}

func newEntry(r types.Result) *Entry {
	return &Entry{
		ID:         uuid.NewString(),
		Expression: r.Expression,
		Value:      r.Value,
		Formatted:  r.Formatted,
		OK:         r.OK,
		ErrorKind:  r.ErrorKind,
		Error:      r.Error,
		CreateTime: time.Now().UTC(),
	}
}

// Memory is a thread-safe in-memory history that keeps the newest limit
// entries.
type Memory struct {
	mu      sync.RWMutex
	limit   int
	entries []*Entry // oldest first
	byID    map[string]*Entry
}

// NewMemory creates an empty in-memory history. limit <= 0 means unbounded.
func NewMemory(limit int) *Memory {
	return &Memory{
		limit: limit,
		byID:  make(map[string]*Entry),
	}
}

// Add records a result.
func (m *Memory) Add(_ context.Context, r types.Result) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := newEntry(r)
	m.entries = append(m.entries, e)
	m.byID[e.ID] = e

	if m.limit > 0 && len(m.entries) > m.limit {
		drop := len(m.entries) - m.limit
		for _, old := range m.entries[:drop] {
			delete(m.byID, old.ID)
		}
		m.entries = append([]*Entry(nil), m.entries[drop:]...)
	}
	return e, nil
}

// Get retrieves an entry by id.
func (m *Memory) Get(_ context.Context, id string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

// List returns entries newest first.
func (m *Memory) List(_ context.Context, limit int) ([]*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*Entry, 0, n)
	for i := len(m.entries) - 1; i >= 0 && len(out) < n; i-- {
		cp := *m.entries[i]
		out = append(out, &cp)
	}
	return out, nil
}

// Clear removes every entry.
func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = nil
	m.byID = make(map[string]*Entry)
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
