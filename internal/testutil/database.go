// Package testutil provides test helpers shared across packages: an
// in-memory snapshot store, a SQLite-backed store, a controllable clock and
// deterministic ids.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/storage"
	"github.com/Veraticus/expense-tracker/internal/store"
)

// MemorySnapshots is an in-memory service.SnapshotStore. Setting SaveErr or
// LoadErr makes the corresponding call fail.
type MemorySnapshots struct {
	SaveErr error
	LoadErr error
	data    map[string][]byte
	saves   int
	mu      sync.Mutex
}

// NewMemorySnapshots returns an empty in-memory snapshot store.
func NewMemorySnapshots() *MemorySnapshots {
	return &MemorySnapshots{data: make(map[string][]byte)}
}

// LoadSnapshot returns a copy of the named snapshot.
func (m *MemorySnapshots) LoadSnapshot(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	data, ok := m.data[name]
	if !ok {
		return nil, fmt.Errorf("snapshot %s: %w", name, common.ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

// SaveSnapshot stores a copy of data under name.
func (m *MemorySnapshots) SaveSnapshot(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.data[name] = append([]byte(nil), data...)
	m.saves++
	return nil
}

// Put seeds a snapshot directly.
func (m *MemorySnapshots) Put(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[name] = append([]byte(nil), data...)
}

// Get returns the stored snapshot, or nil.
func (m *MemorySnapshots) Get(name string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[name]
}

// Saves reports how many successful writes happened.
func (m *MemorySnapshots) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// FailSaves makes subsequent saves fail with err; nil restores them.
func (m *MemorySnapshots) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveErr = err
}

// Clock is a manually advanced time source.
type Clock struct {
	now time.Time
	mu  sync.Mutex
}

// NewClock returns a clock stopped at now.
func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

// Now returns the clock's current time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// AddDays advances the clock by n calendar days.
func (c *Clock) AddDays(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.AddDate(0, 0, n)
}

// SequentialIDs returns a generator producing prefix-1, prefix-2, ...
func SequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// NewStore returns a hydrated store over an in-memory snapshot store with a
// fixed clock and sequential ids.
func NewStore(t *testing.T, now time.Time) (*store.Store, *MemorySnapshots, *Clock) {
	t.Helper()

	snaps := NewMemorySnapshots()
	clock := NewClock(now)
	s := store.New(snaps,
		store.WithClock(clock.Now),
		store.WithIDGenerator(SequentialIDs("id")),
	)
	if err := s.Hydrate(context.Background()); err != nil {
		t.Fatalf("failed to hydrate store: %v", err)
	}
	return s, snaps, clock
}

// SetupTestDB opens a migrated SQLite database in a temporary directory.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	db, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "expenses.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}
