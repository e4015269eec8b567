// Package store is the single mutable root of the application state. It
// hydrates from a persisted snapshot, applies every mutation as a whole-state
// copy-on-write replacement, keeps the user statistics and achievements in
// step with the entity collections, and persists after each commit.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/expense-tracker/internal/achievement"
	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/migration"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/service"
	"github.com/Veraticus/expense-tracker/internal/stats"
	"github.com/google/uuid"
)

// DefaultSnapshotName is the name the state is persisted under.
const DefaultSnapshotName = "app-storage"

// Event is delivered to subscribers after every successful commit.
type Event struct {
	Action   string
	Unlocked []model.Achievement
	State    State
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// WithIDGenerator overrides how entity ids are generated.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithSnapshotName overrides the snapshot name.
func WithSnapshotName(name string) Option {
	return func(s *Store) {
		s.name = name
	}
}

// Store holds the application state.
type Store struct {
	persister   service.SnapshotStore
	logger      *slog.Logger
	clock       func() time.Time
	newID       func() string
	ready       chan struct{}
	subscribers map[int]func(Event)
	name        string
	saved       []byte
	state       State
	mu          sync.RWMutex
	readyOnce   sync.Once
	nextSub     int
	hydrated    bool
}

// New creates a store backed by persister. It is not usable until Hydrate
// succeeds.
func New(persister service.SnapshotStore, opts ...Option) *Store {
	s := &Store{
		persister:   persister,
		name:        DefaultSnapshotName,
		clock:       time.Now,
		newID:       uuid.NewString,
		ready:       make(chan struct{}),
		subscribers: make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = common.OrDefault(s.logger)
	return s
}

// Hydrate loads the persisted snapshot, migrating it when needed, and marks
// the store ready. Calling it again reloads the state from storage.
func (s *Store) Hydrate(ctx context.Context) error {
	now := s.clock()

	data, err := s.persister.LoadSnapshot(ctx, s.name)
	fresh := errors.Is(err, common.ErrNotFound)
	if err != nil && !fresh {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	var st State
	migrated := false
	if fresh {
		st = freshState(now)
		migrated = true
		s.logger.Info("No saved state found, starting fresh", "snapshot", s.name)
	} else {
		snap, err := migration.Decode(data)
		if err != nil {
			return err
		}
		if migration.NeedsMigration(snap) {
			from := snap.Version
			snap = migration.Run(snap, now)
			migrated = true
			s.logger.Info("Migrated saved state",
				"from_version", from,
				"to_version", migration.CurrentVersion,
				"expenses", len(snap.Expenses))
		}
		st = fromSnapshot(snap)
	}

	if st.Chat.BotName == "" {
		st.Chat.BotName = model.DefaultBotName
	}
	st.Achievements = achievement.Initialize(st.Achievements)
	st.Stats = stats.Recompute(st.Stats, st.collections(), now)
	st.Achievements, _ = achievement.Check(st.Achievements, st.Stats, now)

	s.mu.Lock()
	if migrated {
		s.saved = nil
	} else {
		s.saved = data
	}
	if err := s.persist(ctx, st); err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = st
	s.hydrated = true
	s.mu.Unlock()

	s.readyOnce.Do(func() { close(s.ready) })
	s.logger.Debug("State hydrated",
		"expenses", len(st.Expenses),
		"categories", len(st.Categories),
		"goals", len(st.Goals))
	return nil
}

// Ready is closed once the first hydration completes.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// IsReady reports whether the store has been hydrated.
func (s *Store) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// State returns the current state. It fails with common.ErrNotReady before
// hydration.
func (s *Store) State() (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hydrated {
		return State{}, common.ErrNotReady
	}
	return s.state, nil
}

// Now returns the store's current time.
func (s *Store) Now() time.Time {
	return s.clock()
}

// Subscribe registers fn to be called after every commit. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

type mutation func(st *State, now time.Time) error

// commit applies mutate to a copy of the state, refreshes the derived
// statistics and achievements, persists the result and swaps it in. When
// mutate or persistence fails the current state is left untouched.
func (s *Store) commit(ctx context.Context, action string, mutate mutation) (State, error) {
	s.mu.Lock()
	if !s.hydrated {
		s.mu.Unlock()
		return State{}, common.ErrNotReady
	}

	now := s.clock()
	next := s.state.clone()
	if err := mutate(&next, now); err != nil {
		prev := s.state
		s.mu.Unlock()
		if common.IsPolicyViolation(err) {
			s.logger.Warn("Refused state change", "action", action, "error", err)
		}
		return prev, err
	}

	next.Stats = stats.Recompute(next.Stats, next.collections(), now)
	var unlocked []model.Achievement
	next.Achievements, unlocked = achievement.Check(next.Achievements, next.Stats, now)

	if err := s.persist(ctx, next); err != nil {
		prev := s.state
		s.mu.Unlock()
		s.logger.Error("Failed to persist state", "action", action, "error", err)
		return prev, err
	}

	s.state = next
	subs := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, a := range unlocked {
		s.logger.Info("Achievement unlocked", "id", a.ID, "title", a.Title)
	}
	ev := Event{Action: action, State: next, Unlocked: unlocked}
	for _, fn := range subs {
		fn(ev)
	}
	return next, nil
}

// persist writes the snapshot of st unless it matches what was last written.
// Callers hold s.mu or have exclusive access to the store.
func (s *Store) persist(ctx context.Context, st State) error {
	data, err := migration.Encode(st.snapshot())
	if err != nil {
		return err
	}
	if bytes.Equal(data, s.saved) {
		return nil
	}
	if err := s.persister.SaveSnapshot(ctx, s.name, data); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	s.saved = data
	return nil
}
