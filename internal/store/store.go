package store

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rzbill/stow/internal/event"
	logpkg "github.com/rzbill/stow/pkg/log"
)

// DefaultCapacity is the maximum retained event count per identity.
const DefaultCapacity = 500

// Observer receives synchronous notifications after store mutations.
// Callbacks run on the mutating goroutine and must not call back into the
// same identity's store operations.
type Observer interface {
	// CollectionUpdated fires after Clear removes an identity's collection.
	CollectionUpdated(i Identity)
	// EventsDumped fires whenever a trim evicts at least one record,
	// carrying the cumulative process-lifetime drop count.
	EventsDumped(total uint64)
}

// Options configures a Manager.
type Options struct {
	// DataDir is the app-private directory holding both collection files.
	DataDir string
	// Capacity bounds retained events per identity. Defaults to
	// DefaultCapacity when zero or negative.
	Capacity int
	// Reporter receives recovered failures. Defaults to a log-backed sink.
	Reporter Reporter
	// Logger is used by the default reporter and for debug traces.
	Logger logpkg.Logger
}

// Manager owns both bounded persistent collections. All operations are safe
// for concurrent use; each identity serializes its own read-merge-trim-write
// cycle under a dedicated mutex, so primary and monitor traffic never block
// each other.
type Manager struct {
	dataDir  string
	capacity int
	reporter Reporter
	logger   logpkg.Logger

	states  [identityCount]identityState
	dropped atomic.Uint64

	obsMu     sync.RWMutex
	observers []Observer
}

// identityState is the per-identity mutual-exclusion domain: the file lock
// plus the skip flag it guards.
type identityState struct {
	mu sync.Mutex
	// skip records that the file is known absent, letting Retrieve answer
	// empty without touching disk. Only set once a delete is confirmed.
	skip bool
}

// NewManager creates the data directory if needed and returns a Manager.
func NewManager(opts Options) (*Manager, error) {
	if opts.DataDir == "" {
		return nil, errors.New("store: Options.DataDir is required")
	}
	if err := os.MkdirAll(opts.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewLogger(logpkg.WithLevel(logpkg.InfoLevel))
	}
	logger = logger.With(logpkg.F("component", "store"))
	reporter := opts.Reporter
	if reporter == nil {
		reporter = logReporter{logger: logger}
	}
	return &Manager{
		dataDir:  opts.DataDir,
		capacity: capacity,
		reporter: reporter,
		logger:   logger,
	}, nil
}

// Subscribe registers an observer for mutation notifications.
func (m *Manager) Subscribe(o Observer) {
	m.obsMu.Lock()
	m.observers = append(m.observers, o)
	m.obsMu.Unlock()
}

// Dropped returns the cumulative count of events evicted by trims across
// both identities since process start.
func (m *Manager) Dropped() uint64 { return m.dropped.Load() }

// Capacity returns the per-identity retained-event bound.
func (m *Manager) Capacity() int { return m.capacity }

// Path returns the collection file path for an identity.
func (m *Manager) Path(i Identity) string { return PathFor(m.dataDir, i) }

// Clear removes the identity's collection file. A missing file is success.
// The skip flag is set only when the file is confirmed gone; a failed delete
// leaves it unset so the next read still consults disk.
func (m *Manager) Clear(i Identity) {
	st := &m.states[i]
	st.mu.Lock()
	err := os.Remove(m.Path(i))
	if err == nil || os.IsNotExist(err) {
		st.skip = true
	} else {
		m.reporter.Report(DeleteFailure, "store.Clear",
			fmt.Sprintf("failed to delete %s collection", i), err)
	}
	st.mu.Unlock()

	m.notifyUpdated(i)
}

// Persist appends events to the identity's collection, trimming the oldest
// records once the merged collection exceeds capacity. An empty batch is a
// no-op that touches neither disk nor the skip flag. The returned error is
// informational; the failure has already been reported and the prior on-disk
// state preserved where possible.
func (m *Manager) Persist(i Identity, events []event.Event) error {
	_, err := m.persist(i, events)
	return err
}

// persist is Persist plus the resulting collection size, for instrumentation.
func (m *Manager) persist(i Identity, events []event.Event) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	st := &m.states[i]
	st.mu.Lock()
	defer st.mu.Unlock()

	existing, _ := m.readLocked(i, true)
	merged := append(existing, events...)

	// Trim now, but count and announce the drops only once the trimmed
	// collection is durably on disk; an abandoned write drops nothing.
	evicted := len(merged) - m.capacity
	if evicted > 0 {
		merged = merged[evicted:]
	}

	data, err := encodeEvents(merged)
	if err != nil {
		st.skip = false
		m.reporter.Report(WriteFailure, "store.Persist",
			fmt.Sprintf("failed to encode %s collection", i), err)
		return 0, fmt.Errorf("store: encode %s: %w", i, err)
	}
	if err := m.writeAtomic(i, data); err != nil {
		st.skip = false
		m.reporter.Report(WriteFailure, "store.Persist",
			fmt.Sprintf("failed to write %s collection", i), err)
		return 0, fmt.Errorf("store: write %s: %w", i, err)
	}

	st.skip = false

	if evicted > 0 {
		total := m.dropped.Add(uint64(evicted))
		m.logger.Warn("evicted oldest events over capacity",
			logpkg.F("identity", i.String()),
			logpkg.F("evicted", evicted),
			logpkg.F("total_dropped", total),
		)
		m.notifyDumped(total)
	}
	return len(merged), nil
}

// Retrieve returns the identity's ordered collection, oldest first. A known
// empty store answers without disk I/O. Corrupt data is reported, the file
// deleted, and an empty collection returned.
func (m *Manager) Retrieve(i Identity) []event.Event {
	events, _ := m.retrieve(i)
	return events
}

// retrieve is Retrieve plus whether the skip flag short-circuited the read.
func (m *Manager) retrieve(i Identity) ([]event.Event, bool) {
	st := &m.states[i]
	st.mu.Lock()
	defer st.mu.Unlock()
	return m.readLocked(i, true)
}

// Count returns the authoritative on-disk size of the identity's collection.
// It never honors the skip flag: callers get a ground-truth answer even when
// the optimization believes the store is empty. Returns 0 on any failure.
func (m *Manager) Count(i Identity) int {
	st := &m.states[i]
	st.mu.Lock()
	defer st.mu.Unlock()
	events, _ := m.readLocked(i, false)
	return len(events)
}

// readLocked reads and decodes the identity's file. Caller holds the
// identity lock. When honorSkip is set and the skip flag is true, it answers
// empty without touching disk and reports skipped=true. Corruption recovers
// by deleting the file, matching Clear's semantics without a notification.
func (m *Manager) readLocked(i Identity, honorSkip bool) (events []event.Event, skipped bool) {
	st := &m.states[i]
	if honorSkip && st.skip {
		return nil, true
	}

	data, err := os.ReadFile(m.Path(i))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false
		}
		m.reporter.Report(SerializationFailure, "store.read",
			fmt.Sprintf("failed to read %s collection", i), err)
		return nil, false
	}

	events, err = decodeEvents(data)
	if err != nil {
		m.reporter.Report(SerializationFailure, "store.read",
			fmt.Sprintf("corrupt %s collection, discarding", i), err)
		_ = os.Remove(m.Path(i))
		return nil, false
	}
	return events, false
}

// writeAtomic replaces the identity's file via temp-file rename so readers
// never observe a half-written collection.
func (m *Manager) writeAtomic(i Identity, data []byte) error {
	tmp, err := os.CreateTemp(m.dataDir, i.FileName()+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, m.Path(i)); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func (m *Manager) notifyUpdated(i Identity) {
	m.obsMu.RLock()
	obs := m.observers
	m.obsMu.RUnlock()
	for _, o := range obs {
		o.CollectionUpdated(i)
	}
}

func (m *Manager) notifyDumped(total uint64) {
	m.obsMu.RLock()
	obs := m.observers
	m.obsMu.RUnlock()
	for _, o := range obs {
		o.EventsDumped(total)
	}
}
