package store

import (
	"time"

	"github.com/rzbill/stow/internal/event"
)

// Monitor event names emitted by the instrumented store.
const (
	MonitorEventRead  = "stow_store_read"
	MonitorEventWrite = "stow_store_write"
)

// Clock supplies timestamps for latency measurement. Injectable for tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall-clock Clock.
func SystemClock() Clock { return systemClock{} }

// Instrumented wraps a Manager and times primary-store reads and writes,
// feeding one synthetic monitor event per observed operation back into the
// monitor store. Monitor-identity operations pass through untimed so the
// instrumentation can never recurse into itself. Metrics writes are fire and
// forget: their failures go through the manager's normal reporting path and
// never affect the wrapped call's outcome.
type Instrumented struct {
	inner *Manager
	clock Clock
}

// NewInstrumented wraps m. A nil clock selects the system clock.
func NewInstrumented(m *Manager, clock Clock) *Instrumented {
	if clock == nil {
		clock = systemClock{}
	}
	return &Instrumented{inner: m, clock: clock}
}

// Manager exposes the wrapped store for callers needing the raw surface.
func (s *Instrumented) Manager() *Manager { return s.inner }

// Retrieve times primary reads that actually hit disk. Skipped reads (the
// store is known empty) emit nothing.
func (s *Instrumented) Retrieve(i Identity) []event.Event {
	if i != Primary {
		return s.inner.Retrieve(i)
	}
	start := s.clock.Now()
	events, skipped := s.inner.retrieve(i)
	end := s.clock.Now()
	if !skipped {
		s.emit(MonitorEventRead, start, end, len(events))
	}
	return events
}

// Persist times primary writes, emitting a metric only when the underlying
// write succeeded.
func (s *Instrumented) Persist(i Identity, events []event.Event) error {
	if i != Primary {
		return s.inner.Persist(i, events)
	}
	if len(events) == 0 {
		return nil
	}
	start := s.clock.Now()
	size, err := s.inner.persist(i, events)
	end := s.clock.Now()
	if err == nil {
		s.emit(MonitorEventWrite, start, end, size)
	}
	return err
}

// Count delegates; sizing probes are not instrumented.
func (s *Instrumented) Count(i Identity) int { return s.inner.Count(i) }

// Clear delegates; deletes are not instrumented.
func (s *Instrumented) Clear(i Identity) { s.inner.Clear(i) }

// Dropped delegates to the wrapped manager's eviction counter.
func (s *Instrumented) Dropped() uint64 { return s.inner.Dropped() }

// Subscribe delegates observer registration to the wrapped manager.
func (s *Instrumented) Subscribe(o Observer) { s.inner.Subscribe(o) }

func (s *Instrumented) emit(name string, start, end time.Time, size int) {
	ev := event.NewMonitor(name, end.UnixMilli(), map[string]any{
		"latency_ms": end.Sub(start).Milliseconds(),
		"size":       size,
	})
	_ = s.inner.Persist(Monitor, []event.Event{ev})
}
