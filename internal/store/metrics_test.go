package store

import (
	"os"
	"testing"
	"time"

	"github.com/rzbill/stow/internal/event"
)

// fakeClock advances a fixed step on every Now call, making latency math
// deterministic.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func newFakeClock(step time.Duration) *fakeClock {
	return &fakeClock{now: time.UnixMilli(1_700_000_000_000), step: step}
}

func (c *fakeClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func newInstrumented(t *testing.T, capacity int) (*Instrumented, *Manager) {
	t.Helper()
	m, _ := newTestManager(t, capacity)
	return NewInstrumented(m, newFakeClock(5*time.Millisecond)), m
}

func monitorEvents(t *testing.T, m *Manager) []event.Event {
	t.Helper()
	return m.Retrieve(Monitor)
}

func TestPersistEmitsWriteMetric(t *testing.T) {
	s, m := newInstrumented(t, 10)
	if err := s.Persist(Primary, named("a", "b")); err != nil {
		t.Fatalf("persist: %v", err)
	}

	mons := monitorEvents(t, m)
	if len(mons) != 1 {
		t.Fatalf("expected one monitor event, got %d", len(mons))
	}
	ev := mons[0]
	if ev.Name != MonitorEventWrite {
		t.Fatalf("expected %q, got %q", MonitorEventWrite, ev.Name)
	}
	if ev.Kind != event.KindMonitor {
		t.Fatalf("expected monitor kind, got %q", ev.Kind)
	}
	// props decode as float64 after the JSON round trip
	if got := ev.Props["latency_ms"].(float64); got != 5 {
		t.Fatalf("expected latency 5ms, got %v", got)
	}
	if got := ev.Props["size"].(float64); got != 2 {
		t.Fatalf("expected resulting size 2, got %v", got)
	}
	if ev.TimestampMs == 0 {
		t.Fatalf("expected clock timestamp on monitor event")
	}
}

func TestRetrieveEmitsReadMetric(t *testing.T) {
	s, m := newInstrumented(t, 10)

	// skip flag unset at start, so even an absent file is a real read
	if got := s.Retrieve(Primary); len(got) != 0 {
		t.Fatalf("expected empty primary, got %d", len(got))
	}
	mons := monitorEvents(t, m)
	if len(mons) != 1 {
		t.Fatalf("expected one monitor event, got %d", len(mons))
	}
	if mons[0].Name != MonitorEventRead {
		t.Fatalf("expected %q, got %q", MonitorEventRead, mons[0].Name)
	}
	if got := mons[0].Props["size"].(float64); got != 0 {
		t.Fatalf("expected size 0, got %v", got)
	}
}

func TestSkippedRetrieveEmitsNothing(t *testing.T) {
	s, m := newInstrumented(t, 10)
	s.Clear(Primary)

	if got := s.Retrieve(Primary); len(got) != 0 {
		t.Fatalf("expected empty, got %d", len(got))
	}
	if mons := monitorEvents(t, m); len(mons) != 0 {
		t.Fatalf("skipped read must not emit metrics, got %d", len(mons))
	}
}

func TestMonitorOperationsNotInstrumented(t *testing.T) {
	s, m := newInstrumented(t, 10)

	if err := s.Persist(Monitor, named("mon")); err != nil {
		t.Fatalf("persist: %v", err)
	}
	_ = s.Retrieve(Monitor)
	_ = s.Retrieve(Monitor)

	mons := monitorEvents(t, m)
	if len(mons) != 1 || mons[0].Name != "mon" {
		t.Fatalf("expected only the explicit monitor event, got %v", namesOf(mons))
	}
}

func TestFailedPersistEmitsNoWriteMetric(t *testing.T) {
	s, m := newInstrumented(t, 10)

	// A directory at the primary path forces the rename to fail.
	if err := os.Mkdir(m.Path(Primary), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(m.Path(Primary)+"/child", []byte("x"), 0o644); err != nil {
		t.Fatalf("write child: %v", err)
	}

	if err := s.Persist(Primary, named("a")); err == nil {
		t.Fatalf("expected persist failure")
	}
	if mons := monitorEvents(t, m); len(mons) != 0 {
		t.Fatalf("failed write must not emit metrics, got %d", len(mons))
	}
}

func TestEmptyPersistNotInstrumented(t *testing.T) {
	s, m := newInstrumented(t, 10)
	if err := s.Persist(Primary, nil); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if mons := monitorEvents(t, m); len(mons) != 0 {
		t.Fatalf("empty persist must not emit metrics, got %d", len(mons))
	}
}

func TestInstrumentedDelegates(t *testing.T) {
	s, m := newInstrumented(t, 3)
	if err := s.Persist(Primary, named("a", "b", "c", "d")); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if s.Dropped() != 1 {
		t.Fatalf("expected 1 dropped via facade, got %d", s.Dropped())
	}
	if n := s.Count(Primary); n != 3 {
		t.Fatalf("expected count 3 via facade, got %d", n)
	}
	if s.Manager() != m {
		t.Fatalf("expected facade to expose wrapped manager")
	}
}
