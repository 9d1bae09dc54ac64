package event

import "testing"

func TestNewAssignsIdentity(t *testing.T) {
	a := New("launch", map[string]any{"cold": true})
	b := New("launch", nil)
	if a.ID == "" || b.ID == "" {
		t.Fatalf("expected non-empty ids")
	}
	if a.ID == b.ID {
		t.Fatalf("expected distinct ids, got %s twice", a.ID)
	}
	if a.Kind != KindEvent {
		t.Fatalf("expected kind %q, got %q", KindEvent, a.Kind)
	}
	if a.TimestampMs == 0 {
		t.Fatalf("expected wall clock timestamp")
	}
}

func TestNewMonitorUsesCallerClock(t *testing.T) {
	ev := NewMonitor("store_read", 1234, map[string]any{"latency_ms": int64(7)})
	if ev.Kind != KindMonitor {
		t.Fatalf("expected kind %q, got %q", KindMonitor, ev.Kind)
	}
	if ev.TimestampMs != 1234 {
		t.Fatalf("expected caller timestamp preserved, got %d", ev.TimestampMs)
	}
}
