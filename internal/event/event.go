package event

import (
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes application analytics events from internal monitoring
// events. The store treats both as opaque; Kind exists for consumers.
type Kind string

const (
	KindEvent   Kind = "event"
	KindMonitor Kind = "monitor"
)

// Event is a single telemetry record. The persistence layer never inspects
// Name or Props; it only sequences and bounds whole records.
type Event struct {
	ID          string         `json:"id"`
	Kind        Kind           `json:"kind"`
	Name        string         `json:"name"`
	TimestampMs int64          `json:"ts_ms"`
	Props       map[string]any `json:"props,omitempty"`
}

// New builds an application event stamped with the current wall clock.
func New(name string, props map[string]any) Event {
	return Event{
		ID:          uuid.NewString(),
		Kind:        KindEvent,
		Name:        name,
		TimestampMs: time.Now().UnixMilli(),
		Props:       props,
	}
}

// NewMonitor builds an internal monitoring event at an explicit timestamp.
// Monitoring producers supply their own clock so latency math stays on a
// single time source.
func NewMonitor(name string, tsMs int64, props map[string]any) Event {
	return Event{
		ID:          uuid.NewString(),
		Kind:        KindMonitor,
		Name:        name,
		TimestampMs: tsMs,
		Props:       props,
	}
}
