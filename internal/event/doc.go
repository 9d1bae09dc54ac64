// Package event defines the telemetry record persisted by the store.
//
// Records are deliberately open-ended: a name, a kind tag, a millisecond
// timestamp, and a free-form property map. Validation of names and property
// schemas belongs to producers; the store layer only needs a serializable
// value it can order and count.
package event
