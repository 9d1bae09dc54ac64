// Package store implements stow's bounded persistent event store.
//
// # Overview
//
// Two independent collections live side by side in one app-private data
// directory, selected by Identity:
//   - Primary ("stow.PersistedEvents"): buffered application events.
//   - Monitor ("stow.MonitorPersistedEvents"): internal monitoring events.
//
// Files carry a magic/version header followed by CRC-framed JSON records:
//
//	STOW | 0x01 | { varint len | payload | crc32c(payload) }*
//
// A Manager serializes each identity's read-merge-trim-write cycle under a
// per-identity mutex and enforces a hard capacity bound with FIFO eviction:
// the newest Capacity records survive, the rest are dropped and counted in a
// shared process-lifetime counter surfaced through EventsDumped
// notifications.
//
// API surface (internal)
//
//	m, _ := NewManager(Options{DataDir: dir, Capacity: 500})
//	_ = m.Persist(Primary, events)   // merge, trim, atomic rewrite
//	evs := m.Retrieve(Primary)       // ordered, oldest first
//	n := m.Count(Primary)            // authoritative, ignores skip cache
//	m.Clear(Primary)                 // best-effort delete, notifies observers
//
// Retrieve consults a per-identity skip flag recording that the file is
// known absent, so a cleared store answers empty without disk I/O until the
// next successful write. Count deliberately bypasses the flag.
//
// # Failure recovery
//
// Nothing here is fatal. Corrupt files are reported, deleted, and read as
// empty; write failures abandon the in-memory attempt and keep the previous
// file; failed deletes leave the skip flag unset so reads stay truthful.
//
// # Instrumentation
//
// Instrumented wraps a Manager and emits one synthetic monitor event
// (timestamp, latency_ms, size) per primary-store read or write into the
// monitor store. Monitor-store traffic is never instrumented, which keeps
// the feedback loop from recursing.
package store
