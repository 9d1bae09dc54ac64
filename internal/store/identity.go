package store

import "path/filepath"

// Identity selects one of the two independent on-disk collections. Operations
// on one identity never touch the other identity's file or skip flag.
type Identity int

const (
	// Primary holds application analytics events.
	Primary Identity = iota
	// Monitor holds internal monitoring events, including the synthetic
	// latency events emitted by the instrumented store.
	Monitor
)

const identityCount = 2

func (i Identity) String() string {
	switch i {
	case Primary:
		return "primary"
	case Monitor:
		return "monitor"
	default:
		return "unknown"
	}
}

// FileName returns the fixed file name for the identity's collection.
func (i Identity) FileName() string {
	if i == Monitor {
		return "stow.MonitorPersistedEvents"
	}
	return "stow.PersistedEvents"
}

// PathFor resolves the absolute file path for an identity under dataDir.
func PathFor(dataDir string, i Identity) string {
	return filepath.Join(dataDir, i.FileName())
}

// Identities lists both store identities in a stable order.
func Identities() []Identity { return []Identity{Primary, Monitor} }
