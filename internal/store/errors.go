package store

import (
	logpkg "github.com/rzbill/stow/pkg/log"
)

// FailureKind classifies the non-fatal failures the store recovers from.
// An absent file is not a failure; it reads as an empty collection.
type FailureKind int

const (
	// SerializationFailure covers unreadable or corrupt data on read.
	// Recovery deletes the offending file and returns an empty collection.
	SerializationFailure FailureKind = iota
	// WriteFailure covers encode or disk errors while persisting. The
	// in-memory attempt is abandoned; prior on-disk state is left alone.
	WriteFailure
	// DeleteFailure covers a best-effort delete that left the file behind.
	DeleteFailure
)

func (k FailureKind) String() string {
	switch k {
	case SerializationFailure:
		return "serialization_failure"
	case WriteFailure:
		return "write_failure"
	case DeleteFailure:
		return "delete_failure"
	default:
		return "unknown"
	}
}

// Reporter is the external error sink. Every recovered failure is reported
// exactly where it was handled; none propagates as a panic or fatal.
type Reporter interface {
	Report(kind FailureKind, origin, message string, err error)
}

// logReporter is the default sink: structured error logs.
type logReporter struct {
	logger logpkg.Logger
}

func (r logReporter) Report(kind FailureKind, origin, message string, err error) {
	r.logger.Error(message,
		logpkg.F("kind", kind.String()),
		logpkg.F("origin", origin),
		logpkg.Err(err),
	)
}
