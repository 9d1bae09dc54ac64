package store

import (
	"path/filepath"
	"testing"
)

func TestIdentityNames(t *testing.T) {
	if Primary.String() != "primary" || Monitor.String() != "monitor" {
		t.Fatalf("identity names: %s %s", Primary, Monitor)
	}
	if Identity(42).String() != "unknown" {
		t.Fatalf("out-of-range identity should read unknown")
	}
}

func TestFileNamesAreDistinct(t *testing.T) {
	if Primary.FileName() == Monitor.FileName() {
		t.Fatalf("identities must map to distinct files")
	}
	if Primary.FileName() != "stow.PersistedEvents" {
		t.Fatalf("primary file name: %s", Primary.FileName())
	}
	if Monitor.FileName() != "stow.MonitorPersistedEvents" {
		t.Fatalf("monitor file name: %s", Monitor.FileName())
	}
}

func TestPathFor(t *testing.T) {
	got := PathFor("/data/stow", Monitor)
	want := filepath.Join("/data/stow", "stow.MonitorPersistedEvents")
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestIdentitiesOrder(t *testing.T) {
	ids := Identities()
	if len(ids) != identityCount || ids[0] != Primary || ids[1] != Monitor {
		t.Fatalf("unexpected identity order: %v", ids)
	}
}
