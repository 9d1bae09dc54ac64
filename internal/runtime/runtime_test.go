package runtime

import (
	"context"
	"testing"

	cfgpkg "github.com/rzbill/stow/internal/config"
	"github.com/rzbill/stow/internal/event"
	"github.com/rzbill/stow/internal/store"
	logpkg "github.com/rzbill/stow/pkg/log"
)

func openTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	cfg := cfgpkg.Default()
	cfg.Capacity = 8
	rt, err := Open(Options{
		DataDir: t.TempDir(),
		Config:  cfg,
		Logger:  logpkg.NewLogger(logpkg.WithLevel(logpkg.FatalLevel), logpkg.WithOutput(logpkg.NullOutput{})),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	return rt
}

func TestOpenAndHealth(t *testing.T) {
	rt := openTestRuntime(t)
	if err := rt.CheckHealth(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
}

func TestHealthHonorsContext(t *testing.T) {
	rt := openTestRuntime(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := rt.CheckHealth(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestStoreRoundTripThroughRuntime(t *testing.T) {
	rt := openTestRuntime(t)
	if err := rt.Store().Persist(store.Primary, []event.Event{event.New("launch", nil)}); err != nil {
		t.Fatalf("persist: %v", err)
	}
	evs := rt.Store().Retrieve(store.Primary)
	if len(evs) != 1 || evs[0].Name != "launch" {
		t.Fatalf("expected [launch], got %d events", len(evs))
	}
	// the instrumented facade fed metrics into the monitor store
	if n := rt.Manager().Count(store.Monitor); n == 0 {
		t.Fatalf("expected monitor events from instrumentation")
	}
}

func TestCapacityFlowsFromConfig(t *testing.T) {
	rt := openTestRuntime(t)
	if rt.Manager().Capacity() != 8 {
		t.Fatalf("expected capacity 8 from config, got %d", rt.Manager().Capacity())
	}
}
