package runtime

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	cfgpkg "github.com/rzbill/stow/internal/config"
	"github.com/rzbill/stow/internal/store"
	logpkg "github.com/rzbill/stow/pkg/log"
)

// Options for building the Runtime.
type Options struct {
	// DataDir overrides Config.DataDir when non-empty.
	DataDir string
	Config  cfgpkg.Config
	// Logger defaults to a text console logger at Config.LogLevel.
	Logger logpkg.Logger
	// Clock feeds the store instrumentation. Nil selects the system clock.
	Clock store.Clock
	// Reporter overrides the default log-backed failure sink.
	Reporter store.Reporter
}

// Runtime wires config, logging, and the bounded event store for a single
// process.
type Runtime struct {
	config  cfgpkg.Config
	logger  logpkg.Logger
	manager *store.Manager
	store   *store.Instrumented
}

// Open initializes the store manager and its instrumented facade.
func Open(opts Options) (*Runtime, error) {
	cfg := opts.Config
	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = cfg.DataDir
	}
	if dataDir == "" {
		dataDir = cfgpkg.DefaultDataDir()
	}

	logger := opts.Logger
	if logger == nil {
		level, err := logpkg.ParseLevel(cfg.LogLevel)
		if err != nil {
			level = logpkg.InfoLevel
		}
		var formatter logpkg.Formatter = &logpkg.TextFormatter{}
		if cfg.LogFormat == "json" {
			formatter = &logpkg.JSONFormatter{}
		}
		logger = logpkg.NewLogger(
			logpkg.WithLevel(level),
			logpkg.WithFormatter(formatter),
			logpkg.WithOutput(logpkg.NewConsoleOutput()),
		)
	}

	manager, err := store.NewManager(store.Options{
		DataDir:  dataDir,
		Capacity: cfg.Capacity,
		Logger:   logger,
		Reporter: opts.Reporter,
	})
	if err != nil {
		return nil, err
	}

	rt := &Runtime{
		config:  cfg,
		logger:  logger,
		manager: manager,
		store:   store.NewInstrumented(manager, opts.Clock),
	}
	rt.logger.Debug("runtime open",
		logpkg.F("data_dir", dataDir),
		logpkg.F("capacity", manager.Capacity()),
	)
	return rt, nil
}

// Close releases runtime resources. The store holds no open handles between
// operations, so this only marks the lifecycle boundary.
func (r *Runtime) Close() error {
	if r == nil {
		return nil
	}
	r.logger.Debug("runtime close")
	return nil
}

// CheckHealth verifies the data directory is present and writable.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.manager == nil {
		return errors.New("store not open")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	probe := filepath.Join(filepath.Dir(r.manager.Path(store.Primary)), ".stow-health")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return err
	}
	return os.Remove(probe)
}

// Store returns the instrumented store facade. Primary-store reads and
// writes through it feed latency metrics into the monitor store.
func (r *Runtime) Store() *store.Instrumented { return r.store }

// Manager returns the raw store manager, bypassing instrumentation.
func (r *Runtime) Manager() *store.Manager { return r.manager }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }

// Logger returns the runtime logger.
func (r *Runtime) Logger() logpkg.Logger { return r.logger }
