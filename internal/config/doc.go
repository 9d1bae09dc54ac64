// Package config provides loading and environment overlay for stow
// configuration. It exposes a Default() baseline, JSON file loading, a
// STOW_* environment overlay, and the OS-appropriate default data
// directory for the persisted collections.
//
// Example:
//
//	cfg := config.Default()
//	config.FromEnv(&cfg)
//	if cfg.DataDir == "" {
//		cfg.DataDir = config.DefaultDataDir()
//	}
package config
