package config

import (
	"os"
	"strconv"
)

// FromEnv overlays STOW_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("STOW_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("STOW_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Capacity = n
		}
	}
	if v := os.Getenv("STOW_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("STOW_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}
