package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// DataDir holds both persisted collections. Empty selects
	// DefaultDataDir at runtime.
	DataDir string `json:"dataDir"`
	// Capacity is the maximum retained event count per store identity.
	Capacity int `json:"capacity"`
	// LogLevel is one of debug, info, warn, error, fatal.
	LogLevel string `json:"logLevel"`
	// LogFormat is "text" or "json".
	LogFormat string `json:"logFormat"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		Capacity:  500,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads configuration from a JSON file. If path is empty, returns
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
