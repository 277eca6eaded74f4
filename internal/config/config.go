// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New; Load layers an optional YAML file and env vars.
// - External errors are wrapped via this package's sentinel kinds.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8090".
	Addr string `koanf:"addr"`

	// ScoringWorkers sets the number of concurrent scoring workers per
	// calculate run. 1 scores sequentially.
	ScoringWorkers int `koanf:"scoring_workers"`

	// MaxTopLimit caps GET /animals/top?limit.
	MaxTopLimit int `koanf:"max_top_limit"`

	// RubricPath optionally points at a YAML rubric loaded at startup in
	// place of the built-in default.
	RubricPath string `koanf:"rubric_path"`

	// RubricDBPath is the sqlite file for saved rubrics. Empty disables
	// the saved-rubric endpoints.
	RubricDBPath string `koanf:"rubric_db_path"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":8090",
		ScoringWorkers: runtime.NumCPU(),
		MaxTopLimit:    500,
		RubricDBPath:   "flockmark.db",
	}
}
