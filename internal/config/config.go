// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load() layers defaults, optional YAML file, and env vars.
// - External errors must be wrapped via this package's error kinds.
package config

import (
	"github.com/okian/stride/internal/domain/scoring"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CatalogPath points at the JSON catalog produced by the scraper.
	CatalogPath string `koanf:"catalog_path"`

	// DefaultResults is the shortlist length when the caller gives none;
	// MaxResults caps the caller-supplied limit.
	DefaultResults int `koanf:"default_results"`
	MaxResults     int `koanf:"max_results"`

	// Weights are the scoring sub-score weights; they must sum to 1.
	Weights scoring.Weights `koanf:"weights"`

	// OllamaHost and OllamaModel locate the local language model used
	// for free-text explanations.
	OllamaHost  string `koanf:"ollama_host"`
	OllamaModel string `koanf:"ollama_model"`

	// ExplainTimeoutMS bounds each explanation call; the ranked result
	// never waits longer than this on the model.
	ExplainTimeoutMS int `koanf:"explain_timeout_ms"`

	// ExplainConcurrency bounds the per-request explanation fan-out.
	ExplainConcurrency int `koanf:"explain_concurrency"`

	// ExplainCacheSize bounds the in-memory explanation cache.
	ExplainCacheSize int `koanf:"explain_cache_size"`

	// ExplainEnabled turns the explainer off entirely (rule-based
	// reasons are always produced).
	ExplainEnabled bool `koanf:"explain_enabled"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":8000",
		CatalogPath:        "catalog.json",
		DefaultResults:     5,
		MaxResults:         20,
		Weights:            scoring.DefaultWeights(),
		OllamaHost:         "http://localhost:11434",
		OllamaModel:        "llama3.1",
		ExplainTimeoutMS:   30_000,
		ExplainConcurrency: 4,
		ExplainCacheSize:   4096,
		ExplainEnabled:     true,
	}
}
