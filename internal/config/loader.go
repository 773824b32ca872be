package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if STRIDE_CONFIG is set
//  3. env (prefix STRIDE_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("STRIDE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: STRIDE_ADDR, STRIDE_CATALOG_PATH, ...
	// Keys keep their underscores to match the koanf struct tags.
	envProvider := env.Provider("STRIDE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "stride_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate enforces the invariants the rest of the service relies on.
func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.CatalogPath == "":
		return fmt.Errorf("%w: catalog_path must not be empty", ErrInvalidConfig)
	case c.DefaultResults < 1:
		return fmt.Errorf("%w: default_results must be at least 1", ErrInvalidConfig)
	case c.MaxResults < c.DefaultResults:
		return fmt.Errorf("%w: max_results must be >= default_results", ErrInvalidConfig)
	case !c.Weights.Valid():
		return fmt.Errorf("%w: weights must be non-negative and sum to 1", ErrInvalidConfig)
	case c.ExplainTimeoutMS < 1:
		return fmt.Errorf("%w: explain_timeout_ms must be positive", ErrInvalidConfig)
	case c.ExplainConcurrency < 1:
		return fmt.Errorf("%w: explain_concurrency must be positive", ErrInvalidConfig)
	}
	return nil
}
