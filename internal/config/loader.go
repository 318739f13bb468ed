package config

import (
	"errors"
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
//  2. file (YAML) if MAINSTAGE_CONFIG is set
//  3. env (prefix MAINSTAGE_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("MAINSTAGE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: MAINSTAGE_ADDR, MAINSTAGE_DB_PATH, ...
	// Map env keys like MAINSTAGE_DB_PATH -> db_path (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("MAINSTAGE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "mainstage_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if len(cfg.CSRFKey) != 32 {
		return nil, errors.New("csrf_key must be exactly 32 bytes")
	}
	if cfg.SessionTTLMinutes <= 0 {
		return nil, errors.New("session_ttl_minutes must be positive")
	}
	return &cfg, nil
}
