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

// Load builds a Config by layering defaults, an optional YAML file, and
// environment variables. Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if INSIGHTHIRE_CONFIG is set
//  3. env (prefix INSIGHTHIRE_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("INSIGHTHIRE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: INSIGHTHIRE_PORT, INSIGHTHIRE_JWT_SECRET, ...
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("INSIGHTHIRE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "insighthire_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.Port == "" {
		return nil, errors.New("port must not be empty")
	}
	if cfg.DataDir == "" {
		return nil, errors.New("data_dir must not be empty")
	}
	return &cfg, nil
}
