// Package config loads site-glue settings from defaults, an optional YAML
// file, SITE_GLUE_* environment variables and command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// FileName is the config file looked up in the working directory.
const FileName = "site-glue.yaml"

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "SITE_GLUE_"

// DefaultSession is the session used when none is configured.
const DefaultSession = "default"

// Config holds all settings.
type Config struct {
	Endpoint       string        `koanf:"endpoint"`
	Token          string        `koanf:"token"`
	DBPath         string        `koanf:"db"`
	Session        string        `koanf:"session"`
	PostCollection string        `koanf:"post_collection"`
	Timeout        time.Duration `koanf:"timeout"`
	Verbose        bool          `koanf:"verbose"`
	Format         string        `koanf:"format"`
}

// DefaultDBPath returns ~/.site-glue/site.db.
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".site-glue", "site.db")
}

// Load merges, lowest priority first: defaults, the config file (cfgFile, or
// FileName when present), environment and explicitly set flags.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"db":      DefaultDBPath(),
		"session": DefaultSession,
		"timeout": "30s",
		"verbose": false,
		"format":  "json",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if cfgFile == "" {
		if _, err := os.Stat(FileName); err == nil {
			cfgFile = FileName
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", cfgFile, err)
		}
	}

	// SITE_GLUE_POST_COLLECTION -> post_collection
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that have a fixed set of values.
func (c *Config) Validate() error {
	switch c.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("invalid format %q (use json or yaml)", c.Format)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout %s", c.Timeout)
	}
	return nil
}
