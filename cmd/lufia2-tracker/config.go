// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lufia 2 Tracker Contributors

package main

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/RndmMeme/lufia2-tracker/internal/xdg"
)

// Config holds the tracker's runtime configuration.
type Config struct {
	DataDir  string    `koanf:"data_dir"`
	SavePath string    `koanf:"save_path"`
	Log      LogConfig `koanf:"log"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// loadConfig layers configuration sources: YAML file first, then any
// flags the user actually set. Flag defaults fill remaining gaps, so
// the zero Config never survives unmarshalling.
func loadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		if _, err := os.Stat(xdg.DefaultConfigPath()); err == nil {
			path = xdg.DefaultConfigPath()
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.
				Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrapf(err, "loading config file")
		}
	}

	if flags != nil {
		err := k.Load(posflag.ProviderWithValue(flags, ".", k, flagToKey), nil)
		if err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").Wrapf(err, "loading flags")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").Wrapf(err, "unmarshalling config")
	}
	return &cfg, nil
}

// flagToKey maps flag names onto config keys: log-* flags address the
// nested log section, everything else swaps dashes for underscores.
func flagToKey(key string, value string) (string, any) {
	if rest, ok := strings.CutPrefix(key, "log-"); ok {
		return "log." + rest, value
	}
	return strings.ReplaceAll(key, "-", "_"), value
}
