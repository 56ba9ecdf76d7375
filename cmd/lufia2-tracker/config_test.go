// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lufia 2 Tracker Contributors

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("data-dir", "/default/data", "")
	fs.String("save-path", "/default/session.json", "")
	fs.String("log-format", "text", "")
	fs.String("log-level", "info", "")
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig("", newTestFlags())
	require.NoError(t, err)

	assert.Equal(t, "/default/data", cfg.DataDir)
	assert.Equal(t, "/default/session.json", cfg.SavePath)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: /from/file
log:
  format: json
`), 0o644))

	cfg, err := loadConfig(path, newTestFlags())
	require.NoError(t, err)

	assert.Equal(t, "/from/file", cfg.DataDir)
	assert.Equal(t, "json", cfg.Log.Format)
	// Untouched keys keep flag defaults.
	assert.Equal(t, "/default/session.json", cfg.SavePath)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_SetFlagBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: /from/file\nlog:\n  level: warn\n"), 0o644))

	fs := newTestFlags()
	require.NoError(t, fs.Parse([]string{"--data-dir", "/from/flag"}))

	cfg, err := loadConfig(path, fs)
	require.NoError(t, err)

	assert.Equal(t, "/from/flag", cfg.DataDir)
	// Flag left at default does not mask the file value.
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"), newTestFlags())
	require.Error(t, err)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n\t- not yaml"), 0o644))

	_, err := loadConfig(path, newTestFlags())
	require.Error(t, err)
}

func TestFlagToKey(t *testing.T) {
	tests := []struct {
		flag string
		want string
	}{
		{"data-dir", "data_dir"},
		{"save-path", "save_path"},
		{"log-format", "log.format"},
		{"log-level", "log.level"},
		{"config", "config"},
	}
	for _, tt := range tests {
		got, _ := flagToKey(tt.flag, "x")
		assert.Equal(t, tt.want, got, "flag %q", tt.flag)
	}
}
