// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lufia 2 Tracker Contributors

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	subcommands := []string{"resolve", "validate-data", "reset"}
	for _, sub := range subcommands {
		assert.Contains(t, output, sub, "Help missing %q command", sub)
	}
}

func TestRootCommand_ConfigFlag(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantFlag string
	}{
		{
			name:     "config flag",
			args:     []string{"--config", "/path/to/config.yaml", "--help"},
			wantFlag: "/path/to/config.yaml",
		},
		{
			name:     "config flag with equals",
			args:     []string{"--config=/etc/tracker.yaml", "--help"},
			wantFlag: "/etc/tracker.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset global between table entries.
			configFile = ""

			cmd := NewRootCmd()
			cmd.SetOut(new(bytes.Buffer))
			cmd.SetArgs(tt.args)

			require.NoError(t, cmd.Execute())
			assert.Equal(t, tt.wantFlag, configFile)
		})
	}
}

func TestRootCommand_Version(t *testing.T) {
	cmd := NewRootCmd()
	cmd.Version = "1.2.3 (commit: abc, built: today)"
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "1.2.3")
}

// writeDataDir lays out a minimal but complete reference data directory.
func writeDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"locations.json": `{
			"Elcid": [100, 200],
			"Alunze Caves": [300, 400],
			"Foomy Woods": [10, 20]
		}`,
		"locations_logic.json": `{
			"Alunze Caves": {"access_rules": [["Bomb"]]},
			"Treasure Sword Shrine": {"access_rules": ["Hook,Bomb"]}
		}`,
		"cities.json":      `["Elcid"]`,
		"items_spells.json": `{"items": ["Bomb", "Hook"]}`,
		"tool_items.json":  `["Hammer"]`,
		"characters.json":  `{"Maxim": {"image_path": "maxim.png"}}`,
		"location_name_mapping.json": `{"Alunze Caves": "alunze cave"}`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}
