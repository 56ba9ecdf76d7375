// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lufia 2 Tracker Contributors

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetCommand_WritesEmptySnapshot(t *testing.T) {
	savePath := filepath.Join(t.TempDir(), "state", "session.json")

	configFile = ""
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"reset", "--save-path", savePath})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), savePath)

	data, err := os.ReadFile(savePath)
	require.NoError(t, err)

	var snapshot map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &snapshot))

	for _, field := range []string{"inventory", "locations", "characters", "hints"} {
		assert.Contains(t, snapshot, field)
	}
	assert.JSONEq(t, "{}", string(snapshot["inventory"]))
	assert.JSONEq(t, "{}", string(snapshot["locations"]))
}

func TestResetCommand_OverwritesExistingSnapshot(t *testing.T) {
	savePath := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(savePath, []byte(`{"inventory":{"Bomb":true}}`), 0o644))

	configFile = ""
	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{"reset", "--save-path", savePath})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(savePath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Bomb")
}
