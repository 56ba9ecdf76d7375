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

func runTracker(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configFile = ""
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestResolveCommand_FreshSession(t *testing.T) {
	dataDir := writeDataDir(t)
	savePath := filepath.Join(t.TempDir(), "session.json")

	out, err := runTracker(t, "resolve", "--data-dir", dataDir, "--save-path", savePath)
	require.NoError(t, err)

	// No items collected: the gated dungeon is out of reach and lists
	// what would open it.
	assert.Contains(t, out, "Alunze Caves")
	assert.Contains(t, out, "not_accessible")
	assert.Contains(t, out, "requires: Bomb")

	// Cities and the always-open starter area never gate.
	assert.Contains(t, out, "Elcid")
	assert.Contains(t, out, "city")
	assert.Contains(t, out, "Foomy Woods")
}

func TestResolveCommand_InventoryUnlocks(t *testing.T) {
	dataDir := writeDataDir(t)
	savePath := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(savePath, []byte(`{"inventory":{"Bomb":true,"Hook":true}}`), 0o644))

	out, err := runTracker(t, "resolve", "--data-dir", dataDir, "--save-path", savePath)
	require.NoError(t, err)

	assert.Contains(t, out, "Treasure Sword Shrine")
	assert.NotContains(t, out, "requires:")
}

func TestResolveCommand_ManualOverrideWins(t *testing.T) {
	dataDir := writeDataDir(t)
	savePath := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(savePath,
		[]byte(`{"location_overrides":{"Alunze Caves":"cleared"}}`), 0o644))

	out, err := runTracker(t, "resolve", "--data-dir", dataDir, "--save-path", savePath)
	require.NoError(t, err)

	assert.Contains(t, out, "cleared")
	assert.NotContains(t, out, "requires: Bomb")
}

func TestResolveCommand_NoSnapshotIsFine(t *testing.T) {
	dataDir := writeDataDir(t)

	_, err := runTracker(t, "resolve",
		"--data-dir", dataDir,
		"--save-path", filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
}
