// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lufia 2 Tracker Contributors

package main

import (
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/RndmMeme/lufia2-tracker/internal/logging"
	"github.com/RndmMeme/lufia2-tracker/internal/tracker"
	"github.com/RndmMeme/lufia2-tracker/internal/xdg"
)

// NewResetCmd creates the reset subcommand.
func NewResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Wipe the session snapshot back to an empty state",
		Long: `Overwrites the session snapshot file with an empty session. The
reference data directory is left untouched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReset(cmd)
		},
	}
}

func runReset(cmd *cobra.Command) error {
	cfg, err := loadConfig(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	logging.SetDefault("lufia2-tracker", version, cfg.Log.Format, cfg.Log.Level)

	if err := xdg.EnsureDir(filepath.Dir(cfg.SavePath)); err != nil {
		return err
	}

	store := tracker.NewStore(nil, nil, slog.Default())
	if err := store.SaveState(cfg.SavePath); err != nil {
		return err
	}

	cmd.Println("session snapshot reset:", cfg.SavePath)
	return nil
}
