// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lufia 2 Tracker Contributors

package main

import (
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RndmMeme/lufia2-tracker/internal/catalog"
	"github.com/RndmMeme/lufia2-tracker/internal/logging"
	"github.com/RndmMeme/lufia2-tracker/internal/logic"
	"github.com/RndmMeme/lufia2-tracker/internal/tracker"
)

// NewResolveCmd creates the resolve subcommand.
func NewResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Compute location accessibility for the current session",
		Long: `Loads the reference data and, when present, the session snapshot,
then prints every tracked location with its state. Locations that are
out of reach list the item combinations that would open them up.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(cmd)
		},
	}
}

func runResolve(cmd *cobra.Command) error {
	cfg, err := loadConfig(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	logging.SetDefault("lufia2-tracker", version, cfg.Log.Format, cfg.Log.Level)

	cat := catalog.New(cfg.DataDir, slog.Default())
	engine := logic.FromCatalog(cat)
	store := tracker.NewStore(cat, tracker.NewBroadcaster(), slog.Default())

	if _, err := os.Stat(cfg.SavePath); err == nil {
		if err := store.LoadState(cfg.SavePath); err != nil {
			return err
		}
	}

	inventory := store.Inventory()
	obtained := make(map[string]struct{}, len(inventory))
	for item, have := range inventory {
		if have {
			obtained[item] = struct{}{}
		}
	}

	// Rule-gated locations and cities, plus anything that only the map
	// coordinates know about (always-open areas have no rules).
	accessible := engine.CalculateAccessibility(inventory)
	for name := range cat.Locations() {
		if _, ok := accessible[name]; !ok {
			accessible[name] = engine.IsLocationAccessible(name, obtained)
		}
	}

	manual := store.Locations()

	names := make([]string, 0, len(accessible))
	for name := range accessible {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		state := displayState(engine, name, accessible[name], manual[name])
		cmd.Printf("%-28s %s\n", name, state)
		if state == logic.StateNotAccessible {
			if reqs := engine.MissingRequirements(name); len(reqs) > 0 {
				cmd.Printf("%-28s requires: %s\n", "", strings.Join(reqs, " OR "))
			}
		}
	}
	return nil
}

// displayState resolves the visible state for a location: a manual
// override always wins, otherwise the state follows from computed
// accessibility.
func displayState(engine *logic.Engine, name string, accessible bool, manual logic.LocationState) logic.LocationState {
	if manual != logic.StateUnset {
		return manual
	}
	return engine.DetermineState(name, accessible, false)
}
