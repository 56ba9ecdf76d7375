// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lufia 2 Tracker Contributors

package main

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"github.com/RndmMeme/lufia2-tracker/internal/catalog"
	"github.com/RndmMeme/lufia2-tracker/internal/logging"
)

// NewValidateDataCmd creates the validate-data subcommand.
func NewValidateDataCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-data",
		Short: "Validate the reference data directory without tracking anything",
		Long: `Loads every reference data file and reports problems: files that
cannot be read or parsed, access rules that mention items missing from
the item catalogs, and cities without map coordinates.
Exits with code 0 on success, non-zero on failure.

Useful after editing the data files:
  lufia2-tracker validate-data --data-dir ./data`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidateData(cmd)
		},
	}
}

func runValidateData(cmd *cobra.Command) error {
	cfg, err := loadConfig(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	logging.SetDefault("lufia2-tracker", version, cfg.Log.Format, cfg.Log.Level)

	cat := catalog.New(cfg.DataDir, slog.Default())

	rules := cat.AccessRules()
	cities := cat.Cities()
	locations := cat.Locations()
	// Touch the remaining files so read and parse failures get recorded.
	cat.Characters()
	cat.NormalizeLocationName("any")

	universe := make(map[string]struct{})
	for _, names := range cat.ItemsSpells() {
		for _, name := range names {
			universe[name] = struct{}{}
		}
	}
	for _, name := range cat.ToolItems() {
		universe[name] = struct{}{}
	}

	unknown := make(map[string]struct{})
	for location, ruleSet := range rules {
		for _, rule := range ruleSet {
			for _, item := range rule {
				if _, ok := universe[item]; !ok {
					unknown[item] = struct{}{}
					slog.Warn("access rule references unknown item",
						"location", location, "item", item)
				}
			}
		}
	}

	for _, city := range sortedNames(cities) {
		if _, ok := locations[city]; !ok {
			slog.Warn("city has no map coordinates", "city", city)
		}
	}

	if failures := cat.LoadFailures(); len(failures) > 0 {
		for _, name := range sortedFailureNames(failures) {
			slog.Error("data file failed to load", "file", name, "error", failures[name])
		}
		return fmt.Errorf("validation failed: %d data files unusable", len(failures))
	}

	slog.Info("reference data valid",
		"locations", len(locations),
		"rules", len(rules),
		"cities", len(cities),
		"items", len(universe),
		"unknown_items", len(unknown))
	return nil
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedFailureNames(failures map[string]error) []string {
	names := make([]string, 0, len(failures))
	for name := range failures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
