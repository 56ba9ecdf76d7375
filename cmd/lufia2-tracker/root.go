package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/RndmMeme/lufia2-tracker/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the tracker CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lufia2-tracker",
		Short: "Progress tracker for Lufia 2 randomizer playthroughs",
		Long: `lufia2-tracker keeps session state for randomized Lufia 2 playthroughs:
collected items, location accessibility, character assignments, shop
finds and hints. Accessibility is recomputed from the reference data
shipped in the data directory.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.PersistentFlags().String("data-dir", filepath.Join(xdg.DataDir(), "data"), "reference data directory")
	cmd.PersistentFlags().String("save-path", xdg.DefaultSavePath(), "session snapshot file")
	cmd.PersistentFlags().String("log-format", "text", "log format (text or json)")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	// Add subcommands
	cmd.AddCommand(NewResolveCmd())
	cmd.AddCommand(NewValidateDataCmd())
	cmd.AddCommand(NewResetCmd())

	return cmd
}
