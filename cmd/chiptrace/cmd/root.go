package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"chip-tracer/internal/app"
	"chip-tracer/internal/config"
	"chip-tracer/internal/version"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose    bool
	configPath string

	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "chiptrace",
	Short: "Chip Tracer - vias, wires and cells over a die image",
	Long: `chiptrace works with the entity files drawn in the Chip Tracer GUI.

Examples:
  chiptrace ui die.xml                         # Edit entities in the GUI
  chiptrace info die.xml                       # Count entities per family
  chiptrace export die.xml die.png --image die.tif
  chiptrace convert die.xml die.msgpack        # Change the file format
  chiptrace gc die.xml                         # Drop zero-length wires`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = app.NewLoggerTo(cmd.ErrOrStderr(), verbose)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Fix Fyne locale parsing error when LANG=C
	if lang := os.Getenv("LANG"); lang == "" || lang == "C" {
		os.Setenv("LANG", "en_US.UTF-8")
	}

	rootCmd.SetVersionTemplate(version.String() + "\n")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "appearance file (YAML)")
}

// loadAppearance reads --config, or the defaults when it is not set.
func loadAppearance() (config.Appearance, error) {
	a, err := config.LoadOrDefault(configPath)
	if err != nil {
		return a, fmt.Errorf("failed to load appearance: %w", err)
	}
	return a, nil
}
