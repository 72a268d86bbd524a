// Package main provides the entry point for the Chip Tracer application.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"chip-tracer/internal/app"
	"chip-tracer/internal/version"
	"chip-tracer/ui/mainwindow"

	"github.com/spf13/cobra"
)

func main() {
	// Fix Fyne locale parsing error when LANG=C
	if lang := os.Getenv("LANG"); lang == "" || lang == "C" {
		os.Setenv("LANG", "en_US.UTF-8")
	}

	var (
		verbose bool
		opts    mainwindow.Options
	)
	root := &cobra.Command{
		Use:     "chip-tracer [entities_file]",
		Short:   "Draw vias, wires and cells over a chip die image",
		Version: version.Version,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := app.NewLogger(verbose)
			slog.SetDefault(log)
			log.Info("starting", "app", version.AppName, "version", version.Version)

			opts.Logger = log
			if len(args) == 1 {
				opts.EntitiesPath = args[0]
			}
			return mainwindow.Run(opts)
		},
	}
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	root.Flags().StringVarP(&opts.AppearancePath, "config", "c", "", "appearance file (YAML)")
	root.Flags().StringVar(&opts.ImagePath, "image", "", "background image")
	root.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "reload the appearance file on change")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
