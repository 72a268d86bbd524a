package cmd

import (
	"chip-tracer/ui/mainwindow"

	"github.com/spf13/cobra"
)

var (
	uiImage string
	uiWatch bool
)

var uiCmd = &cobra.Command{
	Use:   "ui [entities_file]",
	Short: "Launch the interactive GUI",
	Long: `Launch the drawing GUI, optionally opening an entity file and a
background image. With --watch the appearance file given by --config is
reloaded whenever it changes on disk.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := mainwindow.Options{
			AppearancePath: configPath,
			ImagePath:      uiImage,
			Watch:          uiWatch,
			Logger:         logger,
		}
		if len(args) == 1 {
			opts.EntitiesPath = args[0]
		}
		return mainwindow.Run(opts)
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
	uiCmd.Flags().StringVar(&uiImage, "image", "", "background image")
	uiCmd.Flags().BoolVarP(&uiWatch, "watch", "w", false, "reload the appearance file on change")
}
