package cmd

import (
	"fmt"

	"chip-tracer/internal/app"
	"chip-tracer/internal/render"

	"github.com/spf13/cobra"
)

var exportImage string

var exportCmd = &cobra.Command{
	Use:   "export <entities_file> <output_image>",
	Short: "Render the whole scene to an image",
	Long: `Render every entity, over the background image when --image is given, at
100% zoom. The output format follows the extension: .png, .bmp, anything
else is written as JPEG.`,
	Args: cobra.ExactArgs(2),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportImage, "image", "", "background image")
}

func runExport(cmd *cobra.Command, args []string) error {
	appearance, err := loadAppearance()
	if err != nil {
		return err
	}
	s := app.NewSession(appearance, app.WithLogger(logger))
	defer s.Close()

	if exportImage != "" {
		if err := s.LoadImage(exportImage); err != nil {
			return err
		}
	}
	if err := s.LoadEntities(args[0], false); err != nil {
		return err
	}
	if err := s.Export(args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s (%s)\n", args[1], render.FormatFromPath(args[1]))
	return nil
}
