package cmd

import (
	"fmt"

	"chip-tracer/internal/canvas"
	"chip-tracer/internal/entity"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <entities_file>",
	Short: "Show entity file information",
	Long: `Display the number of vias, wires and cells in an entity file, and the
size of the scene they span at 100% zoom.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	appearance, err := loadAppearance()
	if err != nil {
		return err
	}
	e := canvas.New(appearance, canvas.WithLogger(logger))
	if err := e.Unserialize(args[0], false); err != nil {
		return err
	}

	other := 0
	e.Store().Each(func(ent *entity.Entity) {
		if ent.Family() == entity.FamilyUnknown {
			other++
		}
	})
	size, origin := e.SceneSize()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File: %s\n", args[0])
	fmt.Fprintf(out, "Vias:  %d\n", e.ViasCount())
	fmt.Fprintf(out, "Wires: %d\n", e.WireCount())
	fmt.Fprintf(out, "Cells: %d\n", e.CellCount())
	if other > 0 {
		fmt.Fprintf(out, "Other: %d\n", other)
	}
	fmt.Fprintf(out, "Scene: %.0fx%.0f px at lambda %g (origin %.0f,%.0f)\n",
		size.X-origin.X, size.Y-origin.Y, e.Lambda(), origin.X, origin.Y)
	return nil
}
