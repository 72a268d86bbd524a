package cmd

import (
	"fmt"

	"chip-tracer/internal/persist"

	"github.com/spf13/cobra"
)

var gcDryRun bool

var gcCmd = &cobra.Command{
	Use:   "gc <entities_file>",
	Short: "Remove zero-length wires",
	Long:  `Remove wires shorter than one lambda and rewrite the file in place.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runGC,
}

func init() {
	rootCmd.AddCommand(gcCmd)
	gcCmd.Flags().BoolVarP(&gcDryRun, "dry-run", "n", false, "report without rewriting")
}

func runGC(cmd *cobra.Command, args []string) error {
	path := args[0]
	entities, err := persist.Load(path)
	if err != nil {
		return err
	}
	kept := persist.WipeGarbage(entities)
	removed := len(entities) - len(kept)

	out := cmd.OutOrStdout()
	if removed == 0 {
		fmt.Fprintf(out, "%s: nothing to remove\n", path)
		return nil
	}
	if gcDryRun {
		fmt.Fprintf(out, "%s: would remove %d wires\n", path, removed)
		return nil
	}
	if err := persist.Save(path, kept); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: removed %d wires\n", path, removed)
	return nil
}
