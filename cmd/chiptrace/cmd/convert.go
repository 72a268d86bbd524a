package cmd

import (
	"fmt"

	"chip-tracer/internal/persist"

	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Convert an entity file between XML, JSON and msgpack",
	Long: `Read an entity file and write it in the format given by the output
extension: .json, .msgpack or .mp, anything else as XML.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	entities, err := persist.Load(args[0])
	if err != nil {
		return err
	}
	if err := persist.Save(args[1], entities); err != nil {
		return err
	}
	logger.Debug("converted", "from", args[0], "to", args[1], "entities", len(entities))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d entities to %s (%s)\n",
		len(entities), args[1], persist.FormatFromPath(args[1]))
	return nil
}
