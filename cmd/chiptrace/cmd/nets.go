package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"chip-tracer/internal/netlist"
	"chip-tracer/internal/persist"

	"github.com/spf13/cobra"
)

var (
	netsTolerance float64
	netsJSON      bool
)

var netsCmd = &cobra.Command{
	Use:   "nets <entities_file>",
	Short: "List the nets formed by vias and wires",
	Long: `Group vias and wires into electrical nets. A wire end joins a via or
another wire end within --tolerance lambda. Nets are named after the best
label they contain.`,
	Args: cobra.ExactArgs(1),
	RunE: runNets,
}

func init() {
	rootCmd.AddCommand(netsCmd)
	netsCmd.Flags().Float64Var(&netsTolerance, "tolerance", netlist.DefaultTolerance, "snap distance in lambda")
	netsCmd.Flags().BoolVar(&netsJSON, "json", false, "print JSON")
}

func runNets(cmd *cobra.Command, args []string) error {
	entities, err := persist.Load(args[0])
	if err != nil {
		return err
	}
	nets := netlist.Extract(persist.WipeGarbage(entities), netsTolerance)

	out := cmd.OutOrStdout()
	if netsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(nets)
	}

	fmt.Fprintf(out, "Nets: %d\n", len(nets))
	for _, n := range nets {
		name := n.Name
		if name == n.ID {
			name = "-"
		}
		fmt.Fprintf(out, "  %-8s %-16s vias %-3d wires %-3d elements %d\n",
			n.ID, name, len(n.ViaIDs), len(n.WireIDs), n.ElementCount())
	}
	multi, unnamed := tally(nets)
	fmt.Fprintln(out, strings.Repeat("-", 40))
	fmt.Fprintf(out, "Joining two or more vias: %d\n", multi)
	fmt.Fprintf(out, "Without a signal name: %d\n", unnamed)
	return nil
}

// tally counts nets joining several vias and nets with only an automatic
// or pin name.
func tally(nets []*netlist.Net) (multi, unnamed int) {
	for _, net := range nets {
		if len(net.ViaIDs) > 1 {
			multi++
		}
		if netlist.IsLowPriorityName(net.Name) {
			unnamed++
		}
	}
	return multi, unnamed
}
