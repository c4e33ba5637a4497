package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/knowledge-network/internal/render"
	"github.com/iburimskiy/knowledge-network/internal/ui"
)

func statsCmd() *cobra.Command {
	var (
		src    configSource
		flags  snapshotFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Simulate headlessly and print network statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := src.load()
			if err != nil {
				return err
			}
			sim, err := render.Simulate(cfg, render.Discard{}, flags.opts)
			if err != nil {
				return err
			}
			st := sim.Stats()

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}

			count, dist := sim.Budget()
			ui.Banner("network statistics")
			fmt.Printf("  Preset:              %s\n", src.preset)
			fmt.Printf("  Surface:             %.0fx%.0f (%s)\n", flags.opts.Width, flags.opts.Height, sim.Breakpoint())
			fmt.Printf("  Frames:              %d\n", sim.Frames())
			fmt.Printf("  Nodes:               %d (max distance %.0fpx)\n", count, dist)
			fmt.Printf("  Total connections:   %d\n", st.TotalConnections)
			fmt.Printf("  Average connections: %.2f\n", st.AverageConnections)
			fmt.Printf("  Clusters:            %d\n", st.ClusterCount)
			return nil
		},
	}

	src.register(cmd)
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}
