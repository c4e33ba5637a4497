package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iburimskiy/knowledge-network/internal/config"
	"github.com/iburimskiy/knowledge-network/internal/render"
	"github.com/iburimskiy/knowledge-network/internal/ui"
)

// snapshotFlags are shared by render and stats.
type snapshotFlags struct {
	opts render.Options
}

func (f *snapshotFlags) register(cmd *cobra.Command) {
	d := render.DefaultOptions()
	cmd.Flags().Float64Var(&f.opts.Width, "width", d.Width, "Surface width in logical pixels")
	cmd.Flags().Float64Var(&f.opts.Height, "height", d.Height, "Surface height in logical pixels")
	cmd.Flags().IntVarP(&f.opts.Frames, "frames", "n", d.Frames, "Frames to simulate")
	cmd.Flags().DurationVar(&f.opts.Step, "dt", d.Step, "Simulated time per frame")
	cmd.Flags().Int64Var(&f.opts.Seed, "seed", d.Seed, "Random seed for node placement")
	cmd.Flags().BoolVar(&f.opts.Dark, "dark", false, "Use the dark palette")
	f.opts.Scale = d.Scale
}

func renderCmd() *cobra.Command {
	var (
		src     configSource
		flags   snapshotFlags
		presets []string
		out     string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render snapshots to PNG or SVG",
		Example: "  knet render -o hero.png --preset hero\n" +
			"  knet render --all -o shots --format svg --label",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			var results []render.Result

			if len(presets) > 0 {
				if src.path != "" {
					return fmt.Errorf("--config renders a single file; drop --presets")
				}
				res, err := render.RenderPresets(cmd.Context(), out, format, presets, flags.opts)
				if err != nil {
					return err
				}
				results = res
			} else {
				cfg, err := src.load()
				if err != nil {
					return err
				}
				path := out
				if !hasImageExt(path) {
					path = filepath.Join(out, src.preset+"."+format)
				}
				res, err := render.RenderFile(path, cfg, flags.opts)
				if err != nil {
					return err
				}
				res.Preset = src.preset
				results = append(results, res)
			}

			ui.Banner("render")
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{
					r.Preset,
					r.Path,
					strconv.Itoa(r.Nodes),
					strconv.Itoa(r.Stats.TotalConnections),
					strconv.Itoa(r.Stats.ClusterCount),
				})
			}
			ui.Table([]string{"Preset", "File", "Nodes", "Links", "Clusters"}, rows)
			fmt.Println()
			ui.Good.Printf("  %s Rendered %d file(s) in %s\n", ui.StatusIcon(true), len(results), time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	src.register(cmd)
	flags.register(cmd)
	cmd.Flags().StringSliceVar(&presets, "presets", nil, "Render several presets concurrently (comma separated)")
	cmd.Flags().Bool("all", false, "Render every preset")
	cmd.Flags().StringVarP(&out, "out", "o", ".", "Output file, or directory when rendering several presets")
	cmd.Flags().StringVarP(&format, "format", "f", "png", "png or svg (ignored when --out has an extension)")
	cmd.Flags().Float64Var(&flags.opts.Scale, "scale", 1, "Device pixel ratio")
	cmd.Flags().BoolVar(&flags.opts.Label, "label", false, "Stamp network stats into the corner")
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if all, _ := cmd.Flags().GetBool("all"); all {
			presets = config.Presets()
		}
		return nil
	}
	return cmd
}

func hasImageExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".svg":
		return true
	}
	return false
}
