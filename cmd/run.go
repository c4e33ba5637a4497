package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iburimskiy/knowledge-network/internal/config"
	"github.com/iburimskiy/knowledge-network/internal/game"
	"github.com/iburimskiy/knowledge-network/internal/ui"
	"github.com/iburimskiy/knowledge-network/internal/watch"
)

func runCmd() *cobra.Command {
	var (
		src           configSource
		dark          bool
		reducedMotion bool
		audio         string
		watchFile     bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the network in a window",
		Long: "Open the network in a resizable window.\n\n" +
			"Keys: D dark mode, Space pause, O open config, S print stats, Esc/Q quit.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := src.load()
			if err != nil {
				return err
			}

			opts := game.Options{
				Config:        cfg,
				Dark:          dark,
				ReducedMotion: reducedMotion,
				AudioPath:     audio,
			}

			if watchFile {
				if src.path == "" {
					return fmt.Errorf("--watch needs --config")
				}
				w, err := watch.New(src.path,
					watch.WithLoader(src.loadFile),
					watch.WithOnError(func(err error) {
						ui.Warn.Printf("  config: %v\n", err)
					}))
				if err != nil {
					return err
				}
				ctx, cancel := context.WithCancel(cmd.Context())
				defer cancel()
				if err := w.Start(ctx); err != nil {
					return err
				}
				defer w.Stop()
				opts.Updates = w.Updates()
				fmt.Println(ui.Subtle.Sprintf("  Watching %s", w.Path()))
			}

			count, dist := cfg.Budget(config.Desktop)
			fmt.Printf("%s %s preset, %d desktop nodes, %.0fpx links\n",
				ui.Mark, ui.Info.Sprint(src.preset), count, dist)
			return game.Run(opts)
		},
	}

	src.register(cmd)
	cmd.Flags().BoolVar(&dark, "dark", false, "Start in dark mode")
	cmd.Flags().BoolVar(&reducedMotion, "reduced-motion", false, "Honor a reduced-motion preference: show only the background")
	cmd.Flags().StringVar(&audio, "audio", "", "Soundtrack (.wav, .mp3, .flac) whose loudness drives the pulse")
	cmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "Reload --config when it changes")
	return cmd
}
