package cmd

import (
	"github.com/spf13/cobra"

	"github.com/iburimskiy/knowledge-network/internal/ui"
)

var version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:   "knet",
	Short: "knet - animated knowledge network backgrounds",
	Long: ui.Brand.Sprint(ui.Mark+" knet") + " - a drifting, self-connecting particle network\n" +
		ui.Subtle.Sprint("Run it in a window, render snapshots, or inspect presets"),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("knet {{ .Version }}\n")
	rootCmd.AddCommand(
		runCmd(),
		renderCmd(),
		statsCmd(),
		presetsCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		ui.Bad.Printf("knet: %v\n", err)
		return err
	}
	return nil
}
