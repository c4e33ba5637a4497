package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/iburimskiy/knowledge-network/internal/config"
)

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "presets [name...]",
		Short:     "Print presets as TOML",
		ValidArgs: config.Presets(),
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				names = config.Presets()
			}
			return writePresets(cmd.OutOrStdout(), names)
		},
	}
}

func writePresets(w io.Writer, names []string) error {
	for i, name := range names {
		cfg, err := config.Preset(name)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "# preset: %s\n", name)
		if err := config.EncodeTOML(w, cfg); err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
	}
	return nil
}
