package cmd

import (
	"github.com/spf13/cobra"

	"github.com/iburimskiy/knowledge-network/internal/config"
)

// configSource is the --preset/--config pair shared by every command.
type configSource struct {
	preset string
	path   string
}

func (s *configSource) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.preset, "preset", "p", "default", "Named preset (default, hero, product)")
	cmd.Flags().StringVarP(&s.path, "config", "c", "", "Config file (.toml, .yaml, .json) layered over the preset")
}

// load resolves the record. A preset named inside the file wins over --preset.
func (s *configSource) load() (config.Network, error) {
	if s.path == "" {
		return config.Preset(s.preset)
	}
	return s.loadFile(s.path)
}

func (s *configSource) loadFile(path string) (config.Network, error) {
	o, err := config.Load(path)
	if err != nil {
		return config.Network{}, err
	}
	if o.Preset == "" {
		o.Preset = s.preset
	}
	return o.Resolve()
}
