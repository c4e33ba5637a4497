package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for config files that are not toml, yaml or json.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Load reads overrides from path, picking the decoder from the extension.
// Unknown keys are ignored.
func Load(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Overrides{}, fmt.Errorf("read config: %w", err)
	}
	return Decode(filepath.Ext(path), data)
}

// LoadNetwork reads path and resolves it against its preset.
func LoadNetwork(path string) (Network, error) {
	o, err := Load(path)
	if err != nil {
		return Network{}, err
	}
	n, err := o.Resolve()
	if err != nil {
		return Network{}, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// Decode parses data in the format named by ext (".toml", ".yaml", ".yml", ".json").
func Decode(ext string, data []byte) (Overrides, error) {
	var o Overrides
	var err error
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml":
		err = toml.Unmarshal(data, &o)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &o)
	case "json":
		err = json.Unmarshal(data, &o)
	default:
		return Overrides{}, fmt.Errorf("%w %q (want toml, yaml or json)", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return Overrides{}, fmt.Errorf("decode %s config: %w", strings.TrimPrefix(ext, "."), err)
	}
	return o, nil
}

// EncodeTOML writes the full record as TOML.
func EncodeTOML(w io.Writer, n Network) error {
	return toml.NewEncoder(w).Encode(n)
}
