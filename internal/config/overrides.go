package config

// Overrides is a partial Network: nil fields fall back to the base record.
type Overrides struct {
	BackgroundColor     *string  `toml:"background_color,omitempty" yaml:"background_color,omitempty" json:"background_color,omitempty"`
	BackgroundColorDark *string  `toml:"background_color_dark,omitempty" yaml:"background_color_dark,omitempty" json:"background_color_dark,omitempty"`
	ParticleColors      []string `toml:"particle_colors,omitempty" yaml:"particle_colors,omitempty" json:"particle_colors,omitempty"`
	ConnectionColor     *string  `toml:"connection_color,omitempty" yaml:"connection_color,omitempty" json:"connection_color,omitempty"`
	ConnectionColorDark *string  `toml:"connection_color_dark,omitempty" yaml:"connection_color_dark,omitempty" json:"connection_color_dark,omitempty"`

	ParticleCount         *int     `toml:"particle_count,omitempty" yaml:"particle_count,omitempty" json:"particle_count,omitempty"`
	ParticleSize          *float64 `toml:"particle_size,omitempty" yaml:"particle_size,omitempty" json:"particle_size,omitempty"`
	MaxConnectionDistance *float64 `toml:"max_connection_distance,omitempty" yaml:"max_connection_distance,omitempty" json:"max_connection_distance,omitempty"`

	BaseSpeed         *float64 `toml:"base_speed,omitempty" yaml:"base_speed,omitempty" json:"base_speed,omitempty"`
	PulseStrength     *float64 `toml:"pulse_strength,omitempty" yaml:"pulse_strength,omitempty" json:"pulse_strength,omitempty"`
	ConnectionOpacity *float64 `toml:"connection_opacity,omitempty" yaml:"connection_opacity,omitempty" json:"connection_opacity,omitempty"`

	Mobile  *Responsive `toml:"mobile,omitempty" yaml:"mobile,omitempty" json:"mobile,omitempty"`
	Tablet  *Responsive `toml:"tablet,omitempty" yaml:"tablet,omitempty" json:"tablet,omitempty"`
	Desktop *Responsive `toml:"desktop,omitempty" yaml:"desktop,omitempty" json:"desktop,omitempty"`

	NetworkGrowthRate     *float64 `toml:"network_growth_rate,omitempty" yaml:"network_growth_rate,omitempty" json:"network_growth_rate,omitempty"`
	ConnectionPersistence *float64 `toml:"connection_persistence,omitempty" yaml:"connection_persistence,omitempty" json:"connection_persistence,omitempty"`
	CentralGravity        *float64 `toml:"central_gravity,omitempty" yaml:"central_gravity,omitempty" json:"central_gravity,omitempty"`
	ConnectionGlow        *bool    `toml:"connection_glow,omitempty" yaml:"connection_glow,omitempty" json:"connection_glow,omitempty"`
	NodeHierarchy         *bool    `toml:"node_hierarchy,omitempty" yaml:"node_hierarchy,omitempty" json:"node_hierarchy,omitempty"`
	ColorEvolution        *bool    `toml:"color_evolution,omitempty" yaml:"color_evolution,omitempty" json:"color_evolution,omitempty"`
	FocusedClustering     *bool    `toml:"focused_clustering,omitempty" yaml:"focused_clustering,omitempty" json:"focused_clustering,omitempty"`
	BusinessTheme         *bool    `toml:"business_theme,omitempty" yaml:"business_theme,omitempty" json:"business_theme,omitempty"`

	// Preset names the record the overrides apply to when loaded from a file.
	Preset string `toml:"preset,omitempty" yaml:"preset,omitempty" json:"preset,omitempty"`
}

// Apply returns base with every set field of o copied over it.
func (o Overrides) Apply(base Network) Network {
	out := base
	out.ParticleColors = append([]string(nil), base.ParticleColors...)

	setString(&out.BackgroundColor, o.BackgroundColor)
	setString(&out.BackgroundColorDark, o.BackgroundColorDark)
	setString(&out.ConnectionColor, o.ConnectionColor)
	setString(&out.ConnectionColorDark, o.ConnectionColorDark)
	if len(o.ParticleColors) > 0 {
		out.ParticleColors = append([]string(nil), o.ParticleColors...)
	}

	if o.ParticleCount != nil {
		out.ParticleCount = *o.ParticleCount
	}
	setFloat(&out.ParticleSize, o.ParticleSize)
	setFloat(&out.MaxConnectionDistance, o.MaxConnectionDistance)
	setFloat(&out.BaseSpeed, o.BaseSpeed)
	setFloat(&out.PulseStrength, o.PulseStrength)
	setFloat(&out.ConnectionOpacity, o.ConnectionOpacity)

	if o.Mobile != nil {
		out.Mobile = *o.Mobile
	}
	if o.Tablet != nil {
		out.Tablet = *o.Tablet
	}
	if o.Desktop != nil {
		out.Desktop = *o.Desktop
	}

	setFloat(&out.NetworkGrowthRate, o.NetworkGrowthRate)
	setFloat(&out.ConnectionPersistence, o.ConnectionPersistence)
	setFloat(&out.CentralGravity, o.CentralGravity)
	setBool(&out.ConnectionGlow, o.ConnectionGlow)
	setBool(&out.NodeHierarchy, o.NodeHierarchy)
	setBool(&out.ColorEvolution, o.ColorEvolution)
	setBool(&out.FocusedClustering, o.FocusedClustering)
	setBool(&out.BusinessTheme, o.BusinessTheme)
	return out
}

// Resolve merges o over its named preset (or the default record).
func (o Overrides) Resolve() (Network, error) {
	name := o.Preset
	if name == "" {
		name = "default"
	}
	base, err := Preset(name)
	if err != nil {
		return Network{}, err
	}
	return o.Apply(base), nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
