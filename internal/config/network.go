package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownPreset is returned by Preset for names outside Presets().
var ErrUnknownPreset = errors.New("unknown preset")

// Responsive holds the per-breakpoint node budget.
type Responsive struct {
	ParticleCount int     `toml:"particle_count" yaml:"particle_count" json:"particle_count"`
	MaxDistance   float64 `toml:"max_distance" yaml:"max_distance" json:"max_distance"`
}

// Network is the full configuration record of a knowledge network.
type Network struct {
	BackgroundColor     string   `toml:"background_color" yaml:"background_color" json:"background_color"`
	BackgroundColorDark string   `toml:"background_color_dark" yaml:"background_color_dark" json:"background_color_dark"`
	ParticleColors      []string `toml:"particle_colors" yaml:"particle_colors" json:"particle_colors"`
	ConnectionColor     string   `toml:"connection_color" yaml:"connection_color" json:"connection_color"`
	ConnectionColorDark string   `toml:"connection_color_dark" yaml:"connection_color_dark" json:"connection_color_dark"`

	ParticleCount         int     `toml:"particle_count" yaml:"particle_count" json:"particle_count"`
	ParticleSize          float64 `toml:"particle_size" yaml:"particle_size" json:"particle_size"`
	MaxConnectionDistance float64 `toml:"max_connection_distance" yaml:"max_connection_distance" json:"max_connection_distance"`

	BaseSpeed         float64 `toml:"base_speed" yaml:"base_speed" json:"base_speed"`
	PulseStrength     float64 `toml:"pulse_strength" yaml:"pulse_strength" json:"pulse_strength"`
	ConnectionOpacity float64 `toml:"connection_opacity" yaml:"connection_opacity" json:"connection_opacity"`

	Mobile  Responsive `toml:"mobile" yaml:"mobile" json:"mobile"`
	Tablet  Responsive `toml:"tablet" yaml:"tablet" json:"tablet"`
	Desktop Responsive `toml:"desktop" yaml:"desktop" json:"desktop"`

	NetworkGrowthRate     float64 `toml:"network_growth_rate" yaml:"network_growth_rate" json:"network_growth_rate"`
	ConnectionPersistence float64 `toml:"connection_persistence" yaml:"connection_persistence" json:"connection_persistence"`
	CentralGravity        float64 `toml:"central_gravity" yaml:"central_gravity" json:"central_gravity"`
	ConnectionGlow        bool    `toml:"connection_glow" yaml:"connection_glow" json:"connection_glow"`
	NodeHierarchy         bool    `toml:"node_hierarchy" yaml:"node_hierarchy" json:"node_hierarchy"`
	ColorEvolution        bool    `toml:"color_evolution" yaml:"color_evolution" json:"color_evolution"`
	FocusedClustering     bool    `toml:"focused_clustering" yaml:"focused_clustering" json:"focused_clustering"`
	BusinessTheme         bool    `toml:"business_theme" yaml:"business_theme" json:"business_theme"`
}

// BusinessColors replaces the green palette when BusinessTheme is set and the
// caller kept the default colors.
var BusinessColors = []string{"#3b82f6", "#2563eb", "#1e40af", "#475569"}

// Default returns the base record every preset and override falls back to.
func Default() Network {
	return Network{
		BackgroundColor:     "#f5f5f4",
		BackgroundColorDark: "#334155",
		ParticleColors:      []string{"#22c55e", "#16a34a", "#15803d", "#166534"},
		ConnectionColor:     "#10b981",
		ConnectionColorDark: "#68d391",

		ParticleCount:         80,
		ParticleSize:          3,
		MaxConnectionDistance: 120,

		BaseSpeed:         0.3,
		PulseStrength:     0.2,
		ConnectionOpacity: 0.1,

		Mobile:  Responsive{ParticleCount: 10, MaxDistance: 80},
		Tablet:  Responsive{ParticleCount: 45, MaxDistance: 100},
		Desktop: Responsive{ParticleCount: 60, MaxDistance: 120},

		NetworkGrowthRate:     0.01,
		ConnectionPersistence: 0.5,
		CentralGravity:        0.0005,
	}
}

// HeroOverrides is the dense preset used behind hero copy.
func HeroOverrides() Overrides {
	return Overrides{
		ParticleCount:         intp(250),
		ParticleSize:          floatp(2),
		MaxConnectionDistance: floatp(140),
		ConnectionOpacity:     floatp(0.35),
		PulseStrength:         floatp(0.2),
		NetworkGrowthRate:     floatp(0.015),
		ConnectionPersistence: floatp(0.6),
		CentralGravity:        floatp(0.0008),
		ConnectionGlow:        boolp(true),
		NodeHierarchy:         boolp(true),
		ColorEvolution:        boolp(false),
		Mobile:                &Responsive{ParticleCount: 38, MaxDistance: 90},
		Tablet:                &Responsive{ParticleCount: 150, MaxDistance: 110},
		Desktop:               &Responsive{ParticleCount: 188, MaxDistance: 140},
	}
}

// ProductOverrides is the sparse preset used inside product cards.
func ProductOverrides() Overrides {
	return Overrides{
		ParticleCount:         intp(40),
		ParticleSize:          floatp(3),
		MaxConnectionDistance: floatp(100),
		ConnectionOpacity:     floatp(0.6),
		FocusedClustering:     boolp(true),
		BusinessTheme:         boolp(true),
	}
}

var presets = map[string]func() Overrides{
	"default": func() Overrides { return Overrides{} },
	"hero":    HeroOverrides,
	"product": ProductOverrides,
}

// Presets lists the preset names in sorted order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns the named preset merged over Default.
func Preset(name string) (Network, error) {
	fn, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Network{}, fmt.Errorf("%w %q (want one of %s)", ErrUnknownPreset, name, strings.Join(Presets(), ", "))
	}
	return fn().Apply(Default()), nil
}

// Palette returns the node colors honoring BusinessTheme.
func (n Network) Palette() []string {
	if n.BusinessTheme && sameColors(n.ParticleColors, Default().ParticleColors) {
		return BusinessColors
	}
	return n.ParticleColors
}

// Breakpoint names a responsive bucket.
type Breakpoint int

const (
	Mobile Breakpoint = iota
	Tablet
	Desktop
	Wide
)

func (b Breakpoint) String() string {
	switch b {
	case Mobile:
		return "mobile"
	case Tablet:
		return "tablet"
	case Desktop:
		return "desktop"
	case Wide:
		return "wide"
	default:
		return fmt.Sprintf("breakpoint(%d)", int(b))
	}
}

// BreakpointFor maps a surface CSS width to its bucket.
func BreakpointFor(width float64) Breakpoint {
	switch {
	case width < TabletWidth:
		return Mobile
	case width < DesktopWidth:
		return Tablet
	case width < WideWidth:
		return Desktop
	default:
		return Wide
	}
}

// Budget returns the particle count and connection distance for a bucket.
// Wide screens keep the desktop distance with half the desktop nodes.
func (n Network) Budget(b Breakpoint) (count int, maxDistance float64) {
	switch b {
	case Mobile:
		return n.Mobile.ParticleCount, n.Mobile.MaxDistance
	case Tablet:
		return n.Tablet.ParticleCount, n.Tablet.MaxDistance
	case Desktop:
		return n.Desktop.ParticleCount, n.Desktop.MaxDistance
	default:
		return n.Desktop.ParticleCount / 2, n.Desktop.MaxDistance
	}
}

func sameColors(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }
func boolp(v bool) *bool        { return &v }
