package network

import (
	"image/color"
	"math"

	"github.com/iburimskiy/knowledge-network/internal/config"
	"github.com/lucasb-eyer/go-colorful"
)

// Wash stops painted over the whole surface every frame (stone-500 to stone-600).
var (
	washTop    = color.NRGBA{R: 120, G: 113, B: 108}
	washBottom = color.NRGBA{R: 87, G: 83, B: 74}
)

type palette struct {
	nodes          []color.NRGBA
	link, linkDark color.NRGBA
	bg, bgDark     color.NRGBA
}

func newPalette(cfg config.Network) palette {
	def := config.Default()
	p := palette{
		link:     parseColor(cfg.ConnectionColor, parseColor(def.ConnectionColor, color.NRGBA{A: 255})),
		linkDark: parseColor(cfg.ConnectionColorDark, parseColor(def.ConnectionColorDark, color.NRGBA{A: 255})),
		bg:       parseColor(cfg.BackgroundColor, parseColor(def.BackgroundColor, color.NRGBA{A: 255})),
		bgDark:   parseColor(cfg.BackgroundColorDark, parseColor(def.BackgroundColorDark, color.NRGBA{A: 255})),
	}
	for _, hex := range cfg.Palette() {
		c, err := colorful.Hex(hex)
		if err != nil {
			continue
		}
		p.nodes = append(p.nodes, toNRGBA(c))
	}
	if len(p.nodes) == 0 {
		for _, hex := range def.ParticleColors {
			p.nodes = append(p.nodes, parseColor(hex, color.NRGBA{A: 255}))
		}
	}
	return p
}

func (p *palette) connection(dark bool) color.NRGBA {
	if dark {
		return p.linkDark
	}
	return p.link
}

func (p *palette) background(dark bool) color.NRGBA {
	if dark {
		return p.bgDark
	}
	return p.bg
}

// evolve picks the palette entry for a color-evolution phase.
func (p *palette) evolve(phase float64) color.NRGBA {
	f := (math.Sin(phase) + 1) / 2
	idx := int(math.Floor(f * float64(len(p.nodes))))
	if idx >= len(p.nodes) {
		idx = len(p.nodes) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return p.nodes[idx]
}

func washStops(dark bool) []GradientStop {
	top, bottom := 0.15, 0.25
	if dark {
		top, bottom = 0.2, 0.3
	}
	return []GradientStop{
		{Offset: 0, Color: withAlpha(washTop, top)},
		{Offset: 1, Color: withAlpha(washBottom, bottom)},
	}
}

func parseColor(hex string, fallback color.NRGBA) color.NRGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	return toNRGBA(c)
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// withAlpha returns c with its alpha replaced by a in [0,1].
func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(math.Round(clamp01(a) * 255))
	return c
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
