package network

import (
	"image/color"
	"math"
)

// ConnectionRenderer draws one edge between two connected nodes.
type ConnectionRenderer struct {
	MaxDistance float64
	Opacity     float64
	Glow        bool
	Color       color.NRGBA
}

// Draw renders the edge a-b. Pairs farther apart than MaxDistance are skipped
// even when the evaluator kept them through hysteresis.
func (r ConnectionRenderer) Draw(c Canvas, a, b *Node) {
	d := a.distanceTo(b)
	if d > r.MaxDistance {
		return
	}

	strength, ok := a.strengths[b.id]
	if !ok {
		strength = 0
		if r.MaxDistance > 0 {
			strength = (1 - d/r.MaxDistance) * math.Min(a.strength, b.strength)
		}
	}

	width := 1 + strength*2
	if a.hub || b.hub {
		width++
	}

	x1, y1 := math.Floor(a.X), math.Floor(a.Y)
	x2, y2 := math.Floor(b.X), math.Floor(b.Y)
	soft := withAlpha(r.Color, strength*r.Opacity*0.2)

	if r.Glow {
		c.StrokeLine(x1, y1, x2, y2, width+2, soft, true)
	}
	c.StrokeLine(x1, y1, x2, y2, width+1, soft, true)
	c.StrokeLine(x1, y1, x2, y2, width, withAlpha(r.Color, strength*r.Opacity), true)
}
