package render

import (
	"image"
	"image/color"
	"io"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/iburimskiy/knowledge-network/internal/network"
)

// Raster is a network.Canvas backed by a gg context.
type Raster struct {
	dc    *gg.Context
	scale float64
}

func NewRaster() *Raster {
	return &Raster{dc: gg.NewContext(1, 1), scale: 1}
}

// SetSize replaces the backing image. Drawing is scaled so callers keep
// working in logical pixels.
func (r *Raster) SetSize(pixelWidth, pixelHeight int, scale float64) {
	if pixelWidth < 1 {
		pixelWidth = 1
	}
	if pixelHeight < 1 {
		pixelHeight = 1
	}
	if scale <= 0 {
		scale = 1
	}
	r.dc = gg.NewContext(pixelWidth, pixelHeight)
	r.dc.Scale(scale, scale)
	r.scale = scale
}

func (r *Raster) Clear() {
	r.dc.SetColor(color.Transparent)
	r.dc.Clear()
}

func (r *Raster) FillRect(x, y, w, h float64, c color.NRGBA) {
	r.dc.SetColor(c)
	r.dc.DrawRectangle(x, y, w, h)
	r.dc.Fill()
}

func (r *Raster) FillLinearGradient(x, y, w, h float64, stops []network.GradientStop) {
	g := gg.NewLinearGradient(x, y, x, y+h)
	for _, s := range stops {
		g.AddColorStop(s.Offset, s.Color)
	}
	r.dc.SetFillStyle(g)
	r.dc.DrawRectangle(x, y, w, h)
	r.dc.Fill()
}

func (r *Raster) FillRadialGradient(x, y, w, h, cx, cy, radius float64, stops []network.GradientStop) {
	g := gg.NewRadialGradient(cx, cy, 0, cx, cy, radius)
	for _, s := range stops {
		g.AddColorStop(s.Offset, s.Color)
	}
	r.dc.SetFillStyle(g)
	r.dc.DrawRectangle(x, y, w, h)
	r.dc.Fill()
}

func (r *Raster) StrokeLine(x1, y1, x2, y2, width float64, c color.NRGBA, round bool) {
	r.dc.SetColor(c)
	r.dc.SetLineWidth(width)
	if round {
		r.dc.SetLineCap(gg.LineCapRound)
	} else {
		r.dc.SetLineCap(gg.LineCapButt)
	}
	r.dc.DrawLine(x1, y1, x2, y2)
	r.dc.Stroke()
}

// Label writes text in the top-left corner with the built-in bitmap font.
func (r *Raster) Label(text string, c color.Color) {
	r.dc.SetFontFace(basicfont.Face7x13)
	r.dc.SetColor(c)
	r.dc.DrawString(text, 8, 16)
}

func (r *Raster) Image() image.Image { return r.dc.Image() }

func (r *Raster) EncodePNG(w io.Writer) error { return r.dc.EncodePNG(w) }
