package game

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/knowledge-network/internal/network"
)

// radialSegments is the number of slices used to tessellate radial gradients.
const radialSegments = 32

var (
	whiteOnce  sync.Once
	whiteImage *ebiten.Image
)

// whiteSubImage is the 1x1 source for vertex-colored triangles.
func whiteSubImage() *ebiten.Image {
	whiteOnce.Do(func() {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	})
	return whiteImage
}

// Canvas is a network.Canvas drawing into an offscreen ebiten image that
// the game blits to the screen every Draw.
type Canvas struct {
	img   *ebiten.Image
	scale float32

	vs []ebiten.Vertex
	is []uint16
}

func NewCanvas() *Canvas {
	return &Canvas{img: ebiten.NewImage(1, 1), scale: 1}
}

func (c *Canvas) Image() *ebiten.Image { return c.img }

func (c *Canvas) SetSize(pixelWidth, pixelHeight int, scale float64) {
	pixelWidth, pixelHeight = max(pixelWidth, 1), max(pixelHeight, 1)
	if b := c.img.Bounds(); b.Dx() != pixelWidth || b.Dy() != pixelHeight {
		c.img.Deallocate()
		c.img = ebiten.NewImage(pixelWidth, pixelHeight)
	}
	if scale <= 0 {
		scale = 1
	}
	c.scale = float32(scale)
}

func (c *Canvas) Clear() { c.img.Clear() }

func (c *Canvas) FillRect(x, y, w, h float64, clr color.NRGBA) {
	s := c.scale
	vector.DrawFilledRect(c.img, float32(x)*s, float32(y)*s, float32(w)*s, float32(h)*s, clr, false)
}

// FillLinearGradient lays one quad per pair of stops and lets the GPU
// interpolate the vertex colors.
func (c *Canvas) FillLinearGradient(x, y, w, h float64, stops []network.GradientStop) {
	if len(stops) == 0 {
		return
	}
	s := c.scale
	x0, x1 := float32(x)*s, float32(x+w)*s
	c.vs, c.is = c.vs[:0], c.is[:0]
	for i, st := range stops {
		yy := float32(y+st.Offset*h) * s
		c.vs = append(c.vs, vertex(x0, yy, st.Color), vertex(x1, yy, st.Color))
		if i > 0 {
			b := uint16(2 * (i - 1))
			c.is = append(c.is, b, b+1, b+2, b+1, b+3, b+2)
		}
	}
	c.img.DrawTriangles(c.vs, c.is, whiteSubImage(), &ebiten.DrawTrianglesOptions{})
}

// FillRadialGradient tessellates one ring per stop around (cx, cy). The
// rectangle only bounds the circle.
func (c *Canvas) FillRadialGradient(_, _, _, _, cx, cy, r float64, stops []network.GradientStop) {
	if len(stops) == 0 || r <= 0 {
		return
	}
	s := c.scale
	c.vs, c.is = c.vs[:0], c.is[:0]
	for _, st := range stops {
		rr := r * st.Offset
		for k := 0; k < radialSegments; k++ {
			a := 2 * math.Pi * float64(k) / radialSegments
			c.vs = append(c.vs, vertex(float32(cx+rr*math.Cos(a))*s, float32(cy+rr*math.Sin(a))*s, st.Color))
		}
	}
	for ring := 1; ring < len(stops); ring++ {
		inner := uint16((ring - 1) * radialSegments)
		outer := uint16(ring * radialSegments)
		for k := uint16(0); k < radialSegments; k++ {
			next := (k + 1) % radialSegments
			c.is = append(c.is,
				inner+k, outer+k, outer+next,
				inner+k, outer+next, inner+next)
		}
	}
	c.img.DrawTriangles(c.vs, c.is, whiteSubImage(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func (c *Canvas) StrokeLine(x1, y1, x2, y2, width float64, clr color.NRGBA, round bool) {
	s := c.scale
	if !round {
		vector.StrokeLine(c.img, float32(x1)*s, float32(y1)*s, float32(x2)*s, float32(y2)*s, float32(width)*s, clr, true)
		return
	}
	var path vector.Path
	path.MoveTo(float32(x1)*s, float32(y1)*s)
	path.LineTo(float32(x2)*s, float32(y2)*s)
	c.vs, c.is = path.AppendVerticesAndIndicesForStroke(c.vs[:0], c.is[:0], &vector.StrokeOptions{
		Width:   float32(width) * s,
		LineCap: vector.LineCapRound,
	})
	for i := range c.vs {
		c.vs[i].SrcX, c.vs[i].SrcY = 1, 1
		c.vs[i].ColorR = float32(clr.R) / 255
		c.vs[i].ColorG = float32(clr.G) / 255
		c.vs[i].ColorB = float32(clr.B) / 255
		c.vs[i].ColorA = float32(clr.A) / 255
	}
	c.img.DrawTriangles(c.vs, c.is, whiteSubImage(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func vertex(x, y float32, clr color.NRGBA) ebiten.Vertex {
	return ebiten.Vertex{
		DstX:   x,
		DstY:   y,
		SrcX:   1,
		SrcY:   1,
		ColorR: float32(clr.R) / 255,
		ColorG: float32(clr.G) / 255,
		ColorB: float32(clr.B) / 255,
		ColorA: float32(clr.A) / 255,
	}
}
