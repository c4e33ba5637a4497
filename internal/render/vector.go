package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/iburimskiy/knowledge-network/internal/network"
)

type opKind int

const (
	opRect opKind = iota
	opLinear
	opRadial
	opLine
	opText
)

type vectorOp struct {
	kind       opKind
	x, y, w, h float64
	cx, cy, r  float64
	width      float64
	round      bool
	color      color.NRGBA
	stops      []network.GradientStop
	text       string
}

// Vector records canvas calls and writes them out as an SVG document.
type Vector struct {
	pw, ph int
	scale  float64
	ops    []vectorOp
}

func NewVector() *Vector { return &Vector{pw: 1, ph: 1, scale: 1} }

func (v *Vector) SetSize(pixelWidth, pixelHeight int, scale float64) {
	if scale <= 0 {
		scale = 1
	}
	v.pw, v.ph, v.scale = max(pixelWidth, 1), max(pixelHeight, 1), scale
	v.ops = v.ops[:0]
}

// Clear drops everything recorded so far.
func (v *Vector) Clear() {
	v.ops = v.ops[:0]
}

func (v *Vector) FillRect(x, y, w, h float64, c color.NRGBA) {
	v.push(vectorOp{kind: opRect, x: x, y: y, w: w, h: h, color: c})
}

func (v *Vector) FillLinearGradient(x, y, w, h float64, stops []network.GradientStop) {
	v.push(vectorOp{kind: opLinear, x: x, y: y, w: w, h: h, stops: append([]network.GradientStop(nil), stops...)})
}

func (v *Vector) FillRadialGradient(x, y, w, h, cx, cy, r float64, stops []network.GradientStop) {
	v.push(vectorOp{kind: opRadial, x: x, y: y, w: w, h: h, cx: cx, cy: cy, r: r, stops: append([]network.GradientStop(nil), stops...)})
}

func (v *Vector) StrokeLine(x1, y1, x2, y2, width float64, c color.NRGBA, round bool) {
	v.push(vectorOp{kind: opLine, x: x1, y: y1, w: x2, h: y2, width: width, round: round, color: c})
}

// Label records a text line in the top-left corner.
func (v *Vector) Label(text string, c color.NRGBA) {
	v.push(vectorOp{kind: opText, x: 8, y: 16, text: text, color: c})
}

// KeepBase forgets everything after the first op recorded since the last
// Clear, so the document holds the background plus what comes next.
func (v *Vector) KeepBase() {
	if len(v.ops) > 1 {
		v.ops = v.ops[:1]
	}
}

// Len reports the number of recorded ops.
func (v *Vector) Len() int { return len(v.ops) }

func (v *Vector) push(op vectorOp) {
	v.ops = append(v.ops, op)
}

// WriteTo renders the recorded ops as SVG.
func (v *Vector) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	canvas := svg.New(cw)
	canvas.Start(v.pw, v.ph)

	canvas.Def()
	for i, op := range v.ops {
		switch op.kind {
		case opLinear:
			canvas.LinearGradient(gradID(i), 0, 0, 0, 100, offcolors(op.stops))
		case opRadial:
			cx, cy, r := pct(op.cx-op.x, op.w), pct(op.cy-op.y, op.h), pct(op.r, op.w)
			canvas.RadialGradient(gradID(i), cx, cy, r, cx, cy, offcolors(op.stops))
		}
	}
	canvas.DefEnd()

	canvas.Gtransform(fmt.Sprintf("scale(%g)", v.scale))
	for i, op := range v.ops {
		x, y := int(math.Floor(op.x)), int(math.Floor(op.y))
		switch op.kind {
		case opRect:
			canvas.Rect(x, y, ceil(op.w), ceil(op.h), fill(op.color))
		case opLinear, opRadial:
			canvas.Rect(x, y, ceil(op.w), ceil(op.h), fmt.Sprintf("fill:url(#%s)", gradID(i)))
		case opLine:
			lineCap := "butt"
			if op.round {
				lineCap = "round"
			}
			canvas.Line(x, y, int(math.Floor(op.w)), int(math.Floor(op.h)),
				fmt.Sprintf("stroke:%s;stroke-opacity:%.3f;stroke-width:%g;stroke-linecap:%s",
					hex(op.color), alpha(op.color), op.width, lineCap))
		case opText:
			canvas.Text(x, y, op.text, "font-family:monospace;font-size:13px;"+fill(op.color))
		}
	}
	canvas.Gend()
	canvas.End()
	return cw.n, cw.err
}

func gradID(i int) string { return fmt.Sprintf("g%d", i) }

func offcolors(stops []network.GradientStop) []svg.Offcolor {
	out := make([]svg.Offcolor, 0, len(stops))
	for _, s := range stops {
		out = append(out, svg.Offcolor{
			Offset:  uint8(math.Round(math.Max(0, math.Min(1, s.Offset)) * 100)),
			Color:   hex(s.Color),
			Opacity: alpha(s.Color),
		})
	}
	return out
}

func pct(v, of float64) uint8 {
	if of <= 0 {
		return 50
	}
	return uint8(math.Round(math.Max(0, math.Min(1, v/of)) * 100))
}

func ceil(v float64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Ceil(v))
}

func hex(c color.NRGBA) string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

func alpha(c color.NRGBA) float64 { return float64(c.A) / 255 }

func fill(c color.NRGBA) string {
	return fmt.Sprintf("fill:%s;fill-opacity:%.3f", hex(c), alpha(c))
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
