package network

import (
	"errors"
	"image/color"
	"math/rand"
	"testing"
	"time"

	"github.com/iburimskiy/knowledge-network/internal/config"
)

type drawOp struct {
	kind  string
	x, y  float64
	w, h  float64
	width float64
	color color.NRGBA
	round bool
}

// recordCanvas records draw calls instead of rasterizing them.
type recordCanvas struct {
	pixelW, pixelH int
	scale          float64
	sizes          int
	clears         int
	ops            []drawOp
}

func (c *recordCanvas) SetSize(w, h int, scale float64) {
	c.pixelW, c.pixelH, c.scale = w, h, scale
	c.sizes++
}

func (c *recordCanvas) Clear() {
	c.clears++
	c.ops = nil
}

func (c *recordCanvas) FillRect(x, y, w, h float64, col color.NRGBA) {
	c.ops = append(c.ops, drawOp{kind: "rect", x: x, y: y, w: w, h: h, color: col})
}

func (c *recordCanvas) FillLinearGradient(x, y, w, h float64, stops []GradientStop) {
	c.ops = append(c.ops, drawOp{kind: "linear", x: x, y: y, w: w, h: h})
}

func (c *recordCanvas) FillRadialGradient(x, y, w, h, cx, cy, r float64, stops []GradientStop) {
	c.ops = append(c.ops, drawOp{kind: "radial", x: x, y: y, w: w, h: h})
}

func (c *recordCanvas) StrokeLine(x1, y1, x2, y2, width float64, col color.NRGBA, round bool) {
	c.ops = append(c.ops, drawOp{kind: "line", x: x1, y: y1, w: x2, h: y2, width: width, color: col, round: round})
}

func (c *recordCanvas) count(kind string) int {
	n := 0
	for _, op := range c.ops {
		if op.kind == kind {
			n++
		}
	}
	return n
}

var errNoSize = errors.New("not laid out")

type fakeSurface struct {
	w, h    float64
	dpr     float64
	sizeErr error
	ctxErr  error
	noCtx   bool
	canvas  *recordCanvas
}

func newFakeSurface(w, h float64) *fakeSurface {
	return &fakeSurface{w: w, h: h, dpr: 1, canvas: &recordCanvas{}}
}

func (s *fakeSurface) ClientSize() (float64, float64, error) {
	if s.sizeErr != nil {
		return 0, 0, s.sizeErr
	}
	return s.w, s.h, nil
}

func (s *fakeSurface) PixelRatio() float64 { return s.dpr }

func (s *fakeSurface) Context2D() (Canvas, error) {
	if s.ctxErr != nil {
		return nil, s.ctxErr
	}
	if s.noCtx {
		return nil, nil
	}
	return s.canvas, nil
}

var epoch = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

const frame = 16 * time.Millisecond

func newTestSim(t *testing.T, surface *fakeSurface, cfg config.Network) (*Simulation, *ManualHost) {
	t.Helper()
	host := NewManualHost(epoch)
	sim, err := New(surface, host, cfg, WithRand(rand.New(rand.NewSource(1))))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return sim, host
}

// bareNodes builds n plain nodes without randomness.
func bareNodes(n int) []*Node {
	cfg := config.Default()
	pal := newPalette(cfg)
	rng := rand.New(rand.NewSource(7))
	nodes := make([]*Node, n)
	for i := range nodes {
		nodes[i] = newNode(i, 0, 0, &cfg, &pal, rng)
	}
	return nodes
}
