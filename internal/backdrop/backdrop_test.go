package backdrop

import (
	"errors"
	"image/color"
	"math/rand"
	"testing"
	"time"

	"github.com/iburimskiy/knowledge-network/internal/config"
	"github.com/iburimskiy/knowledge-network/internal/network"
)

type nopCanvas struct{ fills int }

func (c *nopCanvas) SetSize(int, int, float64)                  {}
func (c *nopCanvas) Clear()                                     {}
func (c *nopCanvas) FillRect(_, _, _, _ float64, _ color.NRGBA) { c.fills++ }
func (c *nopCanvas) FillLinearGradient(_, _, _, _ float64, _ []network.GradientStop) {
}
func (c *nopCanvas) FillRadialGradient(_, _, _, _, _, _, _ float64, _ []network.GradientStop) {
}
func (c *nopCanvas) StrokeLine(_, _, _, _, _ float64, _ color.NRGBA, _ bool) {}

type surface struct {
	canvas *nopCanvas
	err    error
}

func (s *surface) ClientSize() (float64, float64, error) { return 1200, 700, nil }
func (s *surface) PixelRatio() float64                   { return 1 }
func (s *surface) Context2D() (network.Canvas, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.canvas, nil
}

const frame = 16 * time.Millisecond

func setup(t *testing.T, opts Options) (*Backdrop, *network.ManualHost) {
	t.Helper()
	host := network.NewManualHost(time.Unix(0, 0))
	b, err := New(&surface{canvas: &nopCanvas{}}, host, opts, network.WithRand(rand.New(rand.NewSource(3))))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return b, host
}

func TestBackdrop_WaitsForVisibility(t *testing.T) {
	b, host := setup(t, Options{Config: config.Default()})
	if b.Simulation() != nil || b.Loaded() {
		t.Fatal("hidden backdrop must not create a simulation")
	}
	if err := b.SetVisible(true); err != nil {
		t.Fatalf("SetVisible failed: %v", err)
	}
	if !b.Running() || !b.Loaded() {
		t.Fatal("expected a running simulation once visible")
	}
	sim := b.Simulation()

	b.SetVisible(false)
	if b.Running() || host.PendingFrames() != 0 {
		t.Error("expected animation paused while hidden")
	}
	b.SetVisible(true)
	if b.Simulation() != sim || !b.Running() {
		t.Error("expected the same simulation to resume")
	}
}

func TestBackdrop_ReducedMotion(t *testing.T) {
	b, host := setup(t, Options{Config: config.Default(), Visible: true, ReducedMotion: true})
	if b.Simulation() != nil {
		t.Fatal("reduced motion must never start an animation")
	}
	if !b.Loaded() {
		t.Error("reduced motion still marks the surface loaded")
	}
	host.Step(frame)
	if host.PendingFrames() != 0 {
		t.Error("no frames expected under reduced motion")
	}

	b.SetReducedMotion(false)
	if !b.Running() {
		t.Error("expected animation once reduced motion is lifted")
	}
	b.SetReducedMotion(true)
	if b.Simulation() != nil || host.PendingFrames() != 0 {
		t.Error("expected animation torn down when reduced motion is enabled")
	}
}

func TestBackdrop_DarkModeDoesNotRebuild(t *testing.T) {
	b, _ := setup(t, Options{Config: config.Default(), Visible: true})
	sim := b.Simulation()
	b.SetDarkMode(true)
	if b.Simulation() != sim {
		t.Error("theme change must not rebuild")
	}
	if !sim.DarkMode() {
		t.Error("dark mode not forwarded")
	}
}

func TestBackdrop_ConfigChanges(t *testing.T) {
	b, host := setup(t, Options{Config: config.Default(), Visible: true})
	sim := b.Simulation()

	rebuilt, err := b.SetConfig(config.Default())
	if err != nil || rebuilt || b.Simulation() != sim {
		t.Fatalf("identical config must not rebuild (rebuilt=%v err=%v)", rebuilt, err)
	}

	hero, _ := config.Preset("hero")
	rebuilt, err = b.SetConfig(hero)
	if err != nil || !rebuilt {
		t.Fatalf("expected rebuild, got rebuilt=%v err=%v", rebuilt, err)
	}
	if b.Simulation() == sim || sim.State() != network.Destroyed {
		t.Error("expected the old simulation destroyed and replaced")
	}
	if n := len(b.Simulation().Nodes()); n != 188 {
		t.Errorf("expected hero desktop budget of 188 nodes, got %d", n)
	}
	if host.PendingFrames() != 1 {
		t.Errorf("expected exactly one pending frame, got %d", host.PendingFrames())
	}
}

func TestBackdrop_KeepsDarkAndGainAcrossRebuild(t *testing.T) {
	b, _ := setup(t, Options{Config: config.Default(), Visible: true, DarkMode: true})
	b.SetPulseGain(2)
	product, _ := config.Preset("product")
	b.SetConfig(product)
	if !b.Simulation().DarkMode() {
		t.Error("dark mode lost across rebuild")
	}
}

func TestBackdrop_ContextFailure(t *testing.T) {
	host := network.NewManualHost(time.Unix(0, 0))
	boom := errors.New("no gpu")
	_, err := New(&surface{err: boom}, host, Options{Config: config.Default(), Visible: true})
	if !errors.Is(err, network.ErrNoContext) {
		t.Fatalf("expected ErrNoContext, got %v", err)
	}
}

func TestBackdrop_Close(t *testing.T) {
	b, host := setup(t, Options{Config: config.Default(), Visible: true})
	sim := b.Simulation()
	b.Close()
	if sim.State() != network.Destroyed || host.PendingFrames() != 0 {
		t.Error("Close must destroy the simulation")
	}
	if err := b.SetVisible(true); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestVisible(t *testing.T) {
	vp := Rect{X: 0, Y: 0, W: 1000, H: 800}
	tests := []struct {
		name   string
		target Rect
		want   bool
	}{
		{"inside", Rect{X: 100, Y: 100, W: 200, H: 200}, true},
		{"within margin below", Rect{X: 0, Y: 850, W: 1000, H: 400}, true},
		{"far below", Rect{X: 0, Y: 2000, W: 1000, H: 400}, false},
		{"sliver", Rect{X: 0, Y: 890, W: 1000, H: 1000}, false},
		{"empty", Rect{X: 10, Y: 10}, false},
	}
	for _, tt := range tests {
		if got := Visible(vp, tt.target); got != tt.want {
			t.Errorf("%s: Visible = %v, want %v", tt.name, got, tt.want)
		}
	}
}
