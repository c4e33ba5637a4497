package network

import (
	"image/color"
	"math"
	"testing"

	"github.com/iburimskiy/knowledge-network/internal/config"
)

func TestAddConnection_Cap(t *testing.T) {
	n := bareNodes(1)[0]
	for id := 1; id <= config.MaxConnections; id++ {
		if !n.AddConnection(id, 0.5) {
			t.Fatalf("AddConnection(%d) failed below the cap", id)
		}
	}
	if n.AddConnection(99, 0.5) {
		t.Error("expected AddConnection to fail at the cap")
	}
	if n.ConnectionCount() != config.MaxConnections {
		t.Errorf("expected %d connections, got %d", config.MaxConnections, n.ConnectionCount())
	}
	if n.Remembers(99) {
		t.Error("a rejected connection must not enter memory")
	}
	if n.AddConnection(3, 0.9) {
		t.Error("expected AddConnection to fail at the cap for an existing id")
	}
	if s, _ := n.Strength(3); s != 0.5 {
		t.Errorf("a rejected call must leave the strength at 0.5, got %v", s)
	}
}

func TestAddConnection_DuplicateBelowCap(t *testing.T) {
	n := bareNodes(1)[0]
	n.AddConnection(3, 0.4)
	if !n.AddConnection(3, 0.9) {
		t.Fatal("expected a duplicate below the cap to succeed")
	}
	if n.ConnectionCount() != 1 {
		t.Errorf("expected 1 connection, got %d", n.ConnectionCount())
	}
	if s, _ := n.Strength(3); s != 0.9 {
		t.Errorf("expected updated strength 0.9, got %v", s)
	}
}

func TestRemoveConnection_KeepsMemory(t *testing.T) {
	n := bareNodes(1)[0]
	n.AddConnection(4, 0.5)
	n.RemoveConnection(4)
	if n.Connected(4) {
		t.Error("expected connection to be removed")
	}
	if !n.Remembers(4) {
		t.Error("expected memory to keep removed connection")
	}
}

func TestStrengthenConnection(t *testing.T) {
	n := bareNodes(1)[0]
	n.StrengthenConnection(2, 0.1)
	if s, _ := n.Strength(2); math.Abs(s-0.6) > 1e-9 {
		t.Errorf("expected default 0.5 + 0.1, got %v", s)
	}
	n.AddConnection(3, 0.95)
	n.StrengthenConnection(3, 0.1)
	if s, _ := n.Strength(3); s != 1 {
		t.Errorf("expected strength capped at 1, got %v", s)
	}
}

func TestUpdate_CenterPinned(t *testing.T) {
	cfg := config.Default()
	nodes := bareNodes(2)
	center := nodes[0]
	center.X, center.Y = 3, 4
	center.update(16, 800, 600, nodes, &cfg)
	if center.X != 400 || center.Y != 300 {
		t.Errorf("expected center at (400,300), got (%v,%v)", center.X, center.Y)
	}
}

func TestUpdate_WrapsAround(t *testing.T) {
	cfg := config.Default()
	cfg.CentralGravity = 0
	nodes := bareNodes(2)
	n := nodes[1]
	n.X, n.Y = 799.95, -0.05
	n.VX, n.VY = 0.3, -0.3
	n.update(16, 800, 600, nodes, &cfg)
	if n.X < 0 || n.X >= 800 || n.Y < 0 || n.Y >= 600 {
		t.Errorf("position escaped the surface: (%v,%v)", n.X, n.Y)
	}
	if n.X > 10 {
		t.Errorf("expected x to wrap to the left edge, got %v", n.X)
	}
	if n.Y < 590 {
		t.Errorf("expected y to wrap to the bottom edge, got %v", n.Y)
	}
}

func TestUpdate_CoincidentNodesNoNaN(t *testing.T) {
	cfg := config.Default()
	nodes := bareNodes(3)
	for _, n := range nodes {
		n.X, n.Y = 400, 300
	}
	nodes[1].AddConnection(2, 0.8)
	nodes[2].AddConnection(1, 0.8)
	for i := 0; i < 10; i++ {
		for _, n := range nodes {
			n.update(16, 800, 600, nodes, &cfg)
		}
	}
	for _, n := range nodes {
		if math.IsNaN(n.X) || math.IsNaN(n.Y) || math.IsNaN(n.VX) || math.IsNaN(n.VY) {
			t.Fatalf("node %d has NaN state", n.ID())
		}
	}
}

// still isolates a node from wander by aiming its heading straight down,
// so any x velocity comes from the other forces.
func still(n *Node) {
	n.VX, n.VY = 0, 0
	n.angle, n.angularVelocity = math.Pi/2, 0
}

func TestUpdate_CentralGravity(t *testing.T) {
	tests := []struct {
		name    string
		x, y    float64
		gravity float64
	}{
		{"from top left", 100, 200, 0.01},
		{"from bottom right", 700, 500, 0.02},
		{"disabled", 100, 200, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.CentralGravity = tt.gravity
			nodes := bareNodes(2)
			n := nodes[1]
			n.X, n.Y = tt.x, tt.y
			still(n)
			n.update(16, 800, 600, nodes, &cfg)

			dx, dy := 400-tt.x, 300-tt.y
			d := math.Hypot(dx, dy)
			wantVX := dx / d * tt.gravity
			wantVY := config.WanderAccel + dy/d*tt.gravity
			if math.Abs(n.VX-wantVX) > 1e-12 || math.Abs(n.VY-wantVY) > 1e-12 {
				t.Errorf("velocity = (%v,%v), want (%v,%v)", n.VX, n.VY, wantVX, wantVY)
			}
		})
	}
}

func TestUpdate_AttractionTowardConnections(t *testing.T) {
	tests := []struct {
		name     string
		focused  bool
		d        float64
		strength float64
		factor   float64
	}{
		{"standard", false, 50, 0.8, 1},
		{"standard far", false, 100, 0.4, 1},
		{"focused clustering", true, 50, 0.8, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.CentralGravity = 0
			cfg.FocusedClustering = tt.focused
			nodes := bareNodes(3)
			n, o := nodes[1], nodes[2]
			n.X, n.Y = 100, 100
			o.X, o.Y = 100+tt.d, 100
			still(n)
			n.AddConnection(o.ID(), tt.strength)
			n.update(16, 800, 600, nodes, &cfg)

			want := tt.strength * config.AttractionFactor * tt.factor / tt.d
			if math.Abs(n.VX-want) > 1e-12 {
				t.Errorf("VX = %v, want %v toward the connected node", n.VX, want)
			}
			if math.Abs(n.VY-config.WanderAccel) > 1e-12 {
				t.Errorf("VY = %v, want only the wander step %v", n.VY, config.WanderAccel)
			}
		})
	}
}

func TestUpdate_SpeedCapShrinksWithConnections(t *testing.T) {
	cfg := config.Default()
	cfg.CentralGravity = 0
	nodes := bareNodes(8)
	n := nodes[1]
	for id := 2; id < 7; id++ {
		n.AddConnection(id, 0.3)
	}
	n.VX, n.VY = 10, 10
	n.update(16, 10000, 10000, nodes, &cfg)
	limit := cfg.BaseSpeed / (1 + 5*config.SlowdownPerLink)
	if math.Abs(n.VX) > limit+1e-12 || math.Abs(n.VY) > limit+1e-12 {
		t.Errorf("velocity (%v,%v) exceeds cap %v", n.VX, n.VY, limit)
	}
}

func TestUpdate_HubPromotionNeverReverts(t *testing.T) {
	cfg := config.Default()
	cfg.NodeHierarchy = true
	nodes := bareNodes(6)
	n := nodes[1]
	for id := 2; id <= 4; id++ {
		n.AddConnection(id, 0.5)
	}
	n.update(16, 800, 600, nodes, &cfg)
	if !n.IsHub() {
		t.Fatal("expected promotion at 3 connections")
	}
	first := n.HubStrength()
	if first < config.HubInitialStrength || first > 1 {
		t.Errorf("unexpected initial hub strength %v", first)
	}

	n.beginPass()
	for i := 0; i < 500; i++ {
		n.update(16, 800, 600, nodes, &cfg)
	}
	if !n.IsHub() {
		t.Error("hub status must never revert")
	}
	if n.HubStrength() <= first || n.HubStrength() > 1 {
		t.Errorf("expected hub strength to grow toward 1, got %v", n.HubStrength())
	}
}

func TestUpdate_NoPromotionWithoutHierarchy(t *testing.T) {
	cfg := config.Default()
	nodes := bareNodes(6)
	n := nodes[1]
	for id := 2; id <= 5; id++ {
		n.AddConnection(id, 0.5)
	}
	n.update(16, 800, 600, nodes, &cfg)
	if n.IsHub() {
		t.Error("hierarchy disabled: node must not become a hub")
	}
}

func TestUpdate_SizeEasesTowardTarget(t *testing.T) {
	cfg := config.Default()
	nodes := bareNodes(4)
	n := nodes[1]
	n.AddConnection(2, 0.5)
	n.AddConnection(3, 0.5)
	target := n.baseSize + 2*config.SizePerLink
	prev := n.Size()
	n.update(16, 800, 600, nodes, &cfg)
	if n.Size() <= prev || n.Size() >= target {
		t.Errorf("expected size strictly between %v and %v, got %v", prev, target, n.Size())
	}
	for i := 0; i < 200; i++ {
		n.update(16, 800, 600, nodes, &cfg)
	}
	if math.Abs(n.Size()-target) > 1e-3 {
		t.Errorf("expected size to settle at %v, got %v", target, n.Size())
	}
}

func TestDraw_CenterGlowAndAlpha(t *testing.T) {
	cfg := config.Default()
	pal := newPalette(cfg)
	nodes := bareNodes(2)
	c := &recordCanvas{}
	nodes[0].X, nodes[0].Y = 100, 100
	nodes[0].draw(c, 0, 1, &cfg, &pal)
	if c.count("radial") != 1 || c.count("rect") != 1 {
		t.Fatalf("expected glow + body for the center node, got %+v", c.ops)
	}

	c = &recordCanvas{}
	nodes[1].X, nodes[1].Y = 50, 50
	nodes[1].draw(c, 0, 1, &cfg, &pal)
	if c.count("radial") != 0 || c.count("rect") != 1 {
		t.Fatalf("expected body only, got %+v", c.ops)
	}
	want := 0.7 * 255
	if a := float64(c.ops[0].color.A); math.Abs(a-want) > 1 {
		t.Errorf("expected alpha ~0.7 for an unconnected node, got %v", a)
	}
}

func TestDraw_ColorEvolution(t *testing.T) {
	plain := color.NRGBA{R: 1, G: 2, B: 3, A: 255}
	tests := []struct {
		name    string
		evolve  bool
		hub     bool
		evolved bool
	}{
		{"hub with evolution", true, true, true},
		{"hub without evolution", false, true, false},
		{"plain node with evolution", true, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.ColorEvolution = tt.evolve
			pal := newPalette(cfg)
			n := bareNodes(2)[1]
			n.X, n.Y = 50, 50
			n.color = plain
			n.hub, n.hubStrength = tt.hub, 1
			n.colorPhase = math.Pi / 2

			c := &recordCanvas{}
			n.draw(c, 0, 1, &cfg, &pal)
			if c.count("rect") != 1 {
				t.Fatalf("expected one body rect, got %+v", c.ops)
			}
			want := plain
			if tt.evolved {
				want = pal.evolve(n.colorPhase)
			}
			got := c.ops[0].color
			got.A, want.A = 255, 255
			if got != want {
				t.Errorf("fill = %v, want %v", got, want)
			}
		})
	}
}

func TestPaletteEvolveStaysInRange(t *testing.T) {
	pal := newPalette(config.Default())
	for phase := -10.0; phase < 10; phase += 0.01 {
		pal.evolve(phase)
	}
	if got := pal.evolve(math.Pi / 2); got != pal.nodes[len(pal.nodes)-1] {
		t.Errorf("expected last palette entry at the sine peak, got %v", got)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct{ v, size, want float64 }{
		{5, 10, 5},
		{10, 10, 0},
		{-1, 10, 9},
		{25, 10, 5},
		{3, 0, 0},
		{math.NaN(), 10, 0},
	}
	for _, tt := range tests {
		if got := wrap(tt.v, tt.size); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("wrap(%v, %v) = %v, want %v", tt.v, tt.size, got, tt.want)
		}
	}
}
