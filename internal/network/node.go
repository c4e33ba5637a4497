package network

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/iburimskiy/knowledge-network/internal/config"
)

// CenterID is the id of the stationary, color-evolving hub.
const CenterID = 0

// Node is a single moving, pulsing point of the network.
type Node struct {
	id int

	X, Y   float64
	VX, VY float64

	angle           float64
	angularVelocity float64

	baseSize float64
	size     float64
	color    color.NRGBA
	strength float64
	age      float64

	pulse        float64
	networkPhase float64
	colorPhase   float64

	hub         bool
	hubStrength float64

	links     []int
	prev      []int
	memory    map[int]struct{}
	strengths map[int]float64
}

func newNode(id int, x, y float64, cfg *config.Network, pal *palette, rng *rand.Rand) *Node {
	n := &Node{
		id:           id,
		X:            x,
		Y:            y,
		pulse:        rng.Float64() * 2 * math.Pi,
		networkPhase: rng.Float64() * 2 * math.Pi,
		colorPhase:   rng.Float64() * 2 * math.Pi,
		links:        make([]int, 0, config.MaxConnections),
		prev:         make([]int, 0, config.MaxConnections),
		memory:       make(map[int]struct{}),
		strengths:    make(map[int]float64),
	}
	if id == CenterID {
		n.baseSize = cfg.ParticleSize * config.CenterSizeFactor
		n.color = pal.nodes[0]
		n.hub = true
		n.hubStrength = 1
		n.strength = 1
	} else {
		n.VX = (rng.Float64() - 0.5) * cfg.BaseSpeed
		n.VY = (rng.Float64() - 0.5) * cfg.BaseSpeed
		n.angle = rng.Float64() * 2 * math.Pi
		n.angularVelocity = (rng.Float64() - 0.5) * config.AngularJitter
		n.baseSize = cfg.ParticleSize
		n.color = pal.nodes[rng.Intn(len(pal.nodes))]
		n.strength = rng.Float64()
	}
	n.size = n.baseSize
	return n
}

func (n *Node) ID() int                  { return n.id }
func (n *Node) Size() float64            { return n.size }
func (n *Node) IsHub() bool              { return n.hub }
func (n *Node) HubStrength() float64     { return n.hubStrength }
func (n *Node) ConnectionCount() int     { return len(n.links) }
func (n *Node) MemorySize() int          { return len(n.memory) }
func (n *Node) Connections() []int       { return append([]int(nil), n.links...) }
func (n *Node) Remembers(id int) bool    { _, ok := n.memory[id]; return ok }
func (n *Node) Connected(id int) bool    { return indexOf(n.links, id) >= 0 }
func (n *Node) wasConnected(id int) bool { return indexOf(n.prev, id) >= 0 }

// Strength returns the stored connection strength toward id.
func (n *Node) Strength(id int) (float64, bool) {
	s, ok := n.strengths[id]
	return s, ok
}

// AddConnection records a live connection, or refreshes the strength of an
// existing one. A node at the connection cap rejects every call unchanged.
func (n *Node) AddConnection(id int, strength float64) bool {
	if len(n.links) >= config.MaxConnections {
		return false
	}
	if n.Connected(id) {
		n.strengths[id] = clamp01(strength)
		return true
	}
	n.links = append(n.links, id)
	n.memory[id] = struct{}{}
	n.strengths[id] = clamp01(strength)
	return true
}

// RemoveConnection drops the live connection; memory is kept for reconnection.
func (n *Node) RemoveConnection(id int) {
	if i := indexOf(n.links, id); i >= 0 {
		n.links = append(n.links[:i], n.links[i+1:]...)
	}
}

// StrengthenConnection raises the stored strength by amount, capped at 1.
func (n *Node) StrengthenConnection(id int, amount float64) {
	cur, ok := n.strengths[id]
	if !ok {
		cur = config.DefaultStrength
	}
	n.strengths[id] = math.Min(1, cur+amount)
}

// beginPass moves the live set to prev and empties it.
func (n *Node) beginPass() {
	n.prev, n.links = n.links, n.prev[:0]
}

// decayDormant eases remembered-but-idle strengths toward the floor.
func (n *Node) decayDormant(persistence float64) {
	for id, s := range n.strengths {
		if s <= config.MinStrength || n.Connected(id) {
			continue
		}
		n.strengths[id] = config.MinStrength + (s-config.MinStrength)*clamp01(persistence)
	}
}

func (n *Node) distanceTo(o *Node) float64 {
	return math.Hypot(n.X-o.X, n.Y-o.Y)
}

// update advances the node by one frame. dt is in milliseconds.
func (n *Node) update(dt, width, height float64, nodes []*Node, cfg *config.Network) {
	if n.id == CenterID {
		n.X = width / 2
		n.Y = height / 2
		n.pulse += config.HubPulseSpeed
		n.colorPhase += config.HubColorSpeed
		n.age += dt
		return
	}

	count := len(n.links)
	speedMul := 1 / (1 + float64(count)*config.SlowdownPerLink)

	n.angle += n.angularVelocity
	n.VX += math.Cos(n.angle) * config.WanderAccel
	n.VY += math.Sin(n.angle) * config.WanderAccel

	if cfg.CentralGravity != 0 {
		dx := width/2 - n.X
		dy := height/2 - n.Y
		if d := math.Hypot(dx, dy); d > 0 {
			n.VX += dx / d * cfg.CentralGravity
			n.VY += dy / d * cfg.CentralGravity
		}
	}

	attraction := config.AttractionFactor
	if cfg.FocusedClustering {
		attraction *= 2
	}
	var ax, ay float64
	for _, id := range n.links {
		if id < 0 || id >= len(nodes) {
			continue
		}
		o := nodes[id]
		dx := o.X - n.X
		dy := o.Y - n.Y
		d := math.Hypot(dx, dy)
		if d == 0 {
			continue
		}
		s, ok := n.strengths[id]
		if !ok {
			s = config.DefaultStrength
		}
		force := s * attraction / d
		ax += dx / d * force
		ay += dy / d * force
	}
	n.VX += ax
	n.VY += ay

	maxSpeed := cfg.BaseSpeed * speedMul
	n.VX = clamp(n.VX, -maxSpeed, maxSpeed)
	n.VY = clamp(n.VY, -maxSpeed, maxSpeed)

	n.X = wrap(n.X+n.VX, width)
	n.Y = wrap(n.Y+n.VY, height)

	n.pulse += config.NodePulseSpeed
	n.networkPhase += config.NodeNetworkSpeed
	n.colorPhase += config.NodeColorSpeed
	n.age += dt

	if cfg.NodeHierarchy {
		if count >= config.HubPromoteLinks && !n.hub {
			n.hub = true
			n.hubStrength = config.HubInitialStrength
		}
		if n.hub {
			rate := cfg.NetworkGrowthRate
			if rate <= 0 {
				rate = config.StrengthenStep
			}
			n.hubStrength += (1 - n.hubStrength) * math.Min(rate, 1)
		}
	}

	target := n.baseSize + float64(count)*config.SizePerLink
	if n.hub {
		target += n.hubStrength * config.HubSizeBonus
	}
	n.size += (target - n.size) * config.SizeSmoothing
}

// draw paints the node as a pulsing square; the center node also gets a glow.
func (n *Node) draw(c Canvas, globalPulse, pulseGain float64, cfg *config.Network, pal *palette) {
	pulseSize := n.size + math.Sin(n.pulse)*cfg.PulseStrength*pulseGain
	if len(n.links) > 0 {
		pulseSize += math.Sin(globalPulse+n.networkPhase) * config.NetworkPulseDepth
	}

	ratio := math.Min(float64(len(n.links))/config.MaxConnections, 1)
	alpha := 0.7 + ratio*0.3
	if n.hub {
		alpha += n.hubStrength * 0.2
	}

	fill := n.color
	if n.id == CenterID || (cfg.ColorEvolution && n.hub) {
		fill = pal.evolve(n.colorPhase)
	}

	if n.id == CenterID {
		alpha += (math.Sin(n.pulse) + 1) / 2 * 0.3
		alpha = clamp01(alpha)

		glow := pulseSize * 2
		if glow > 0 {
			a := alpha * 0.3
			stops := []GradientStop{
				{Offset: 0, Color: withAlpha(fill, a)},
				{Offset: 0.5, Color: withAlpha(fill, a*128/255)},
				{Offset: 1, Color: withAlpha(fill, 0)},
			}
			c.FillRadialGradient(
				math.Floor(n.X-glow/2), math.Floor(n.Y-glow/2),
				math.Floor(glow), math.Floor(glow),
				n.X, n.Y, glow/2, stops)
		}
	}

	if pulseSize <= 0 {
		return
	}
	c.FillRect(
		math.Floor(n.X-pulseSize/2), math.Floor(n.Y-pulseSize/2),
		math.Floor(pulseSize), math.Floor(pulseSize),
		withAlpha(fill, alpha))
}

func indexOf(ids []int, id int) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// wrap folds v into [0,size) on a torus; a degenerate size pins to 0.
func wrap(v, size float64) float64 {
	if size <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	if v >= size {
		v = 0
	}
	return v
}
