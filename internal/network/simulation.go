package network

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/iburimskiy/knowledge-network/internal/config"
)

// ErrDestroyed is returned by Start after Destroy.
var ErrDestroyed = errors.New("simulation destroyed")

// State is the lifecycle state of a Simulation.
type State int

const (
	Idle State = iota
	Running
	Destroyed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Destroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithDarkMode sets the initial theme.
func WithDarkMode(dark bool) Option {
	return func(s *Simulation) { s.dark = dark }
}

// WithRand sets the random source used for seeding nodes.
func WithRand(rng *rand.Rand) Option {
	return func(s *Simulation) { s.rng = rng }
}

// Simulation owns a node set bound to one surface and drives the
// evaluate, update and draw pipeline once per host frame.
type Simulation struct {
	surface Surface
	canvas  Canvas
	host    Host
	cfg     config.Network
	pal     palette
	rng     *rand.Rand

	nodes  []*Node
	seeded bool
	bucket config.Breakpoint

	particleCount int
	maxDistance   float64
	width, height float64

	dark      bool
	pulse     float64
	pulseGain float64

	state    State
	frame    FrameID
	lastTime time.Time
	frames   uint64

	removeResize func()
	cancelResize func()
}

// New binds a simulation to surface on host. Failing to get a canvas from the
// surface is fatal; a surface that cannot be measured yet is seeded on the
// first successful resize or frame.
func New(surface Surface, host Host, cfg config.Network, opts ...Option) (*Simulation, error) {
	canvas, err := surface.Context2D()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoContext, err)
	}
	if canvas == nil {
		return nil, ErrNoContext
	}

	s := &Simulation{
		surface:       surface,
		canvas:        canvas,
		host:          host,
		cfg:           cfg,
		pal:           newPalette(cfg),
		particleCount: cfg.ParticleCount,
		maxDistance:   cfg.MaxConnectionDistance,
		pulseGain:     1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s.applyResize()
	s.removeResize = host.OnResize(s.onResize)
	return s, nil
}

// Start begins frame production. It is a no-op while running.
func (s *Simulation) Start() error {
	switch s.state {
	case Destroyed:
		return ErrDestroyed
	case Running:
		return nil
	}
	s.state = Running
	s.lastTime = s.host.Now()
	s.animate(s.lastTime)
	return nil
}

// Stop cancels the pending frame. Safe to call repeatedly.
func (s *Simulation) Stop() {
	if s.frame != 0 {
		s.host.CancelFrame(s.frame)
		s.frame = 0
	}
	if s.state == Running {
		s.state = Idle
	}
}

// Destroy stops the simulation and releases its resize listener. A destroyed
// simulation never schedules another frame.
func (s *Simulation) Destroy() {
	s.Stop()
	if s.removeResize != nil {
		s.removeResize()
		s.removeResize = nil
	}
	if s.cancelResize != nil {
		s.cancelResize()
		s.cancelResize = nil
	}
	s.state = Destroyed
}

// SetDarkMode retargets the palette without touching node state.
func (s *Simulation) SetDarkMode(dark bool) {
	if s.dark == dark {
		return
	}
	s.dark = dark
	if s.seeded && s.state != Destroyed {
		s.paintBase()
	}
}

// SetPulseGain scales the per-node pulse amplitude; 1 is the configured strength.
func (s *Simulation) SetPulseGain(gain float64) {
	if gain < 0 || math.IsNaN(gain) {
		gain = 0
	}
	s.pulseGain = gain
}

func (s *Simulation) State() State                  { return s.state }
func (s *Simulation) DarkMode() bool                { return s.dark }
func (s *Simulation) Config() config.Network        { return s.cfg }
func (s *Simulation) Nodes() []*Node                { return s.nodes }
func (s *Simulation) Frames() uint64                { return s.frames }
func (s *Simulation) Breakpoint() config.Breakpoint { return s.bucket }
func (s *Simulation) Size() (width, height float64) { return s.width, s.height }

// Budget reports the active particle count and connection distance.
func (s *Simulation) Budget() (count int, maxDistance float64) {
	return s.particleCount, s.maxDistance
}

func (s *Simulation) animate(now time.Time) {
	s.frame = 0
	if s.state != Running {
		return
	}
	dt := float64(now.Sub(s.lastTime)) / float64(time.Millisecond)
	s.lastTime = now
	s.step(dt)
	s.frame = s.host.RequestFrame(s.animate)
}

func (s *Simulation) step(dt float64) {
	if !s.seeded {
		s.applyResize()
	}
	s.pulse += config.GlobalPulseSpeed

	s.canvas.FillLinearGradient(0, 0, s.width, s.height, washStops(s.dark))

	NewEvaluator(s.maxDistance, s.cfg.ConnectionPersistence).Evaluate(s.nodes)

	for _, n := range s.nodes {
		n.update(dt, s.width, s.height, s.nodes, &s.cfg)
	}

	r := ConnectionRenderer{
		MaxDistance: s.maxDistance,
		Opacity:     s.cfg.ConnectionOpacity,
		Glow:        s.cfg.ConnectionGlow,
		Color:       s.pal.connection(s.dark),
	}
	for _, n := range s.nodes {
		for _, id := range n.links {
			if id > n.id && id < len(s.nodes) {
				r.Draw(s.canvas, n, s.nodes[id])
			}
		}
	}

	for _, n := range s.nodes {
		n.draw(s.canvas, s.pulse, s.pulseGain, &s.cfg, &s.pal)
	}
	s.frames++
}

func (s *Simulation) onResize() {
	if s.state == Destroyed {
		return
	}
	if s.cancelResize != nil {
		s.cancelResize()
	}
	s.cancelResize = s.host.AfterFunc(config.ResizeDebounce, func() {
		s.cancelResize = nil
		if s.state != Destroyed {
			s.applyResize()
		}
	})
}

// applyResize re-measures the surface, resizes the canvas and re-seeds when
// the responsive bucket changed. Unreadable dimensions skip the action.
func (s *Simulation) applyResize() {
	w, h, err := s.surface.ClientSize()
	if err != nil || !finite(w) || !finite(h) || w < 0 || h < 0 {
		return
	}
	dpr := s.surface.PixelRatio()
	if !finite(dpr) || dpr <= 0 {
		dpr = 1
	}

	s.width, s.height = w, h
	s.canvas.SetSize(int(math.Round(w*dpr)), int(math.Round(h*dpr)), dpr)

	bp := config.BreakpointFor(w)
	if !s.seeded || bp != s.bucket {
		s.bucket = bp
		s.particleCount, s.maxDistance = s.cfg.Budget(bp)
		s.seed()
	}
	s.paintBase()
}

func (s *Simulation) seed() {
	count := s.particleCount
	if count < 0 {
		count = 0
	}
	s.nodes = make([]*Node, 0, count)
	for i := 0; i < count; i++ {
		x, y := s.width/2, s.height/2
		if i != CenterID {
			x = s.rng.Float64() * s.width
			y = s.rng.Float64() * s.height
		}
		s.nodes = append(s.nodes, newNode(i, x, y, &s.cfg, &s.pal, s.rng))
	}
	s.seeded = true
}

func (s *Simulation) paintBase() {
	s.canvas.Clear()
	s.canvas.FillRect(0, 0, s.width, s.height, s.pal.background(s.dark))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
