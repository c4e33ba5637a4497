// Package game runs the knowledge network in an ebiten window.
package game

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/knowledge-network/internal/backdrop"
	"github.com/iburimskiy/knowledge-network/internal/config"
	"github.com/iburimskiy/knowledge-network/internal/network"
)

// hudRefresh is how often the on-screen stats line is recomputed.
const hudRefresh = 500 * time.Millisecond

var errNotLaidOut = errors.New("window not laid out yet")

// Options configures the interactive window.
type Options struct {
	Config        config.Network
	Dark          bool
	ReducedMotion bool
	AudioPath     string
	// Updates, when set, delivers reloaded configs (see internal/watch).
	Updates <-chan config.Network
}

// windowSurface reports the window size ebiten last laid out.
type windowSurface struct{ g *Game }

func (s windowSurface) ClientSize() (float64, float64, error) {
	if s.g.width <= 0 || s.g.height <= 0 {
		return 0, 0, errNotLaidOut
	}
	return float64(s.g.width), float64(s.g.height), nil
}

func (s windowSurface) PixelRatio() float64 { return s.g.scale }

func (s windowSurface) Context2D() (network.Canvas, error) { return s.g.canvas, nil }

type Game struct {
	host     *network.ManualHost
	canvas   *Canvas
	backdrop *backdrop.Backdrop
	music    *Soundtrack
	updates  <-chan config.Network

	width, height int
	scale         float64

	started  time.Time
	lastTick time.Time
	paused   bool
	lastErr  error

	hud     string
	hudNext time.Time
}

func New(opts Options) (*Game, error) {
	now := time.Now()
	g := &Game{
		host:     network.NewManualHost(now),
		canvas:   NewCanvas(),
		updates:  opts.Updates,
		scale:    1,
		started:  now,
		lastTick: now,
	}

	b, err := backdrop.New(windowSurface{g}, g.host, backdrop.Options{
		Config:        opts.Config,
		DarkMode:      opts.Dark,
		ReducedMotion: opts.ReducedMotion,
		Visible:       true,
	})
	if err != nil {
		return nil, err
	}
	g.backdrop = b

	if opts.AudioPath != "" {
		music, err := OpenSoundtrack(opts.AudioPath)
		if err != nil {
			b.Close()
			return nil, err
		}
		g.music = music
	}
	return g, nil
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.backdrop.SetDarkMode(!g.backdrop.DarkMode())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.togglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		if err := g.openConfigDialog(); err != nil {
			g.lastErr = err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.printStats()
	}

	select {
	case cfg := <-g.updates:
		g.applyConfig(cfg, "watch")
	default:
	}

	if g.music != nil && !g.paused {
		g.backdrop.SetPulseGain(g.music.PulseGain())
	}

	now := time.Now()
	g.host.Step(now.Sub(g.lastTick))
	g.lastTick = now
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.backdrop.Simulation() == nil {
		screen.Fill(g.baseColor())
	} else {
		screen.DrawImage(g.canvas.Image(), nil)
	}

	if now := time.Now(); now.After(g.hudNext) {
		g.hud = g.status()
		g.hudNext = now.Add(hudRefresh)
	}
	ebitenutil.DebugPrintAt(screen, g.hud, 12, 12)
	if g.lastErr != nil {
		ebitenutil.DebugPrintAt(screen, "Error: "+g.lastErr.Error(), 12, 28)
	}
}

// Layout tracks the logical window size and renders at device resolution.
// A size change goes through the simulation's debounced resize path.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := ebiten.Monitor().DeviceScaleFactor()
	if scale <= 0 {
		scale = 1
	}
	if outsideWidth != g.width || outsideHeight != g.height || scale != g.scale {
		g.width, g.height, g.scale = outsideWidth, outsideHeight, scale
		g.host.Resize()
	}
	return int(float64(outsideWidth) * scale), int(float64(outsideHeight) * scale)
}

func (g *Game) Close() {
	g.backdrop.Close()
	g.music.Close()
}

func (g *Game) togglePause() {
	g.paused = !g.paused
	if err := g.backdrop.SetVisible(!g.paused); err != nil {
		g.lastErr = err
	}
	g.music.TogglePause()
}

func (g *Game) applyConfig(cfg config.Network, source string) {
	rebuilt, err := g.backdrop.SetConfig(cfg)
	if err != nil {
		g.lastErr = err
		return
	}
	g.lastErr = nil
	if rebuilt {
		fmt.Printf("Network rebuilt from %s config\n", source)
	}
}

func (g *Game) openConfigDialog() error {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Network Config"),
		zenity.FileFilters{{
			Name:     "Network config",
			Patterns: []string{"*.toml", "*.yaml", "*.yml", "*.json"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}

	cfg, err := config.LoadNetwork(filename)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded config %v\n", filename)
	g.applyConfig(cfg, "dialog")
	return nil
}

func (g *Game) printStats() {
	sim := g.backdrop.Simulation()
	if sim == nil {
		fmt.Println("No simulation running")
		return
	}
	st := sim.Stats()
	count, dist := sim.Budget()
	fmt.Printf("[%s] %s: %d nodes (max distance %.0f), %d connections, %.2f avg, %d clusters\n",
		formatDuration(time.Since(g.started)), sim.Breakpoint(), count, dist,
		st.TotalConnections, st.AverageConnections, st.ClusterCount)
}

func (g *Game) status() string {
	keys := "D dark  Space pause  O open  S stats  Q quit"
	sim := g.backdrop.Simulation()
	switch {
	case sim == nil:
		return "Reduced motion - " + keys
	case g.paused:
		return "Paused - " + keys
	}
	st := sim.Stats()
	line := fmt.Sprintf("%s  nodes %d  links %d  clusters %d",
		formatDuration(time.Since(g.started)), len(sim.Nodes()), st.TotalConnections, st.ClusterCount)
	if g.music != nil {
		line += fmt.Sprintf("  audio %s  level %.2f", formatDuration(g.music.Position()), g.music.level)
	}
	return line + " - " + keys
}

func (g *Game) baseColor() color.Color {
	cfg := g.backdrop.Config()
	hex := cfg.BackgroundColor
	if g.backdrop.DarkMode() {
		hex = cfg.BackgroundColorDark
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.Black
	}
	return c
}

// Run opens the window and blocks until it is closed.
func Run(opts Options) error {
	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("Knowledge Network - D: Dark, Space: Pause, O: Open config, S: Stats, Esc/Q: Quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g, err := New(opts)
	if err != nil {
		return err
	}
	defer g.Close()

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
