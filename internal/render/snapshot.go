// Package render drives a network simulation headlessly and writes the
// resulting frame as PNG (gg) or SVG (svgo).
package render

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iburimskiy/knowledge-network/internal/config"
	"github.com/iburimskiy/knowledge-network/internal/network"
)

// Options controls a headless snapshot.
type Options struct {
	Width  float64       // logical width
	Height float64       // logical height
	Scale  float64       // device pixel ratio
	Frames int           // frames to run, at least 1
	Step   time.Duration // simulated time between frames
	Dark   bool
	Seed   int64
	Label  bool // stamp the stats line in the corner
}

// DefaultOptions renders a one-second desktop frame at 60 fps.
func DefaultOptions() Options {
	return Options{
		Width:  config.WindowWidth,
		Height: config.WindowHeight,
		Scale:  1,
		Frames: 60,
		Step:   16 * time.Millisecond,
		Seed:   1,
	}
}

// Result summarizes a finished snapshot.
type Result struct {
	Path   string        `json:"path,omitempty"`
	Preset string        `json:"preset,omitempty"`
	Nodes  int           `json:"nodes"`
	Frames uint64        `json:"frames"`
	Stats  network.Stats `json:"stats"`
}

// Headless is a fixed-size Surface around a canvas.
type Headless struct {
	Width, Height float64
	Ratio         float64
	Canvas        network.Canvas
}

func (h *Headless) ClientSize() (float64, float64, error) { return h.Width, h.Height, nil }
func (h *Headless) PixelRatio() float64                   { return h.Ratio }
func (h *Headless) Context2D() (network.Canvas, error) {
	if h.Canvas == nil {
		return nil, network.ErrNoContext
	}
	return h.Canvas, nil
}

// beforeLast runs right before the final frame.
type beforeLast func()

// Simulate runs cfg on canvas for opts.Frames frames and returns the
// simulation, which is left stopped.
func Simulate(cfg config.Network, canvas network.Canvas, opts Options) (*network.Simulation, error) {
	return simulate(cfg, canvas, opts, nil)
}

func simulate(cfg config.Network, canvas network.Canvas, opts Options, hook beforeLast) (*network.Simulation, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid snapshot size %gx%g", opts.Width, opts.Height)
	}
	frames := max(opts.Frames, 1)

	host := network.NewManualHost(time.Unix(0, 0))
	surface := &Headless{Width: opts.Width, Height: opts.Height, Ratio: opts.Scale, Canvas: canvas}
	sim, err := network.New(surface, host, cfg,
		network.WithDarkMode(opts.Dark),
		network.WithRand(rand.New(rand.NewSource(opts.Seed))))
	if err != nil {
		return nil, err
	}

	if frames == 1 && hook != nil {
		hook()
	}
	if err := sim.Start(); err != nil {
		return nil, err
	}
	for i := 1; i < frames; i++ {
		if i == frames-1 && hook != nil {
			hook()
		}
		host.Step(opts.Step)
	}
	sim.Stop()
	return sim, nil
}

func summarize(sim *network.Simulation) Result {
	return Result{Nodes: len(sim.Nodes()), Frames: sim.Frames(), Stats: sim.Stats()}
}

func labelText(r Result) string {
	return fmt.Sprintf("nodes %d  links %d  avg %.2f  clusters %d",
		r.Nodes, r.Stats.TotalConnections, r.Stats.AverageConnections, r.Stats.ClusterCount)
}

func labelColor(dark bool) color.NRGBA {
	if dark {
		return color.NRGBA{0xe2, 0xe8, 0xf0, 0xff}
	}
	return color.NRGBA{0x33, 0x41, 0x55, 0xff}
}

// RenderPNG simulates cfg and writes the last frame to path.
func RenderPNG(path string, cfg config.Network, opts Options) (Result, error) {
	r := NewRaster()
	sim, err := Simulate(cfg, r, opts)
	if err != nil {
		return Result{}, err
	}
	res := summarize(sim)
	res.Path = path
	if opts.Label {
		r.Label(labelText(res), labelColor(opts.Dark))
	}
	if err := writeFile(path, r.EncodePNG); err != nil {
		return Result{}, err
	}
	return res, nil
}

// RenderSVG simulates cfg and writes the background plus the last frame to path.
func RenderSVG(path string, cfg config.Network, opts Options) (Result, error) {
	v := NewVector()
	sim, err := simulate(cfg, v, opts, v.KeepBase)
	if err != nil {
		return Result{}, err
	}
	res := summarize(sim)
	res.Path = path
	if opts.Label {
		v.Label(labelText(res), labelColor(opts.Dark))
	}
	if err := writeFile(path, func(w io.Writer) error {
		_, err := v.WriteTo(w)
		return err
	}); err != nil {
		return Result{}, err
	}
	return res, nil
}

// RenderFile picks PNG or SVG from the path extension.
func RenderFile(path string, cfg config.Network, opts Options) (Result, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return RenderPNG(path, cfg, opts)
	case ".svg":
		return RenderSVG(path, cfg, opts)
	default:
		return Result{}, fmt.Errorf("unsupported output %q (want .png or .svg)", path)
	}
}

// RenderPresets renders every named preset into dir concurrently, one file
// per preset named <preset>.<format>.
func RenderPresets(ctx context.Context, dir, format string, names []string, opts Options) ([]Result, error) {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format != "png" && format != "svg" {
		return nil, fmt.Errorf("unsupported format %q (want png or svg)", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	results := make([]Result, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cfg, err := config.Preset(name)
			if err != nil {
				return err
			}
			res, err := RenderFile(filepath.Join(dir, name+"."+format), cfg, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", name, err)
			}
			res.Preset = name
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
