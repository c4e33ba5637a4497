// Package backdrop ties a network simulation to its host: it only runs while
// the surface is visible and motion is allowed, forwards theme changes, and
// rebuilds the simulation when the structural configuration changes.
package backdrop

import (
	"errors"
	"fmt"

	"github.com/iburimskiy/knowledge-network/internal/config"
	"github.com/iburimskiy/knowledge-network/internal/network"
	"github.com/mitchellh/hashstructure/v2"
)

// ErrClosed is returned by calls that would create a simulation after Close.
var ErrClosed = errors.New("backdrop closed")

// Options is the initial state of a Backdrop.
type Options struct {
	Config        config.Network
	DarkMode      bool
	ReducedMotion bool
	Visible       bool
}

// Backdrop owns at most one Simulation at a time.
type Backdrop struct {
	surface network.Surface
	host    network.Host
	simOpts []network.Option

	cfg     config.Network
	key     uint64
	dark    bool
	reduced bool
	visible bool
	gain    float64

	sim    *network.Simulation
	loaded bool
	closed bool
}

// New creates the adapter and, if the options allow it, starts a simulation.
func New(surface network.Surface, host network.Host, opts Options, simOpts ...network.Option) (*Backdrop, error) {
	key, err := fingerprint(opts.Config)
	if err != nil {
		return nil, err
	}
	b := &Backdrop{
		surface: surface,
		host:    host,
		simOpts: simOpts,
		cfg:     opts.Config,
		key:     key,
		dark:    opts.DarkMode,
		reduced: opts.ReducedMotion,
		visible: opts.Visible,
		gain:    1,
	}
	if err := b.sync(); err != nil {
		return nil, err
	}
	return b, nil
}

// SetVisible pauses the animation while the surface is out of view.
func (b *Backdrop) SetVisible(visible bool) error {
	b.visible = visible
	return b.sync()
}

// SetReducedMotion honors the user's motion preference.
func (b *Backdrop) SetReducedMotion(reduced bool) error {
	if reduced == b.reduced {
		return nil
	}
	b.reduced = reduced
	if reduced {
		b.teardown()
	}
	return b.sync()
}

// SetDarkMode forwards the theme without rebuilding.
func (b *Backdrop) SetDarkMode(dark bool) {
	b.dark = dark
	if b.sim != nil {
		b.sim.SetDarkMode(dark)
	}
}

// SetPulseGain forwards a pulse amplitude multiplier and keeps it across rebuilds.
func (b *Backdrop) SetPulseGain(gain float64) {
	b.gain = gain
	if b.sim != nil {
		b.sim.SetPulseGain(gain)
	}
}

// SetConfig rebuilds the simulation when cfg differs structurally from the
// current record. It reports whether a rebuild happened.
func (b *Backdrop) SetConfig(cfg config.Network) (bool, error) {
	key, err := fingerprint(cfg)
	if err != nil {
		return false, err
	}
	if key == b.key {
		return false, nil
	}
	b.cfg, b.key = cfg, key
	b.teardown()
	return true, b.sync()
}

// Close destroys the simulation; the backdrop cannot be reused.
func (b *Backdrop) Close() {
	b.teardown()
	b.closed = true
}

func (b *Backdrop) Simulation() *network.Simulation { return b.sim }
func (b *Backdrop) Config() config.Network          { return b.cfg }
func (b *Backdrop) DarkMode() bool                  { return b.dark }

// Loaded reports whether the surface can be shown: a simulation started or
// reduced motion decided that none will.
func (b *Backdrop) Loaded() bool { return b.loaded }

// Running reports whether frames are being produced.
func (b *Backdrop) Running() bool {
	return b.sim != nil && b.sim.State() == network.Running
}

func (b *Backdrop) sync() error {
	if b.closed {
		return ErrClosed
	}
	if !b.visible {
		if b.sim != nil {
			b.sim.Stop()
		}
		return nil
	}
	if b.reduced {
		b.loaded = true
		return nil
	}

	if b.sim == nil {
		opts := append([]network.Option{network.WithDarkMode(b.dark)}, b.simOpts...)
		sim, err := network.New(b.surface, b.host, b.cfg, opts...)
		if err != nil {
			return fmt.Errorf("create simulation: %w", err)
		}
		sim.SetPulseGain(b.gain)
		b.sim = sim
	}
	if err := b.sim.Start(); err != nil {
		return fmt.Errorf("start simulation: %w", err)
	}
	b.loaded = true
	return nil
}

func (b *Backdrop) teardown() {
	if b.sim != nil {
		b.sim.Destroy()
		b.sim = nil
	}
}

func fingerprint(cfg config.Network) (uint64, error) {
	h, err := hashstructure.Hash(cfg, hashstructure.FormatV2, nil)
	if err != nil {
		return 0, fmt.Errorf("fingerprint config: %w", err)
	}
	return h, nil
}
