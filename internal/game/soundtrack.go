package game

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"github.com/iburimskiy/knowledge-network/internal/config"
)

// levelWindow is how many recent samples feed the loudness estimate.
const levelWindow = 2048

// levelTap wraps a beep.Streamer and records the last samples into a ring
// buffer so the frame loop can read the current loudness.
type levelTap struct {
	Source    beep.Streamer
	buffer    [][2]float64
	nextIndex int
	filled    int
	mu        sync.RWMutex
}

func newLevelTap(src beep.Streamer, ringSize int) *levelTap {
	return &levelTap{
		Source: src,
		buffer: make([][2]float64, ringSize),
	}
}

func (t *levelTap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n == 0 {
		return n, ok
	}
	// Samples older than the ring would be overwritten within this call.
	skip := max(0, n-len(t.buffer))
	recent := samples[skip:n]

	t.mu.Lock()
	t.nextIndex = (t.nextIndex + skip) % len(t.buffer)
	for len(recent) > 0 {
		c := copy(t.buffer[t.nextIndex:], recent)
		recent = recent[c:]
		t.nextIndex = (t.nextIndex + c) % len(t.buffer)
	}
	t.filled = min(t.filled+n, len(t.buffer))
	t.mu.Unlock()
	return n, ok
}

func (t *levelTap) Err() error { return t.Source.Err() }

// rms returns the root mean square of the last n mono-mixed samples.
func (t *levelTap) rms(n int) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n = min(n, t.filled)
	if n == 0 {
		return 0
	}
	var sum float64
	idx := t.nextIndex
	for i := 0; i < n; i++ {
		idx--
		if idx < 0 {
			idx = len(t.buffer) - 1
		}
		mono := (t.buffer[idx][0] + t.buffer[idx][1]) * 0.5
		sum += mono * mono
	}
	return math.Sqrt(sum / float64(n))
}

// Soundtrack plays one audio file on a loop and exposes its smoothed level.
type Soundtrack struct {
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	tap      *levelTap

	level  float64
	paused bool
}

var speakerState struct {
	sync.Mutex
	rate beep.SampleRate
}

// OpenSoundtrack decodes path (wav, mp3 or flac) and starts playback.
func OpenSoundtrack(path string) (*Soundtrack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		_ = f.Close()
		return nil, errors.New("unsupported audio type: " + ext)
	}
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	if err := initSpeaker(format.SampleRate); err != nil {
		_ = streamer.Close()
		_ = f.Close()
		return nil, err
	}

	loop := beep.Loop(-1, streamer)
	t := newLevelTap(loop, config.VisualRingSize)
	s := &Soundtrack{
		file:     f,
		streamer: streamer,
		format:   format,
		tap:      t,
		ctrl:     &beep.Ctrl{Streamer: t},
	}
	speaker.Play(s.ctrl)
	fmt.Printf("Playing %s (%d Hz)\n", filepath.Base(path), format.SampleRate)
	return s, nil
}

func initSpeaker(rate beep.SampleRate) error {
	speakerState.Lock()
	defer speakerState.Unlock()

	if speakerState.rate == rate {
		speaker.Clear()
		return nil
	}
	if speakerState.rate != 0 {
		speaker.Clear()
	}
	if err := speaker.Init(rate, rate.N(time.Second/20)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speakerState.rate = rate
	return nil
}

// Level samples the tap and returns the loudness smoothed across frames, in [0,1].
func (s *Soundtrack) Level() float64 {
	if s == nil {
		return 0
	}
	mag := math.Pow(math.Min(s.tap.rms(levelWindow), 1), 0.3)
	s.level = config.SmoothingFactor*s.level + (1-config.SmoothingFactor)*mag
	return s.level
}

// PulseGain maps the level onto a pulse multiplier: silence keeps the
// configured pulse, loud passages triple it.
func (s *Soundtrack) PulseGain() float64 {
	return 1 + 2*s.Level()
}

func (s *Soundtrack) Paused() bool { return s != nil && s.paused }

func (s *Soundtrack) TogglePause() {
	if s == nil {
		return
	}
	speaker.Lock()
	s.paused = !s.paused
	s.ctrl.Paused = s.paused
	speaker.Unlock()
}

// Position is the playback offset within the current loop.
func (s *Soundtrack) Position() time.Duration {
	if s == nil {
		return 0
	}
	speaker.Lock()
	pos := s.streamer.Position()
	speaker.Unlock()
	return s.format.SampleRate.D(pos)
}

func (s *Soundtrack) Close() {
	if s == nil {
		return
	}
	speaker.Clear()
	_ = s.streamer.Close()
	_ = s.file.Close()
}
