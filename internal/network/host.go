package network

import (
	"sort"
	"time"
)

// FrameID identifies a requested frame callback.
type FrameID uint64

// FrameFunc is invoked once per display refresh with the frame time.
type FrameFunc func(now time.Time)

// Host is the event loop a Simulation lives on: a frame scheduler, one-shot
// timers and resize notifications. All callbacks run on the host's loop, one
// at a time.
type Host interface {
	Now() time.Time
	RequestFrame(fn FrameFunc) FrameID
	CancelFrame(id FrameID)
	AfterFunc(d time.Duration, fn func()) (cancel func())
	OnResize(fn func()) (remove func())
}

type pendingFrame struct {
	id FrameID
	fn FrameFunc
}

type manualTimer struct {
	seq  uint64
	due  time.Time
	fn   func()
	dead bool
}

type resizeListener struct {
	id int
	fn func()
}

// ManualHost is a deterministic Host driven by explicit Step calls. It backs
// headless rendering, tests and the ebiten loop (which steps it once per tick).
type ManualHost struct {
	now        time.Time
	nextFrame  FrameID
	frames     []pendingFrame
	inStep     map[FrameID]bool
	nextTimer  uint64
	timers     []*manualTimer
	nextListen int
	listeners  []resizeListener
}

// NewManualHost returns a host whose clock starts at start.
func NewManualHost(start time.Time) *ManualHost {
	return &ManualHost{now: start}
}

func (h *ManualHost) Now() time.Time { return h.now }

func (h *ManualHost) RequestFrame(fn FrameFunc) FrameID {
	h.nextFrame++
	h.frames = append(h.frames, pendingFrame{id: h.nextFrame, fn: fn})
	return h.nextFrame
}

func (h *ManualHost) CancelFrame(id FrameID) {
	if _, ok := h.inStep[id]; ok {
		h.inStep[id] = true
		return
	}
	for i, f := range h.frames {
		if f.id == id {
			h.frames = append(h.frames[:i], h.frames[i+1:]...)
			return
		}
	}
}

func (h *ManualHost) AfterFunc(d time.Duration, fn func()) func() {
	h.nextTimer++
	t := &manualTimer{seq: h.nextTimer, due: h.now.Add(d), fn: fn}
	h.timers = append(h.timers, t)
	return func() { t.dead = true }
}

func (h *ManualHost) OnResize(fn func()) func() {
	h.nextListen++
	id := h.nextListen
	h.listeners = append(h.listeners, resizeListener{id: id, fn: fn})
	return func() {
		for i, l := range h.listeners {
			if l.id == id {
				h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
				return
			}
		}
	}
}

// Resize notifies every resize listener, as a window resize event would.
func (h *ManualHost) Resize() {
	for _, l := range append([]resizeListener(nil), h.listeners...) {
		l.fn()
	}
}

// PendingFrames reports how many frame callbacks are queued.
func (h *ManualHost) PendingFrames() int { return len(h.frames) }

// PendingTimers reports how many live timers are queued.
func (h *ManualHost) PendingTimers() int {
	n := 0
	for _, t := range h.timers {
		if !t.dead {
			n++
		}
	}
	return n
}

// Step advances the clock by dt, fires due timers, then runs the frame
// callbacks that were queued before the step. Frames requested from inside a
// callback run on the next Step. A queued frame cancelled by an earlier
// callback in the same Step does not run. It returns the number of frames run.
func (h *ManualHost) Step(dt time.Duration) int {
	h.now = h.now.Add(dt)
	h.fireTimers()

	queued := h.frames
	h.frames = nil
	h.inStep = make(map[FrameID]bool, len(queued))
	for _, f := range queued {
		h.inStep[f.id] = false
	}
	defer func() { h.inStep = nil }()

	ran := 0
	for _, f := range queued {
		if h.inStep[f.id] {
			continue
		}
		delete(h.inStep, f.id)
		f.fn(h.now)
		ran++
	}
	return ran
}

func (h *ManualHost) fireTimers() {
	for {
		var due []*manualTimer
		rest := h.timers[:0]
		for _, t := range h.timers {
			switch {
			case t.dead:
			case !t.due.After(h.now):
				due = append(due, t)
			default:
				rest = append(rest, t)
			}
		}
		h.timers = rest
		if len(due) == 0 {
			return
		}
		sort.Slice(due, func(i, j int) bool {
			if !due[i].due.Equal(due[j].due) {
				return due[i].due.Before(due[j].due)
			}
			return due[i].seq < due[j].seq
		})
		for _, t := range due {
			if !t.dead {
				t.dead = true
				t.fn()
			}
		}
	}
}
