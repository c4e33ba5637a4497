package network

import (
	"testing"
	"time"
)

func TestManualHost_FramesRunOnNextStep(t *testing.T) {
	h := NewManualHost(epoch)
	var ran []time.Time
	var tick FrameFunc
	tick = func(now time.Time) {
		ran = append(ran, now)
		h.RequestFrame(tick)
	}
	h.RequestFrame(tick)

	if n := h.Step(frame); n != 1 {
		t.Fatalf("expected 1 frame, got %d", n)
	}
	if n := h.Step(frame); n != 1 {
		t.Fatalf("a frame requested inside a callback must wait for the next step, got %d", n)
	}
	if len(ran) != 2 || !ran[1].Equal(epoch.Add(2*frame)) {
		t.Errorf("unexpected frame times %v", ran)
	}
}

func TestManualHost_CancelFrame(t *testing.T) {
	h := NewManualHost(epoch)
	called := false
	id := h.RequestFrame(func(time.Time) { called = true })
	h.CancelFrame(id)
	h.CancelFrame(id)
	h.Step(frame)
	if called {
		t.Error("cancelled frame ran")
	}
}

func TestManualHost_CancelQueuedFrameDuringStep(t *testing.T) {
	h := NewManualHost(epoch)
	var order []string
	var later FrameID
	h.RequestFrame(func(time.Time) {
		order = append(order, "first")
		h.CancelFrame(later)
	})
	later = h.RequestFrame(func(time.Time) { order = append(order, "later") })

	if n := h.Step(frame); n != 1 {
		t.Errorf("expected 1 frame run, got %d", n)
	}
	if len(order) != 1 || order[0] != "first" {
		t.Errorf("cancelled frame ran: %v", order)
	}
	if n := h.Step(frame); n != 0 {
		t.Errorf("cancelled frame was requeued, %d ran", n)
	}
}

func TestManualHost_TimersInOrder(t *testing.T) {
	h := NewManualHost(epoch)
	var order []string
	h.AfterFunc(20*time.Millisecond, func() { order = append(order, "b") })
	h.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
	cancel := h.AfterFunc(15*time.Millisecond, func() { order = append(order, "x") })
	cancel()

	h.Step(5 * time.Millisecond)
	if len(order) != 0 {
		t.Fatalf("timers fired early: %v", order)
	}
	h.Step(20 * time.Millisecond)
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("unexpected timer order %v", order)
	}
	if h.PendingTimers() != 0 {
		t.Errorf("expected no pending timers, got %d", h.PendingTimers())
	}
}

func TestManualHost_ResizeListeners(t *testing.T) {
	h := NewManualHost(epoch)
	calls := 0
	remove := h.OnResize(func() { calls++ })
	h.Resize()
	remove()
	remove()
	h.Resize()
	if calls != 1 {
		t.Errorf("expected 1 resize call, got %d", calls)
	}
}
