package backdrop

// Rect is an axis-aligned rectangle in viewport coordinates.
type Rect struct {
	X, Y, W, H float64
}

const (
	// ViewportMargin grows the viewport so surfaces start just before they scroll in.
	ViewportMargin = 100.0
	// VisibleThreshold is the fraction of the surface that must overlap.
	VisibleThreshold = 0.1
)

// Visible reports whether target overlaps viewport, grown by ViewportMargin on
// every side, by at least VisibleThreshold of target's area.
func Visible(viewport, target Rect) bool {
	if target.W <= 0 || target.H <= 0 {
		return false
	}
	vp := Rect{
		X: viewport.X - ViewportMargin,
		Y: viewport.Y - ViewportMargin,
		W: viewport.W + 2*ViewportMargin,
		H: viewport.H + 2*ViewportMargin,
	}
	ix := overlap(vp.X, vp.X+vp.W, target.X, target.X+target.W)
	iy := overlap(vp.Y, vp.Y+vp.H, target.Y, target.Y+target.H)
	return ix*iy >= VisibleThreshold*target.W*target.H
}

func overlap(a0, a1, b0, b1 float64) float64 {
	lo, hi := a0, a1
	if b0 > lo {
		lo = b0
	}
	if b1 < hi {
		hi = b1
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}
