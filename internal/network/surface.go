package network

import (
	"errors"
	"image/color"
)

// ErrNoContext is returned when a Surface cannot provide a Canvas.
var ErrNoContext = errors.New("unable to get 2D context from surface")

// Surface is the drawable the simulation is bound to.
type Surface interface {
	// ClientSize reports the CSS size in logical pixels.
	ClientSize() (width, height float64, err error)
	// PixelRatio is the device pixels per logical pixel.
	PixelRatio() float64
	// Context2D returns the canvas for drawing. Called once at construction.
	Context2D() (Canvas, error)
}

// GradientStop is one color stop of a gradient; Offset is in [0,1].
type GradientStop struct {
	Offset float64
	Color  color.NRGBA
}

// Canvas is the minimal 2D drawing context used by the network. Coordinates
// are logical pixels; implementations apply the scale given to SetSize.
type Canvas interface {
	SetSize(pixelWidth, pixelHeight int, scale float64)
	Clear()
	FillRect(x, y, w, h float64, c color.NRGBA)
	// FillLinearGradient fills the rectangle with a top-to-bottom gradient.
	FillLinearGradient(x, y, w, h float64, stops []GradientStop)
	// FillRadialGradient fills the rectangle with a gradient centred at
	// (cx, cy) reaching radius r.
	FillRadialGradient(x, y, w, h, cx, cy, r float64, stops []GradientStop)
	StrokeLine(x1, y1, x2, y2, width float64, c color.NRGBA, round bool)
}
