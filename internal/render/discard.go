package render

import (
	"image/color"

	"github.com/iburimskiy/knowledge-network/internal/network"
)

// Discard is a canvas that draws nothing, for runs that only want stats.
type Discard struct{}

func (Discard) SetSize(int, int, float64)                                                {}
func (Discard) Clear()                                                                   {}
func (Discard) FillRect(_, _, _, _ float64, _ color.NRGBA)                               {}
func (Discard) FillLinearGradient(_, _, _, _ float64, _ []network.GradientStop)          {}
func (Discard) FillRadialGradient(_, _, _, _, _, _, _ float64, _ []network.GradientStop) {}
func (Discard) StrokeLine(_, _, _, _, _ float64, _ color.NRGBA, _ bool)                  {}
