package config

import "time"

const (
	WindowWidth  = 1280
	WindowHeight = 720

	VisualRingSize  = 8192
	SmoothingFactor = 0.6

	// Connection rules
	MaxConnections       = 5
	ConnectionHysteresis = 20.0
	MinStrength          = 0.3
	StrengthenStep       = 0.01
	DefaultStrength      = 0.5

	// Responsive breakpoints (surface CSS width)
	TabletWidth  = 768
	DesktopWidth = 1024
	WideWidth    = 1440

	ResizeDebounce = 16 * time.Millisecond

	// Per-frame dynamics
	WanderAccel        = 0.01
	AngularJitter      = 0.02
	AttractionFactor   = 0.02
	SlowdownPerLink    = 0.3
	SizeSmoothing      = 0.1
	SizePerLink        = 0.5
	HubSizeBonus       = 2.0
	HubPulseSpeed      = 0.08
	HubColorSpeed      = 0.03
	NodePulseSpeed     = 0.05
	NodeNetworkSpeed   = 0.03
	NodeColorSpeed     = 0.01
	GlobalPulseSpeed   = 0.02
	NetworkPulseDepth  = 0.3
	CenterSizeFactor   = 3.0
	HubPromoteLinks    = 3
	HubInitialStrength = 0.5
)
