package config

import (
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/galaxy/internal/galaxy"
)

const (
	WindowWidth  = 1280
	WindowHeight = 720
	WindowTitle  = "Galaxy Generator - drag: orbit, wheel: zoom, H: panel, R: regenerate, O: music, Esc/Q: quit"

	// Render target never exceeds twice the logical window size.
	MaxPixelRatio = 2.0

	// Camera
	CameraFOV      = 75
	CameraNear     = 0.1
	CameraFar      = 100
	CameraDamping  = 0.05
	CameraStartPos = 3.0

	// Panel dimensions
	PanelWidth     = 300
	PanelRowHeight = 20
	PanelMargin    = 8

	// Soundtrack
	VisualRingSize  = 8192
	SmoothingFactor = 0.6
	PulseGain       = 1.5
)

// Default galaxy parameters.
const (
	DefaultCount           = 100000
	DefaultSize            = 0.01
	DefaultRadius          = 5
	DefaultBranches        = 3
	DefaultSpin            = 3
	DefaultRandomness      = 0.02
	DefaultRandomnessPower = 3
	DefaultInsideColor     = "#270aff"
	DefaultOutsideColor    = "#01ff45"
	DefaultSpeedRotation   = 0.05
)

// Range bounds a panel field.
type Range struct {
	Min, Max, Step float64
}

var (
	CountRange           = Range{Min: 100, Max: 1000000, Step: 100}
	SizeRange            = Range{Min: 0.01, Max: 0.1, Step: 0.001}
	RadiusRange          = Range{Min: 0.01, Max: 20, Step: 0.01}
	BranchesRange        = Range{Min: 2, Max: 20, Step: 1}
	SpinRange            = Range{Min: -5, Max: 5, Step: 1}
	RandomnessRange      = Range{Min: 0, Max: 2, Step: 0.001}
	RandomnessPowerRange = Range{Min: 1, Max: 10, Step: 0.001}
	SpeedRotationRange   = Range{Min: -0.8, Max: 0.8, Step: 0.001}
)

// Snap rounds v to the nearest multiple of Step and clamps it to [Min, Max].
// Rounding noise is trimmed to 15 significant digits so 0.1+0.2 style
// artifacts never reach the display.
func (r Range) Snap(v float64) float64 {
	if r.Step > 0 {
		v = math.Round(v/r.Step) * r.Step
		v, _ = strconv.ParseFloat(strconv.FormatFloat(v, 'g', 15, 64), 64)
	}
	return r.Clamp(v)
}

func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Fraction maps v into [0, 1] across the range.
func (r Range) Fraction(v float64) float64 {
	if r.Max == r.Min {
		return 0
	}
	return clamp01((v - r.Min) / (r.Max - r.Min))
}

// Decimals is how many fraction digits Step needs when displayed.
func (r Range) Decimals() int {
	if r.Step <= 0 || r.Step >= 1 {
		return 0
	}
	return int(math.Ceil(-math.Log10(r.Step) - 1e-9))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// DefaultParameters returns the startup galaxy.
func DefaultParameters() galaxy.Parameters {
	inside, _ := colorful.Hex(DefaultInsideColor)
	outside, _ := colorful.Hex(DefaultOutsideColor)
	return galaxy.Parameters{
		Count:           DefaultCount,
		Size:            DefaultSize,
		Radius:          DefaultRadius,
		Branches:        DefaultBranches,
		Spin:            DefaultSpin,
		Randomness:      DefaultRandomness,
		RandomnessPower: DefaultRandomnessPower,
		InsideColor:     inside,
		OutsideColor:    outside,
		SpeedRotation:   DefaultSpeedRotation,
	}
}
