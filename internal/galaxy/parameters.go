package galaxy

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Parameters describe one galaxy. The panel edits them in place and asks the
// owning Galaxy to regenerate once an edit completes.
type Parameters struct {
	Count      int
	Size       float64
	Radius     float64
	Branches   int
	Spin       float64
	Randomness float64 // exposed for tuning, ignored by the jitter formula
	// RandomnessPower shapes the jitter falloff; higher keeps particles closer to the arm.
	RandomnessPower float64
	InsideColor     colorful.Color
	OutsideColor    colorful.Color
	SpeedRotation   float64 // radians per second around the y axis
}

// Material returns how the points built from p are drawn.
func (p Parameters) Material() Material {
	return Material{
		Size:         float32(p.Size),
		Additive:     true,
		VertexColors: true,
	}
}

// Mix linearly interpolates a towards b. The endpoints are exact: t=0 yields a
// and t=1 yields b bit for bit.
func Mix(a, b colorful.Color, t float64) colorful.Color {
	s := 1 - t
	return colorful.Color{
		R: a.R*s + b.R*t,
		G: a.G*s + b.G*t,
		B: a.B*s + b.B*t,
	}
}
