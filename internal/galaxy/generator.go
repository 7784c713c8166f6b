package galaxy

import (
	"math"
)

// Source yields uniform values in [0, 1). *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
}

// Buffers are the flat per-particle attributes, three floats per particle.
type Buffers struct {
	Positions []float32
	Colors    []float32
}

// Len returns the number of particles held.
func (b Buffers) Len() int { return len(b.Positions) / 3 }

// Generate builds a fresh point cloud for p.
//
// Each particle sits on one of p.Branches arms, chosen by index, at a random
// distance from the center. The arm angle is twisted by distance*Spin and the
// position is scattered by a signed power-law jitter. Color runs from
// InsideColor at the center to OutsideColor at p.Radius.
//
// Parameters are not validated. A zero radius or branch count produces NaN
// coordinates rather than a panic.
func Generate(p Parameters, rng Source) Buffers {
	count := max(p.Count, 0)
	b := Buffers{
		Positions: make([]float32, count*3),
		Colors:    make([]float32, count*3),
	}

	branches := float64(p.Branches)
	for i := 0; i < count; i++ {
		i3 := i * 3

		radius := rng.Float64() * p.Radius
		spinAngle := radius * p.Spin
		branchAngle := math.Mod(float64(i), branches) / branches * 2 * math.Pi

		jitterX := jitter(rng, p.RandomnessPower)
		jitterY := jitter(rng, p.RandomnessPower)
		jitterZ := jitter(rng, p.RandomnessPower)

		angle := branchAngle + spinAngle
		b.Positions[i3] = float32(radius*math.Cos(angle) + jitterX)
		// vertical scatter is thinner than the arm plane
		b.Positions[i3+1] = float32(jitterY * rng.Float64() * 2)
		b.Positions[i3+2] = float32(radius*math.Sin(angle) + jitterZ)

		c := Mix(p.InsideColor, p.OutsideColor, radius/p.Radius)
		b.Colors[i3] = float32(c.R)
		b.Colors[i3+1] = float32(c.G)
		b.Colors[i3+2] = float32(c.B)
	}
	return b
}

// jitter draws u^power with a fair random sign, concentrated near zero.
func jitter(rng Source, power float64) float64 {
	v := math.Pow(rng.Float64(), power)
	if rng.Float64() < 0.5 {
		return v
	}
	return -v
}
