package galaxy

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drawsPerParticle is how many values Generate pulls per particle: radius,
// three jitter magnitudes with their signs, and the vertical scale.
const drawsPerParticle = 8

var (
	inside  = colorful.Color{R: 0x27 / 255.0, G: 0x0a / 255.0, B: 1}
	outside = colorful.Color{R: 0x01 / 255.0, G: 1, B: 0x45 / 255.0}
)

func testParams() Parameters {
	return Parameters{
		Count:           1000,
		Size:            0.01,
		Radius:          5,
		Branches:        3,
		Spin:            3,
		Randomness:      0.02,
		RandomnessPower: 3,
		InsideColor:     inside,
		OutsideColor:    outside,
		SpeedRotation:   0.05,
	}
}

// recordingSource remembers every value it hands out.
type recordingSource struct {
	src   Source
	draws []float64
}

func (r *recordingSource) Float64() float64 {
	v := r.src.Float64()
	r.draws = append(r.draws, v)
	return v
}

// scriptedSource returns values from fn, indexed by draw number.
type scriptedSource struct {
	n  int
	fn func(n int) float64
}

func (s *scriptedSource) Float64() float64 {
	v := s.fn(s.n)
	s.n++
	return v
}

func TestGenerate_BufferLengths(t *testing.T) {
	for _, count := range []int{1, 3, 100, 12345} {
		p := testParams()
		p.Count = count
		b := Generate(p, rand.New(rand.NewPCG(1, 2)))
		assert.Len(t, b.Positions, count*3)
		assert.Len(t, b.Colors, count*3)
		assert.Equal(t, count, b.Len())
	}
}

func TestGenerate_ZeroCount(t *testing.T) {
	p := testParams()
	p.Count = 0
	b := Generate(p, rand.New(rand.NewPCG(1, 2)))
	assert.Empty(t, b.Positions)
	assert.Empty(t, b.Colors)
}

func TestGenerate_RadiusWithinBounds(t *testing.T) {
	p := testParams()
	src := &recordingSource{src: rand.New(rand.NewPCG(7, 11))}
	b := Generate(p, src)

	require.Len(t, src.draws, p.Count*drawsPerParticle)
	for i := 0; i < p.Count; i++ {
		radius := src.draws[i*drawsPerParticle] * p.Radius
		assert.GreaterOrEqual(t, radius, 0.0)
		assert.LessOrEqual(t, radius, p.Radius)

		// jitter never exceeds 1 per axis, so the arm-plane distance is bounded
		x, z := float64(b.Positions[i*3]), float64(b.Positions[i*3+2])
		assert.LessOrEqual(t, math.Hypot(x, z), radius+math.Sqrt2+1e-5)
		assert.LessOrEqual(t, math.Abs(float64(b.Positions[i*3+1])), 2.0)
	}
}

func TestMix_Endpoints(t *testing.T) {
	assert.Equal(t, inside, Mix(inside, outside, 0))
	assert.Equal(t, outside, Mix(inside, outside, 1))

	mid := Mix(inside, outside, 0.5)
	assert.InDelta(t, (inside.R+outside.R)/2, mid.R, 1e-12)
	assert.InDelta(t, (inside.G+outside.G)/2, mid.G, 1e-12)
	assert.InDelta(t, (inside.B+outside.B)/2, mid.B, 1e-12)
}

func TestGenerate_ColorEndpoints(t *testing.T) {
	p := testParams()
	p.Count = 1

	center := Generate(p, &scriptedSource{fn: func(int) float64 { return 0 }})
	assert.Equal(t, []float32{float32(inside.R), float32(inside.G), float32(inside.B)}, center.Colors)
	assert.Equal(t, []float32{0, 0, 0}, center.Positions)

	// a source may return exactly 1 for the radius draw; the rim is then outsideColor
	rim := Generate(p, &scriptedSource{fn: func(n int) float64 {
		if n == 0 {
			return 1
		}
		return 0
	}})
	assert.Equal(t, []float32{float32(outside.R), float32(outside.G), float32(outside.B)}, rim.Colors)
}

func TestGenerate_BranchAssignmentIsUniform(t *testing.T) {
	p := testParams()
	p.Count = 300
	p.Branches = 3
	p.Spin = 0

	// fixed radius, zero jitter: every particle lands exactly on its arm
	src := &scriptedSource{fn: func(n int) float64 {
		if n%drawsPerParticle == 0 {
			return 0.5
		}
		return 0
	}}
	b := Generate(p, src)

	hits := make(map[int]int)
	for i := 0; i < p.Count; i++ {
		x, z := float64(b.Positions[i*3]), float64(b.Positions[i*3+2])
		angle := math.Atan2(z, x)
		if angle < 0 {
			angle += 2 * math.Pi
		}
		class := int(math.Round(angle/(2*math.Pi/3))) % 3
		assert.Equal(t, i%3, class, "particle %d", i)
		hits[class]++
	}
	assert.Equal(t, map[int]int{0: 100, 1: 100, 2: 100}, hits)
}

func TestGenerate_SpinTwistsByRadius(t *testing.T) {
	p := testParams()
	p.Count = 1
	p.Spin = 1
	src := &scriptedSource{fn: func(n int) float64 {
		if n == 0 {
			return 0.1 // radius 0.5, spin angle 0.5 rad
		}
		return 0
	}}
	b := Generate(p, src)
	assert.InDelta(t, 0.5*math.Cos(0.5), b.Positions[0], 1e-6)
	assert.InDelta(t, 0.5*math.Sin(0.5), b.Positions[2], 1e-6)
}

func TestGenerate_JitterSign(t *testing.T) {
	p := testParams()
	p.Count = 1
	p.RandomnessPower = 1
	// radius 0, every magnitude 0.25; signs: x negative, y positive, z negative
	values := []float64{0, 0.25, 0.9, 0.25, 0.1, 0.25, 0.7, 1}
	b := Generate(p, &scriptedSource{fn: func(n int) float64 { return values[n] }})
	assert.InDelta(t, -0.25, b.Positions[0], 1e-7)
	assert.InDelta(t, 0.25*1*2, b.Positions[1], 1e-7)
	assert.InDelta(t, -0.25, b.Positions[2], 1e-7)
}

func TestGenerate_RegenerationKeepsStructure(t *testing.T) {
	p := testParams()
	rng := rand.New(rand.NewPCG(3, 4))
	first := Generate(p, rng)
	second := Generate(p, rng)

	require.Equal(t, len(first.Positions), len(second.Positions))
	require.Equal(t, len(first.Colors), len(second.Colors))
	assert.NotEqual(t, first.Positions, second.Positions)

	for _, b := range []Buffers{first, second} {
		for i := 0; i < b.Len(); i++ {
			r, g := float64(b.Colors[i*3]), float64(b.Colors[i*3+1])
			// every color lies on the inside-outside segment
			tr := (r - inside.R) / (outside.R - inside.R)
			tg := (g - inside.G) / (outside.G - inside.G)
			assert.InDelta(t, tr, tg, 1e-5)
			assert.True(t, tg >= -1e-6 && tg <= 1+1e-6)
		}
	}
}

func TestGenerate_DegenerateParametersDoNotPanic(t *testing.T) {
	p := testParams()
	p.Count = 4
	p.Branches = 0
	p.Radius = 0

	var b Buffers
	assert.NotPanics(t, func() { b = Generate(p, rand.New(rand.NewPCG(1, 1))) })
	assert.True(t, math.IsNaN(float64(b.Positions[0])))
	assert.True(t, math.IsNaN(float64(b.Colors[0])))
}

func TestParameters_Material(t *testing.T) {
	m := testParams().Material()
	assert.Equal(t, float32(0.01), m.Size)
	assert.True(t, m.Additive)
	assert.True(t, m.VertexColors)
	assert.False(t, m.DepthWrite)
}
