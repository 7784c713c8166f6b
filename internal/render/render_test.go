package render

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/galaxy/internal/galaxy"
)

func newTestCamera() *OrbitCamera {
	c := NewOrbitCamera(mgl32.Vec3{3, 3, 3}, mgl32.Vec3{}, 75, 0.1, 100)
	c.Resize(1600, 900)
	return c
}

func TestOrbitCamera_StartPosition(t *testing.T) {
	c := newTestCamera()
	pos := c.Position()
	assert.InDelta(t, 3, pos.X(), 1e-5)
	assert.InDelta(t, 3, pos.Y(), 1e-5)
	assert.InDelta(t, 3, pos.Z(), 1e-5)
	assert.InDelta(t, math.Sqrt(27), c.Distance(), 1e-5)
	assert.InDelta(t, 1600.0/900.0, c.Aspect(), 1e-6)
}

func TestOrbitCamera_TargetProjectsToCenter(t *testing.T) {
	c := newTestCamera()
	mvp := c.Projection().Mul4(c.View())
	sx, sy, w, ok := Project(mvp, 0, 0, 0, 1600, 900)
	require.True(t, ok)
	assert.InDelta(t, 800, sx, 1e-2)
	assert.InDelta(t, 450, sy, 1e-2)
	assert.InDelta(t, math.Sqrt(27), w, 1e-4)
}

func TestOrbitCamera_RotateKeepsDistance(t *testing.T) {
	c := newTestCamera()
	before := c.Distance()
	c.Rotate(200, -50, 900)
	c.Update()
	assert.InDelta(t, before, c.Position().Len(), 1e-4)
	assert.NotEqual(t, mgl32.Vec3{3, 3, 3}, c.Position())
}

func TestOrbitCamera_DampingEasesOut(t *testing.T) {
	damped := newTestCamera()
	damped.Damping = 0.05
	direct := newTestCamera()

	damped.Rotate(300, 0, 900)
	direct.Rotate(300, 0, 900)
	damped.Update()
	direct.Update()

	moved := func(c *OrbitCamera) float32 { return c.Position().Sub(mgl32.Vec3{3, 3, 3}).Len() }
	first := moved(damped)
	assert.Less(t, first, moved(direct), "damped camera covers part of the drag per tick")

	for i := 0; i < 400; i++ {
		damped.Update()
	}
	assert.InDelta(t, direct.Position().X(), damped.Position().X(), 1e-3)
	assert.InDelta(t, direct.Position().Z(), damped.Position().Z(), 1e-3)
}

func TestOrbitCamera_PolarClamp(t *testing.T) {
	c := newTestCamera()
	c.Rotate(0, 100000, 900)
	c.Update()
	pos := c.Position()
	assert.LessOrEqual(t, pos.Y(), c.Distance())
	assert.Greater(t, pos.Y(), float32(0), "stops just short of the pole")
	for _, v := range c.View() {
		assert.False(t, math.IsNaN(float64(v)))
	}
}

func TestOrbitCamera_Dolly(t *testing.T) {
	c := newTestCamera()
	before := c.Distance()
	c.Dolly(1)
	c.Update()
	assert.InDelta(t, before*0.95, c.Distance(), 1e-4)

	c.Dolly(-1)
	c.Update()
	assert.InDelta(t, before, c.Distance(), 1e-4)

	c.MaxDistance = 6
	for i := 0; i < 50; i++ {
		c.Dolly(-1)
	}
	c.Update()
	assert.Equal(t, float32(6), c.Distance())
}

func TestOrbitCamera_ResizeIgnoresEmpty(t *testing.T) {
	c := newTestCamera()
	c.Resize(0, 0)
	assert.InDelta(t, 1600.0/900.0, c.Aspect(), 1e-6)
	c.Resize(500, 1000)
	assert.InDelta(t, 0.5, c.Aspect(), 1e-6)
}

func TestProject_Culls(t *testing.T) {
	c := newTestCamera()
	mvp := c.Projection().Mul4(c.View())

	_, _, _, ok := Project(mvp, 6, 6, 6, 1600, 900)
	assert.False(t, ok, "behind the eye")

	_, _, _, ok = Project(mvp, -200, 0, -200, 1600, 900)
	assert.False(t, ok, "beyond the far plane")

	nan := float32(math.NaN())
	_, _, _, ok = Project(mvp, nan, 0, 0, 1600, 900)
	assert.False(t, ok)
}

func TestPointSize(t *testing.T) {
	assert.InDelta(t, 10, PointSize(0.1, 4, 800), 1e-6)
	assert.Equal(t, float32(1), PointSize(0.01, 50, 100), "never below a pixel")
	assert.Equal(t, float32(1), PointSize(0.1, 0, 800))
}

func TestViewport_Resize(t *testing.T) {
	v := &Viewport{MaxPixelRatio: 2}

	w, h, changed := v.Resize(800, 600, 1)
	assert.True(t, changed)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)

	_, _, changed = v.Resize(800, 600, 1)
	assert.False(t, changed)

	w, h, changed = v.Resize(800, 600, 3)
	assert.True(t, changed)
	assert.Equal(t, 1600, w, "pixel ratio is capped")
	assert.Equal(t, 1200, h)
	assert.Equal(t, 2.0, v.PixelRatio())

	w, h, _ = v.Resize(0, 0, 0)
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
}

func TestPoints_UploadAndDispose(t *testing.T) {
	p := NewPoints()
	b := galaxy.Buffers{Positions: make([]float32, 30), Colors: make([]float32, 30)}

	h1 := p.Upload(b, galaxy.Material{Size: 0.01, Additive: true})
	assert.Equal(t, 1, p.Live())
	assert.Equal(t, 10, h1.(*Cloud).Len())

	h2 := p.Upload(b, galaxy.Material{})
	assert.Equal(t, 2, p.Live())

	h1.Dispose()
	h1.Dispose()
	assert.Equal(t, 1, p.Live())
	assert.Equal(t, 0, h1.(*Cloud).Len())

	h2.Dispose()
	assert.Equal(t, 0, p.Live())
}

func TestPoints_GalaxyRegenerationDoesNotLeak(t *testing.T) {
	p := NewPoints()
	params := galaxy.Parameters{Count: 100, Size: 0.01, Radius: 5, Branches: 3, RandomnessPower: 3}
	g := galaxy.New(params, constSource(0.3), p, nil)

	g.Regenerate()
	afterOne := p.Live()
	for i := 0; i < 10; i++ {
		g.Regenerate()
	}
	assert.Equal(t, afterOne, p.Live())
	assert.Equal(t, 1, p.Live())

	g.Dispose()
	assert.Equal(t, 0, p.Live())
}

type constSource float64

func (c constSource) Float64() float64 { return float64(c) }
