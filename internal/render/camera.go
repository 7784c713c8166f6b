package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// minPolar keeps the orbit off the poles where LookAt degenerates.
const minPolar = 1e-4

// OrbitCamera circles a target point. Drag input accumulates angular deltas
// that Update bleeds into the orbit, so motion eases out after release.
type OrbitCamera struct {
	Target mgl32.Vec3
	FOV    float32 // vertical, degrees
	Near   float32
	Far    float32

	Damping     float32 // fraction of pending motion applied per Update; 1 disables easing
	RotateSpeed float32
	ZoomSpeed   float32
	MinDistance float32
	MaxDistance float32

	aspect float32

	radius float32
	theta  float32 // azimuth around +Y, measured from +Z
	phi    float32 // polar angle from +Y

	dTheta float32
	dPhi   float32
	scale  float32
}

// NewOrbitCamera places the camera at position looking at target.
func NewOrbitCamera(position, target mgl32.Vec3, fov, near, far float32) *OrbitCamera {
	c := &OrbitCamera{
		Target:      target,
		FOV:         fov,
		Near:        near,
		Far:         far,
		Damping:     1,
		RotateSpeed: 1,
		ZoomSpeed:   1,
		MinDistance: 0,
		MaxDistance: float32(math.Inf(1)),
		aspect:      1,
		scale:       1,
	}
	c.SetPosition(position)
	return c
}

// SetPosition moves the camera, keeping the target, and drops pending motion.
func (c *OrbitCamera) SetPosition(p mgl32.Vec3) {
	off := p.Sub(c.Target)
	c.radius = off.Len()
	if c.radius == 0 {
		c.theta, c.phi = 0, float32(math.Pi/2)
	} else {
		c.theta = float32(math.Atan2(float64(off.X()), float64(off.Z())))
		c.phi = float32(math.Acos(float64(mgl32.Clamp(off.Y()/c.radius, -1, 1))))
	}
	c.dTheta, c.dPhi, c.scale = 0, 0, 1
}

// Rotate queues a drag of dx, dy pixels. A drag across the full viewport
// height turns the orbit by one revolution.
func (c *OrbitCamera) Rotate(dx, dy, viewportHeight float32) {
	if viewportHeight <= 0 {
		return
	}
	c.dTheta -= 2 * math.Pi * dx / viewportHeight * c.RotateSpeed
	c.dPhi -= 2 * math.Pi * dy / viewportHeight * c.RotateSpeed
}

// Dolly moves toward the target for positive wheel values and away for negative.
func (c *OrbitCamera) Dolly(wheel float64) {
	if wheel == 0 {
		return
	}
	step := float32(math.Pow(0.95, float64(c.ZoomSpeed)*math.Abs(wheel)))
	if wheel > 0 {
		c.scale *= step
	} else {
		c.scale /= step
	}
}

// Update applies pending rotation and zoom. Call once per tick.
func (c *OrbitCamera) Update() {
	d := c.Damping
	if d <= 0 || d > 1 {
		d = 1
	}
	c.theta += c.dTheta * d
	c.phi += c.dPhi * d
	c.phi = mgl32.Clamp(c.phi, minPolar, math.Pi-minPolar)

	c.radius = mgl32.Clamp(c.radius*c.scale, c.MinDistance, c.MaxDistance)
	c.scale = 1

	if d == 1 {
		c.dTheta, c.dPhi = 0, 0
	} else {
		c.dTheta *= 1 - d
		c.dPhi *= 1 - d
	}
}

// Position is the eye point in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	st, ct := math.Sincos(float64(c.theta))
	sp, cp := math.Sincos(float64(c.phi))
	r := float64(c.radius)
	return c.Target.Add(mgl32.Vec3{
		float32(r * sp * st),
		float32(r * cp),
		float32(r * sp * ct),
	})
}

func (c *OrbitCamera) Distance() float32 { return c.radius }

// Resize updates the aspect ratio from a viewport size in pixels.
func (c *OrbitCamera) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.aspect = float32(width) / float32(height)
}

func (c *OrbitCamera) Aspect() float32 { return c.aspect }

func (c *OrbitCamera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

func (c *OrbitCamera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.aspect, c.Near, c.Far)
}
