package galaxy

import (
	"time"

	"github.com/iburimskiy/galaxy/internal/logging"
)

// Material is the draw state for one uploaded point cloud.
type Material struct {
	Size         float32 // world units, attenuated by distance
	Additive     bool
	DepthWrite   bool
	VertexColors bool
}

// Handle is a render-side resource built from one pair of buffers.
type Handle interface {
	Dispose()
}

// Surface turns buffers into something drawable.
type Surface interface {
	Upload(b Buffers, m Material) Handle
}

// Galaxy owns the parameters, the current buffers and the handle built from
// them. Each Regenerate replaces all three wholesale.
type Galaxy struct {
	params  Parameters
	rng     Source
	surface Surface
	log     logging.Logger

	buffers    *Buffers
	handle     Handle
	generation int
}

// New returns a Galaxy with no buffers. surface may be nil, in which case
// buffers are generated but never uploaded.
func New(params Parameters, rng Source, surface Surface, log logging.Logger) *Galaxy {
	return &Galaxy{
		params:  params,
		rng:     rng,
		surface: surface,
		log:     logging.OrNop(log),
	}
}

// Params returns the live parameters for in-place editing.
func (g *Galaxy) Params() *Parameters { return &g.params }

// Regenerate disposes the previous point cloud and builds a new one from the
// current parameters.
func (g *Galaxy) Regenerate() {
	start := time.Now()
	g.Dispose()

	b := Generate(g.params, g.rng)
	if g.surface != nil {
		g.handle = g.surface.Upload(b, g.params.Material())
	}
	g.buffers = &b
	g.generation++

	g.log.Debugf("galaxy #%d: %d particles, %d branches in %s",
		g.generation, b.Len(), g.params.Branches, time.Since(start).Round(time.Microsecond))
}

// Dispose releases the current buffers and handle. Safe to call repeatedly.
func (g *Galaxy) Dispose() {
	if g.handle != nil {
		g.handle.Dispose()
		g.handle = nil
	}
	g.buffers = nil
}

// Buffers returns the current buffers; ok is false before the first
// Regenerate or after Dispose.
func (g *Galaxy) Buffers() (b Buffers, ok bool) {
	if g.buffers == nil {
		return Buffers{}, false
	}
	return *g.buffers, true
}

func (g *Galaxy) Handle() Handle { return g.handle }

// Generation counts completed regenerations.
func (g *Galaxy) Generation() int { return g.generation }

// Rotation is the y-axis angle of the idle spin after elapsed seconds.
func (g *Galaxy) Rotation(elapsed float64) float64 {
	return -elapsed * g.params.SpeedRotation
}
