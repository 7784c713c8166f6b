package render

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/galaxy/internal/galaxy"
)

// maxBatchVertices keeps every batch addressable with uint16 indices.
const maxBatchVertices = 65532

// Cloud is one uploaded point cloud. It stays in its Points scene until disposed.
type Cloud struct {
	owner     *Points
	positions []float32
	colors    []float32
	material  galaxy.Material
}

// Dispose removes the cloud from its scene and drops its buffers.
func (c *Cloud) Dispose() {
	if c.owner == nil {
		return
	}
	c.owner.remove(c)
	c.owner = nil
	c.positions, c.colors = nil, nil
}

func (c *Cloud) Len() int { return len(c.positions) / 3 }

// Points is a scene of point clouds drawn as screen-aligned quads.
type Points struct {
	clouds []*Cloud

	vertices []ebiten.Vertex
	indices  []uint16
	white    *ebiten.Image
}

func NewPoints() *Points {
	return &Points{}
}

// Upload adds a cloud built from b to the scene.
func (p *Points) Upload(b galaxy.Buffers, m galaxy.Material) galaxy.Handle {
	c := &Cloud{
		owner:     p,
		positions: b.Positions,
		colors:    b.Colors,
		material:  m,
	}
	p.clouds = append(p.clouds, c)
	return c
}

func (p *Points) remove(c *Cloud) {
	for i, other := range p.clouds {
		if other == c {
			p.clouds = append(p.clouds[:i], p.clouds[i+1:]...)
			return
		}
	}
}

// Live counts clouds that were uploaded and not yet disposed.
func (p *Points) Live() int { return len(p.clouds) }

// Frame is the per-draw camera and model state.
type Frame struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Model      mgl32.Mat4
	Gain       float32 // color multiplier, 1 leaves colors unchanged
}

// Draw renders every live cloud onto dst.
func (p *Points) Draw(dst *ebiten.Image, f Frame) {
	if len(p.clouds) == 0 {
		return
	}
	bounds := dst.Bounds()
	w, h := float32(bounds.Dx()), float32(bounds.Dy())
	mvp := f.Projection.Mul4(f.View).Mul4(f.Model)
	gain := f.Gain
	if gain <= 0 {
		gain = 1
	}
	for _, c := range p.clouds {
		p.drawCloud(dst, c, mvp, w, h, gain)
	}
}

func (p *Points) drawCloud(dst *ebiten.Image, c *Cloud, mvp mgl32.Mat4, w, h, gain float32) {
	opts := &ebiten.DrawTrianglesOptions{}
	if c.material.Additive {
		opts.Blend = ebiten.BlendLighter
	}
	src := p.whitePixel()
	flush := func() {
		if len(p.indices) > 0 {
			dst.DrawTriangles(p.vertices, p.indices, src, opts)
		}
		p.vertices = p.vertices[:0]
		p.indices = p.indices[:0]
	}

	n := c.Len()
	for i := 0; i < n; i++ {
		i3 := i * 3
		sx, sy, clipW, ok := Project(mvp, c.positions[i3], c.positions[i3+1], c.positions[i3+2], w, h)
		if !ok {
			continue
		}
		r, g, b := float32(1), float32(1), float32(1)
		if c.material.VertexColors {
			r, g, b = c.colors[i3], c.colors[i3+1], c.colors[i3+2]
		}
		if len(p.vertices)+4 > maxBatchVertices {
			flush()
		}
		half := PointSize(c.material.Size, clipW, h) / 2
		p.appendQuad(sx-half, sy-half, sx+half, sy+half, r*gain, g*gain, b*gain)
	}
	flush()
}

func (p *Points) appendQuad(x0, y0, x1, y1, r, g, b float32) {
	base := uint16(len(p.vertices))
	for _, v := range [4][2]float32{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}} {
		p.vertices = append(p.vertices, ebiten.Vertex{
			DstX:   v[0],
			DstY:   v[1],
			SrcX:   1,
			SrcY:   1,
			ColorR: r,
			ColorG: g,
			ColorB: b,
			ColorA: 1,
		})
	}
	p.indices = append(p.indices, base, base+1, base+2, base+1, base+3, base+2)
}

// whitePixel is the 1x1 texture every quad samples, created on first draw.
func (p *Points) whitePixel() *ebiten.Image {
	if p.white == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		p.white = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return p.white
}

// Project maps a model-space point to target pixels. ok is false for points
// behind the eye or outside the clip volume. clipW is the view depth.
func Project(mvp mgl32.Mat4, x, y, z, width, height float32) (sx, sy, clipW float32, ok bool) {
	clip := mvp.Mul4x1(mgl32.Vec4{x, y, z, 1})
	clipW = clip.W()
	if !(clipW > 0) {
		return 0, 0, 0, false
	}
	nx, ny, nz := clip.X()/clipW, clip.Y()/clipW, clip.Z()/clipW
	// written as a positive test so NaN coordinates are culled too
	if !(inUnit(nx) && inUnit(ny) && inUnit(nz)) {
		return 0, 0, 0, false
	}
	sx = (nx + 1) * 0.5 * width
	sy = (1 - ny) * 0.5 * height
	return sx, sy, clipW, true
}

// PointSize is the on-screen diameter of a point of world size at view depth
// clipW, never smaller than one pixel.
func PointSize(size, clipW, height float32) float32 {
	if clipW <= 0 {
		return 1
	}
	return max(size*height*0.5/clipW, 1)
}

func inUnit(v float32) bool { return v >= -1 && v <= 1 }
