package render

import "math"

// Viewport tracks the window size and the render target derived from it.
type Viewport struct {
	MaxPixelRatio float64

	width, height int // logical window size
	ratio         float64
}

// Resize records a new logical window size and device scale. It reports the
// render target size and whether anything changed since the last call.
func (v *Viewport) Resize(width, height int, deviceScale float64) (fbWidth, fbHeight int, changed bool) {
	ratio := deviceScale
	if ratio <= 0 {
		ratio = 1
	}
	if v.MaxPixelRatio > 0 {
		ratio = math.Min(ratio, v.MaxPixelRatio)
	}
	changed = width != v.width || height != v.height || ratio != v.ratio
	v.width, v.height, v.ratio = width, height, ratio
	fbWidth, fbHeight = v.Framebuffer()
	return fbWidth, fbHeight, changed
}

// Framebuffer is the render target size in device pixels, at least 1x1.
func (v *Viewport) Framebuffer() (int, int) {
	r := v.ratio
	if r <= 0 {
		r = 1
	}
	return max(int(math.Round(float64(v.width)*r)), 1), max(int(math.Round(float64(v.height)*r)), 1)
}

func (v *Viewport) PixelRatio() float64 { return v.ratio }
