package watermark

import (
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

var identity = f64.Aff3{1, 0, 0, 0, 1, 0}

type canvasState struct {
	m     f64.Aff3
	alpha float64
}

// Canvas is a drawing context over an RGBA buffer with a current transform
// and a global alpha, in the manner of a 2D graphics context. Transform
// changes only affect DrawImage calls; the buffer's own coordinates never move.
type Canvas struct {
	dst   *image.RGBA
	state canvasState
	saved []canvasState
}

func NewCanvas(dst *image.RGBA) *Canvas {
	return &Canvas{
		dst:   dst,
		state: canvasState{m: identity, alpha: 1},
	}
}

func (c *Canvas) Bounds() image.Rectangle { return c.dst.Bounds() }

// Transform returns the current local-to-buffer matrix.
func (c *Canvas) Transform() f64.Aff3 { return c.state.m }

func (c *Canvas) Alpha() float64 { return c.state.alpha }

// Depth reports how many states are currently saved.
func (c *Canvas) Depth() int { return len(c.saved) }

func (c *Canvas) Save() {
	c.saved = append(c.saved, c.state)
}

// Restore pops the last saved state. Unbalanced calls are ignored.
func (c *Canvas) Restore() {
	if len(c.saved) == 0 {
		return
	}
	c.state = c.saved[len(c.saved)-1]
	c.saved = c.saved[:len(c.saved)-1]
}

// Scoped runs fn between Save and Restore. The prior state is restored on
// every exit path, including an error or a panic inside fn.
func (c *Canvas) Scoped(fn func(*Canvas) error) error {
	c.Save()
	defer c.Restore()
	return fn(c)
}

func (c *Canvas) Translate(x, y float64) {
	c.state.m = mul(c.state.m, f64.Aff3{1, 0, x, 0, 1, y})
}

// Rotate turns the local frame by deg degrees, clockwise on screen.
func (c *Canvas) Rotate(deg float64) {
	if deg == 0 {
		return
	}
	sin, cos := math.Sincos(deg * math.Pi / 180)
	c.state.m = mul(c.state.m, f64.Aff3{cos, -sin, 0, sin, cos, 0})
}

// SetAlpha sets the global paint alpha, clamped to [0,1].
func (c *Canvas) SetAlpha(a float64) {
	c.state.alpha = clamp(a, 0, 1)
}

// DrawImage paints src into the local rectangle (x, y, w, h) using the
// current transform and alpha.
func (c *Canvas) DrawImage(src image.Image, x, y, w, h float64) {
	sb := src.Bounds()
	if sb.Empty() || w <= 0 || h <= 0 || c.state.alpha <= 0 {
		return
	}

	sx := w / float64(sb.Dx())
	sy := h / float64(sb.Dy())
	local := f64.Aff3{
		sx, 0, x - float64(sb.Min.X)*sx,
		0, sy, y - float64(sb.Min.Y)*sy,
	}

	if c.state.alpha < 1 {
		src = fade(src, c.state.alpha)
	}
	xdraw.BiLinear.Transform(c.dst, mul(c.state.m, local), src, sb, xdraw.Over, nil)
}

// mul returns a∘b: b is applied first.
func mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3],
		a[0]*b[1] + a[1]*b[4],
		a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3],
		a[3]*b[1] + a[4]*b[4],
		a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

// fade returns a premultiplied copy of src with every channel scaled by alpha.
func fade(src image.Image, alpha float64) *image.RGBA {
	b := src.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, src, b.Min, draw.Src)

	scale := uint32(alpha*256 + 0.5)
	for i, v := range out.Pix {
		out.Pix[i] = uint8(uint32(v) * scale >> 8)
	}
	return out
}
