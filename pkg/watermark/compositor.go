package watermark

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"github.com/disintegration/imaging"

	"wmstudio/pkg/cache"
	"wmstudio/pkg/logger"
)

// Compositor renders one watermark over a base image. It holds no per-render
// state, so renders never influence each other.
type Compositor struct {
	fonts *Fonts
	logos *cache.ImageCache
}

type Option func(*Compositor)

// WithFonts sets the typeface for text watermarks. Defaults to Go Bold.
func WithFonts(f *Fonts) Option {
	return func(c *Compositor) { c.fonts = f }
}

// WithLogoCache caches resized logo sprites across renders. Without it every
// render resizes the logo again.
func WithLogoCache(lc *cache.ImageCache) Option {
	return func(c *Compositor) { c.logos = lc }
}

func NewCompositor(opts ...Option) *Compositor {
	c := new(Compositor)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultCompositor struct {
	once sync.Once
	c    *Compositor
}

// Render draws params over base with the default compositor.
func Render(base image.Image, params RenderParams, logo *Logo) *image.RGBA {
	defaultCompositor.once.Do(func() {
		defaultCompositor.c = NewCompositor(WithLogoCache(cache.New(cache.DefaultMaxSize)))
	})
	return defaultCompositor.c.Render(base, params, logo)
}

// Render returns a new buffer of exactly base's size holding base with one
// watermark layer on top. base is never modified. A nil base returns nil.
//
// Failures while preparing the watermark are logged and leave the base
// unmodified in the result.
func (c *Compositor) Render(base image.Image, params RenderParams, logo *Logo) *image.RGBA {
	if base == nil {
		return nil
	}
	bounds := base.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), base, bounds.Min, draw.Src)

	x, y := Anchor(w, h, params.Placement)
	canvas := NewCanvas(out)

	err := canvas.Scoped(func(cv *Canvas) error {
		cv.SetAlpha(params.Opacity)
		if cv.Alpha() <= 0 {
			return nil
		}
		cv.Translate(x, y)
		cv.Rotate(params.RotationDegrees)

		switch params.Kind {
		case KindText:
			return c.drawText(cv, w, params.TextSpec)
		case KindImage:
			if logo == nil {
				return nil
			}
			return c.drawLogo(cv, w, params.ImageSpec, logo)
		}
		return nil
	})
	if err != nil {
		logger.LogWarn("Watermark skipped: %v", err)
	}
	return out
}

func (c *Compositor) drawText(cv *Canvas, baseW int, spec TextSpec) error {
	px := FontPixels(baseW, spec.FontSizeUnits)
	if spec.Content == "" || px <= 0 || math.IsNaN(px) {
		return nil
	}

	fonts := c.fonts
	if fonts == nil {
		var err error
		if fonts, err = DefaultFonts(); err != nil {
			return err
		}
	}
	face, err := fonts.Face(px)
	if err != nil {
		return err
	}
	defer face.Close()

	sprite, cx, cy := textSprite(face, spec.Content, fillColor(spec.Color))
	if sprite == nil {
		return nil
	}
	b := sprite.Bounds()
	cv.DrawImage(sprite, -cx, -cy, float64(b.Dx()), float64(b.Dy()))
	return nil
}

// fillColor falls back to black, the default fill of a fresh drawing context,
// when the color cannot be parsed.
func fillColor(s string) color.Color {
	col, err := ParseColor(s)
	if err != nil {
		logger.LogWarn("Unrecognized watermark color %q, using black", s)
		return color.Black
	}
	return col
}

func (c *Compositor) drawLogo(cv *Canvas, baseW int, spec ImageSpec, logo *Logo) error {
	lw, lh := logo.Size()
	if lw <= 0 || lh <= 0 {
		return fmt.Errorf("logo has invalid dimensions %dx%d", lw, lh)
	}
	dw, dh := LogoSize(baseW, lw, lh, spec.ScalePercent)
	if dw <= 0 || dh <= 0 || math.IsNaN(dw) || math.IsNaN(dh) {
		return nil
	}

	sprite := c.logoSprite(logo, dw, dh)
	cv.DrawImage(sprite, -dw/2, -dh/2, dw, dh)
	return nil
}

// logoSprite resamples the logo close to its display size with Lanczos so
// the final bilinear transform only applies a sub-pixel correction.
func (c *Compositor) logoSprite(logo *Logo, dw, dh float64) image.Image {
	tw := max(1, int(math.Round(dw)))
	th := max(1, int(math.Round(dh)))
	key := fmt.Sprintf("logo:%d@%dx%d", logo.key, tw, th)

	if cached, ok := c.logos.Get(key); ok {
		return cached
	}
	resized := imaging.Resize(logo.img, tw, th, imaging.Lanczos)
	c.logos.Set(key, resized)
	return resized
}
