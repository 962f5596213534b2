package watermark

import (
	"image"
	"math"
	"sync/atomic"
)

// Kind selects which watermark variant is drawn.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Slider ranges.
const (
	MinFontSize    = 10
	MaxFontSize    = 200
	MinLogoScale   = 5
	MaxLogoScale   = 80
	MinPosition    = 0
	MaxPosition    = 100
	MinRotation    = -180
	MaxRotation    = 180
	MinOpacity     = 0.0
	MaxOpacity     = 1.0
	fontSizeDivide = 1000.0
)

// TextSpec holds the text variant. FontSizeUnits is relative to the base width:
// the rendered size is width*units/1000 pixels.
type TextSpec struct {
	Content       string  `json:"text"`
	FontSizeUnits float64 `json:"fontSize"`
	Color         string  `json:"color"`
}

// ImageSpec holds the logo variant. ScalePercent is the logo width as a
// percentage of the base width.
type ImageSpec struct {
	ScalePercent float64 `json:"logoScale"`
}

// Placement positions the watermark. PositionX/PositionY are percentages of
// the base size, RotationDegrees is clockwise-positive.
type Placement struct {
	PositionX       float64 `json:"posX"`
	PositionY       float64 `json:"posY"`
	RotationDegrees float64 `json:"rotation"`
	Opacity         float64 `json:"opacity"`
}

// RenderParams fully determines a render for a fixed base image. It is plain
// data: the logo itself is passed to Render separately.
type RenderParams struct {
	Kind Kind `json:"watermarkType"`
	TextSpec
	ImageSpec
	Placement
}

func DefaultParams() RenderParams {
	return RenderParams{
		Kind: KindText,
		TextSpec: TextSpec{
			Content:       "My Watermark",
			FontSizeUnits: 40,
			Color:         "#ffffff",
		},
		ImageSpec: ImageSpec{ScalePercent: 20},
		Placement: Placement{
			PositionX: 50,
			PositionY: 50,
			Opacity:   0.7,
		},
	}
}

// Clamp returns a copy with every numeric field forced into its slider range.
// An unknown kind becomes KindText.
func (p RenderParams) Clamp() RenderParams {
	if p.Kind != KindText && p.Kind != KindImage {
		p.Kind = KindText
	}
	p.FontSizeUnits = clamp(p.FontSizeUnits, MinFontSize, MaxFontSize)
	p.ScalePercent = clamp(p.ScalePercent, MinLogoScale, MaxLogoScale)
	p.PositionX = clamp(p.PositionX, MinPosition, MaxPosition)
	p.PositionY = clamp(p.PositionY, MinPosition, MaxPosition)
	p.RotationDegrees = clamp(p.RotationDegrees, MinRotation, MaxRotation)
	p.Opacity = clamp(p.Opacity, MinOpacity, MaxOpacity)
	return p
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

var logoSeq atomic.Uint64

// Logo is a decoded logo image. The zero value is not usable; use NewLogo.
type Logo struct {
	img image.Image
	key uint64
}

func NewLogo(img image.Image) *Logo {
	if img == nil {
		return nil
	}
	return &Logo{img: img, key: logoSeq.Add(1)}
}

func (l *Logo) Image() image.Image { return l.img }

// Size reports the native logo dimensions.
func (l *Logo) Size() (int, int) {
	b := l.img.Bounds()
	return b.Dx(), b.Dy()
}

// Anchor maps a placement to buffer coordinates of a w×h image.
func Anchor(w, h int, p Placement) (float64, float64) {
	return float64(w) * p.PositionX / 100, float64(h) * p.PositionY / 100
}

// LogoSize returns the display size of a logo on a base of width baseW.
// The height always follows the native aspect ratio.
func LogoSize(baseW, logoW, logoH int, scalePercent float64) (float64, float64) {
	displayWidth := float64(baseW) * scalePercent / 100
	aspectRatio := float64(logoW) / float64(logoH)
	return displayWidth, displayWidth / aspectRatio
}

// FontPixels converts relative font units to a pixel size for a base width.
func FontPixels(baseW int, units float64) float64 {
	return float64(baseW) * units / fontSizeDivide
}
