package watermark

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Fixed legibility shadow for text watermarks, in local pixels.
const (
	shadowBlur    = 4.0
	shadowOffsetX = 2
	shadowOffsetY = 2
	shadowPad     = 12
)

// textSprite renders content and its drop shadow into a transparent layer.
// (cx, cy) is the center of the glyph ink box in layer coordinates.
func textSprite(face font.Face, content string, fill color.Color) (*image.RGBA, float64, float64) {
	if content == "" {
		return nil, 0, 0
	}
	bounds, _ := font.BoundString(face, content)
	if bounds.Empty() {
		return nil, 0, 0
	}

	inkW := bounds.Max.X - bounds.Min.X
	inkH := bounds.Max.Y - bounds.Min.Y
	rect := image.Rect(0, 0, inkW.Ceil()+2*shadowPad, inkH.Ceil()+2*shadowPad)
	dot := fixed.Point26_6{
		X: fixed.I(shadowPad) - bounds.Min.X,
		Y: fixed.I(shadowPad) - bounds.Min.Y,
	}

	glyphs := image.NewRGBA(rect)
	d := &font.Drawer{Dst: glyphs, Src: image.NewUniform(fill), Face: face, Dot: dot}
	d.DrawString(content)

	sprite := image.NewRGBA(rect)
	if sc := shadowFor(fill); sc.A > 0 {
		mask := image.NewRGBA(rect)
		d = &font.Drawer{Dst: mask, Src: image.NewUniform(sc), Face: face, Dot: dot}
		d.DrawString(content)
		// A blur radius r corresponds to a Gaussian sigma of r/2.
		shadow := imaging.Blur(mask, shadowBlur/2)
		draw.Draw(sprite, rect.Add(image.Pt(shadowOffsetX, shadowOffsetY)), shadow, image.Point{}, draw.Over)
	}
	draw.Draw(sprite, rect, glyphs, image.Point{}, draw.Over)

	cx := float64(shadowPad) + float64(inkW)/128
	cy := float64(shadowPad) + float64(inkH)/128
	return sprite, cx, cy
}

// shadowFor scales the shadow alpha by the fill alpha, so translucent text
// casts a fainter shadow and invisible text casts none.
func shadowFor(fill color.Color) color.RGBA {
	_, _, _, a := fill.RGBA()
	return color.RGBA{A: uint8(uint32(shadowColor.A) * a / 0xffff)}
}
