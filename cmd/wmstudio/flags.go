package main

import (
	"github.com/spf13/pflag"

	"wmstudio/pkg/watermark"
)

// paramFlags holds the watermark setting flags shared by render and
// templates save. Only flags the user set override the base parameters.
type paramFlags struct {
	kind      string
	text      string
	fontSize  float64
	color     string
	opacity   float64
	posX      float64
	posY      float64
	rotation  float64
	logoScale float64
}

func (f *paramFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.kind, "kind", "", "Watermark kind: text or image")
	fs.StringVarP(&f.text, "text", "t", "", "Watermark text")
	fs.Float64Var(&f.fontSize, "font-size", 0, "Font size in thousandths of the image width (10-200)")
	fs.StringVar(&f.color, "color", "", "Text color (#rrggbb, rgb(), CSS name)")
	fs.Float64Var(&f.opacity, "opacity", 0, "Opacity (0-1)")
	fs.Float64Var(&f.posX, "pos-x", 0, "Horizontal position in percent (0-100)")
	fs.Float64Var(&f.posY, "pos-y", 0, "Vertical position in percent (0-100)")
	fs.Float64Var(&f.rotation, "rotation", 0, "Rotation in degrees, clockwise (-180-180)")
	fs.Float64Var(&f.logoScale, "logo-scale", 0, "Logo width in percent of the image width (5-80)")
}

func (f *paramFlags) apply(fs *pflag.FlagSet, p *watermark.RenderParams) {
	if fs.Changed("kind") {
		p.Kind = watermark.Kind(f.kind)
	}
	if fs.Changed("text") {
		p.Content = f.text
	}
	if fs.Changed("font-size") {
		p.FontSizeUnits = f.fontSize
	}
	if fs.Changed("color") {
		p.Color = f.color
	}
	if fs.Changed("opacity") {
		p.Opacity = f.opacity
	}
	if fs.Changed("pos-x") {
		p.PositionX = f.posX
	}
	if fs.Changed("pos-y") {
		p.PositionY = f.posY
	}
	if fs.Changed("rotation") {
		p.RotationDegrees = f.rotation
	}
	if fs.Changed("logo-scale") {
		p.ScalePercent = f.logoScale
	}
}
