package main

import (
	"fmt"
	"image"
	"io"

	"github.com/qeesung/image2ascii/convert"
)

const previewWidth = 80

// printPreview writes an ASCII rendition of img. Terminal cells are about
// twice as tall as wide, so the height is halved to keep the aspect.
func printPreview(w io.Writer, img image.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return
	}

	opts := convert.DefaultOptions
	opts.FixedWidth = previewWidth
	opts.FixedHeight = max(1, previewWidth*b.Dy()/b.Dx()/2)

	converter := convert.NewImageConverter()
	fmt.Fprintln(w)
	fmt.Fprint(w, converter.Image2ASCIIString(img, &opts))
	fmt.Fprintln(w)
}
