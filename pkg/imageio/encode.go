package imageio

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/spf13/afero"
)

// DefaultExportName is the file name offered for exported renders.
const DefaultExportName = "watermarked-image.png"

// EncodePNG writes img losslessly as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// WriteFile encodes img as PNG into path on fsys.
func WriteFile(fsys afero.Fs, path string, img image.Image) error {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := EncodePNG(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
