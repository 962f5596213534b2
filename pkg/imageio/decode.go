// Package imageio turns uploaded bytes into images and rendered images into
// PNG files.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"net/http"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/spf13/afero"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/webp"
)

var (
	// ErrDecode marks input that does not decode to a pixel grid.
	ErrDecode = errors.New("not a decodable image")

	ErrTooLarge = fmt.Errorf("%w: input exceeds size limit", ErrDecode)
)

const (
	// defaultSVGSize is used for SVGs that declare no usable viewBox.
	defaultSVGSize = 512

	// MaxPixels caps the decoded pixel count (512 MB as RGBA).
	MaxPixels = 1 << 27
)

// Decode reads one image from r, returning it with its format name
// ("png", "jpeg", "gif", "webp" or "svg"). maxBytes <= 0 disables the limit.
func Decode(r io.Reader, maxBytes int64) (image.Image, string, error) {
	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: read failed: %v", ErrDecode, err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, "", ErrTooLarge
	}
	return DecodeBytes(data)
}

func DecodeBytes(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty input", ErrDecode)
	}

	if isSVG(data) {
		img, err := rasterizeSVG(data)
		if err != nil {
			return nil, "", err
		}
		return img, "svg", nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := checkPixels(float64(cfg.Width), float64(cfg.Height)); err != nil {
		return nil, "", err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, "", fmt.Errorf("%w: empty image %dx%d", ErrDecode, b.Dx(), b.Dy())
	}
	return img, format, nil
}

// DecodeFile decodes the image at path on fsys.
func DecodeFile(fsys afero.Fs, path string, maxBytes int64) (image.Image, string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, format, err := Decode(f, maxBytes)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return img, format, nil
}

// isSVG sniffs for SVG markup. Binary formats are left to the registered
// decoders.
func isSVG(data []byte) bool {
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "text/") {
		return false
	}
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}

func rasterizeSVG(data []byte) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("%w: svg: %v", ErrDecode, err)
	}

	vw, vh := math.Ceil(icon.ViewBox.W), math.Ceil(icon.ViewBox.H)
	if !(vw > 0 && vh > 0) {
		vw, vh = defaultSVGSize, defaultSVGSize
	}
	if err := checkPixels(vw, vh); err != nil {
		return nil, err
	}
	w, h := int(vw), int(vh)
	icon.SetTarget(0, 0, float64(w), float64(h))

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return rgba, nil
}

// checkPixels rejects images whose buffer would exceed MaxPixels. Sizes are
// floats so an SVG viewBox is checked before any int conversion.
func checkPixels(w, h float64) error {
	if w*h > MaxPixels || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return fmt.Errorf("%w: %gx%g exceeds %d pixels", ErrTooLarge, w, h, MaxPixels)
	}
	return nil
}
