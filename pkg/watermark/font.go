package watermark

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

// Fonts holds one parsed typeface used for text watermarks.
type Fonts struct {
	parsed *opentype.Font
	source string
}

var (
	defaultFonts    *Fonts
	defaultFontsErr error
	defaultFontOnce sync.Once
)

// DefaultFonts returns the embedded Go Bold typeface.
func DefaultFonts() (*Fonts, error) {
	defaultFontOnce.Do(func() {
		defaultFonts, defaultFontsErr = ParseFonts(gobold.TTF, "gobold")
	})
	return defaultFonts, defaultFontsErr
}

func ParseFonts(data []byte, source string) (*Fonts, error) {
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", source, err)
	}
	return &Fonts{parsed: parsed, source: source}, nil
}

// LoadFonts reads a TTF/OTF file from disk.
func LoadFonts(path string) (*Fonts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	return ParseFonts(data, path)
}

func (f *Fonts) Source() string { return f.source }

// Face builds a face of the given pixel size. At 72 DPI points equal pixels.
func (f *Fonts) Face(px float64) (font.Face, error) {
	face, err := opentype.NewFace(f.parsed, &opentype.FaceOptions{
		Size:    px,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face for size %.2f: %w", px, err)
	}
	return face, nil
}
