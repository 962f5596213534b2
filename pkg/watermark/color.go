package watermark

import (
	"errors"
	"image/color"
	"strconv"
	"strings"
)

var (
	ErrEmptyColor   = errors.New("empty color string")
	ErrInvalidColor = errors.New("invalid color format")
)

// shadowColor is rgba(0,0,0,0.5), premultiplied.
var shadowColor = color.RGBA{0, 0, 0, 128}

var cssColors = map[string]color.NRGBA{
	"white":       {255, 255, 255, 255},
	"black":       {0, 0, 0, 255},
	"red":         {255, 0, 0, 255},
	"green":       {0, 128, 0, 255},
	"blue":        {0, 0, 255, 255},
	"cyan":        {0, 255, 255, 255},
	"magenta":     {255, 0, 255, 255},
	"yellow":      {255, 255, 0, 255},
	"orange":      {255, 165, 0, 255},
	"purple":      {128, 0, 128, 255},
	"pink":        {255, 192, 203, 255},
	"gray":        {128, 128, 128, 255},
	"grey":        {128, 128, 128, 255},
	"silver":      {192, 192, 192, 255},
	"gold":        {255, 215, 0, 255},
	"teal":        {0, 128, 128, 255},
	"lime":        {0, 255, 0, 255},
	"navy":        {0, 0, 128, 255},
	"transparent": {0, 0, 0, 0},
}

// ParseColor accepts CSS color names, #rgb, #rgba, #rrggbb, #rrggbbaa,
// rgb(r,g,b) and rgba(r,g,b,a) with a in [0,1].
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.NRGBA{}, ErrEmptyColor
	}

	lower := strings.ToLower(s)
	if c, ok := cssColors[lower]; ok {
		return c, nil
	}
	if strings.HasPrefix(lower, "rgb") {
		return parseFunctional(lower)
	}

	hexStr := strings.TrimPrefix(s, "#")
	switch len(hexStr) {
	case 3, 4:
		expanded := make([]byte, 0, len(hexStr)*2)
		for i := 0; i < len(hexStr); i++ {
			expanded = append(expanded, hexStr[i], hexStr[i])
		}
		hexStr = string(expanded)
	case 6, 8:
	default:
		return color.NRGBA{}, ErrInvalidColor
	}

	v, err := strconv.ParseUint(hexStr, 16, 32)
	if err != nil {
		return color.NRGBA{}, ErrInvalidColor
	}
	if len(hexStr) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func parseFunctional(s string) (color.NRGBA, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return color.NRGBA{}, ErrInvalidColor
	}
	name := strings.TrimSpace(s[:open])
	parts := strings.Split(s[open+1:len(s)-1], ",")

	want := 3
	if name == "rgba" {
		want = 4
	} else if name != "rgb" {
		return color.NRGBA{}, ErrInvalidColor
	}
	if len(parts) != want {
		return color.NRGBA{}, ErrInvalidColor
	}

	c := color.NRGBA{A: 255}
	channels := []*uint8{&c.R, &c.G, &c.B}
	for i, dst := range channels {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || n < 0 || n > 255 {
			return color.NRGBA{}, ErrInvalidColor
		}
		*dst = uint8(n)
	}
	if want == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return color.NRGBA{}, ErrInvalidColor
		}
		c.A = uint8(a*255 + 0.5)
	}
	return c, nil
}
