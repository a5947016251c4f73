// Package colorutil provides the chart palette and small color helpers.
package colorutil

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Chart palette.
var (
	Black      = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Background = color.RGBA{R: 0x13, G: 0x17, B: 0x22, A: 255}
	Grid       = color.RGBA{R: 0x1E, G: 0x22, B: 0x2D, A: 255}
	AxisText   = color.RGBA{R: 0x78, G: 0x7B, B: 0x86, A: 255}

	// Candle and measurement direction colors.
	Bullish = color.RGBA{R: 0x08, G: 0x99, B: 0x81, A: 255}
	Bearish = color.RGBA{R: 0xF2, G: 0x36, B: 0x45, A: 255}
	SkyBlue = color.RGBA{R: 0x50, G: 0xC7, B: 0xE0, A: 255}
	Accent  = color.RGBA{R: 0x29, G: 0x62, B: 0xFF, A: 255}

	// Crosshair and axis marker labels.
	Crosshair = color.RGBA{R: 0x9B, G: 0x9B, B: 0x9B, A: 255}
	LabelBG   = color.RGBA{R: 0x2B, G: 0x2B, B: 0x43, A: 255}
	LabelFG   = White

	// Delete affordance.
	DeleteBG     = color.RGBA{R: 0x1A, G: 0x1A, B: 0x2E, A: 255}
	DeleteStroke = color.RGBA{R: 0x66, G: 0x66, B: 0x66, A: 255}
	DeleteCross  = color.RGBA{R: 0xFF, G: 0x44, B: 0x44, A: 255}

	Selected = color.RGBA{R: 255, G: 255, B: 0, A: 255}
)

// Direction returns the measurement color for the given direction.
func Direction(bearish bool) color.RGBA {
	if bearish {
		return Bearish
	}
	return SkyBlue
}

// Change returns green for non-negative changes and red otherwise.
func Change(delta float64) color.RGBA {
	if delta >= 0 {
		return Bullish
	}
	return Bearish
}

// WithAlpha returns c with its alpha channel replaced.
func WithAlpha(c color.RGBA, a uint8) color.RGBA {
	c.A = a
	return c
}

// ParseHex parses "#RRGGBB" or "#RRGGBBAA".
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(s) == 6 {
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Blend composites src over dst using src's alpha.
func Blend(dst, src color.RGBA) color.RGBA {
	if src.A == 255 {
		return src
	}
	a := float64(src.A) / 255
	inv := 1 - a
	return color.RGBA{
		R: uint8(float64(src.R)*a + float64(dst.R)*inv),
		G: uint8(float64(src.G)*a + float64(dst.G)*inv),
		B: uint8(float64(src.B)*a + float64(dst.B)*inv),
		A: 255,
	}
}
