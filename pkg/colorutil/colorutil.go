// Package colorutil provides shared color utilities for the chip tracer.
package colorutil

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is an RGBA colour that marshals as "#RRGGBB" or "#RRGGBBAA" text.
type Color color.RGBA

// Named colours used by the default appearance.
var (
	Black         = Color{R: 0, G: 0, B: 0, A: 255}
	White         = Color{R: 255, G: 255, B: 255, A: 255}
	Red           = Color{R: 255, G: 0, B: 0, A: 255}
	Green         = Color{R: 0, G: 128, B: 0, A: 255}
	Blue          = Color{R: 0, G: 0, B: 255, A: 255}
	Yellow        = Color{R: 255, G: 255, B: 0, A: 255}
	Gray          = Color{R: 128, G: 128, B: 128, A: 255}
	LightGray     = Color{R: 211, G: 211, B: 211, A: 255}
	LimeGreen     = Color{R: 50, G: 205, B: 50, A: 255}
	Navy          = Color{R: 0, G: 0, B: 128, A: 255}
	Purple        = Color{R: 128, G: 0, B: 128, A: 255}
	Teal          = Color{R: 0, G: 128, B: 128, A: 255}
	Olive         = Color{R: 128, G: 128, B: 0, A: 255}
	Maroon        = Color{R: 128, G: 0, B: 0, A: 255}
	MenuHighlight = Color{R: 51, G: 153, B: 255, A: 255}
)

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA(c).RGBA()
}

// Std returns the colour as a color.RGBA.
func (c Color) Std() color.RGBA {
	return color.RGBA(c)
}

// WithAlpha returns the colour with its alpha replaced.
func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

// String formats the colour as "#RRGGBB", or "#RRGGBBAA" when not opaque.
func (c Color) String() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Parse parses "#RGB", "#RRGGBB" or "#RRGGBBAA" (leading '#' optional).
func Parse(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "FF"
	}
	if len(hex) != 8 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Optional holds a colour that may be unset.
type Optional struct {
	color Color
	set   bool
}

// Some returns an Optional holding c.
func Some(c Color) Optional {
	return Optional{color: c, set: true}
}

// Get returns the colour and whether it is set.
func (o Optional) Get() (Color, bool) {
	return o.color, o.set
}

// Or returns the held colour, or fallback when unset.
func (o Optional) Or(fallback Color) Color {
	if o.set {
		return o.color
	}
	return fallback
}
