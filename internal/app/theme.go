package app

import (
	"image/color"

	"chip-tracer/pkg/colorutil"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// ChipTracerTheme is the application theme: the stock theme with the
// canvas highlight colour as primary.
type ChipTracerTheme struct{}

var _ fyne.Theme = (*ChipTracerTheme)(nil)

func (t *ChipTracerTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return colorutil.MenuHighlight.Std()
	case theme.ColorNameSelection:
		c := colorutil.LimeGreen
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0x80}
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *ChipTracerTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *ChipTracerTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *ChipTracerTheme) Size(name fyne.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}
