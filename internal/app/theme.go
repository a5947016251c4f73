package app

import (
	"image/color"

	"candlescope/pkg/colorutil"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// ChartTheme darkens the window chrome to match the chart background.
type ChartTheme struct{}

var _ fyne.Theme = (*ChartTheme)(nil)

func (t *ChartTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return colorutil.Background
	case theme.ColorNamePrimary:
		return colorutil.Accent
	case theme.ColorNameSelection:
		return colorutil.WithAlpha(colorutil.SkyBlue, 0x80)
	case theme.ColorNameForeground:
		return colorutil.LabelFG
	default:
		return theme.DefaultTheme().Color(name, theme.VariantDark)
	}
}

func (t *ChartTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *ChartTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *ChartTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3 // tighter toolbar
	default:
		return theme.DefaultTheme().Size(name)
	}
}
