package measure

import (
	"candlescope/internal/surface"
	"candlescope/pkg/geometry"
)

// Tooltip footprint defaults in pixels.
const (
	DefaultTooltipWidth  = 170.0
	DefaultTooltipHeight = 80.0
	tooltipGap           = 6.0
)

// Placement is where a tooltip goes relative to its anchor point.
type Placement struct {
	X, Y    float64
	HAnchor surface.HAnchor
	VAnchor surface.VAnchor
}

// PlaceTooltip positions a size tooltip for the pixel box inside view.
// Vertically it sits above the box and moves below when the top would be
// clipped. Horizontally it is centred on the box and hugs the box's left or
// right edge when centring would clip that side.
func PlaceTooltip(box, view geometry.Rect, size geometry.Size) Placement {
	mid := box.Center()
	pl := Placement{
		X:       mid.X,
		Y:       box.Top() - tooltipGap,
		HAnchor: surface.AnchorCenter,
		VAnchor: surface.AnchorBottom,
	}
	if box.Top()-tooltipGap-size.Height < view.Top() {
		pl.Y = box.Bottom() + tooltipGap
		pl.VAnchor = surface.AnchorTop
	}

	half := size.Width / 2
	switch {
	case pl.X-half < view.Left():
		pl.X = box.Left()
		pl.HAnchor = surface.AnchorLeft
	case pl.X+half > view.Right():
		pl.X = box.Right()
		pl.HAnchor = surface.AnchorRight
	}
	return pl
}

// LabelRect returns the pixel rectangle a label of size occupies at pl.
func LabelRect(pl Placement, size geometry.Size) geometry.Rect {
	x := pl.X
	switch pl.HAnchor {
	case surface.AnchorCenter:
		x -= size.Width / 2
	case surface.AnchorRight:
		x -= size.Width
	}
	y := pl.Y
	switch pl.VAnchor {
	case surface.AnchorMiddle:
		y -= size.Height / 2
	case surface.AnchorBottom:
		y -= size.Height
	}
	return geometry.Rect{X: x, Y: y, Width: size.Width, Height: size.Height}
}
