package crosshair

import (
	"candlescope/internal/format"
	"candlescope/internal/surface"
	"candlescope/pkg/colorutil"
)

// Overlay is the crosshair primitive set: a horizontal and a vertical guide
// line plus a value marker on each axis. Created once and then mutated.
type Overlay struct {
	HLine   *surface.Line
	VLine   *surface.Line
	XMarker *surface.AxisMarker
	YMarker *surface.AxisMarker

	group *surface.Group
}

func newOverlay(dashed bool) *Overlay {
	o := &Overlay{
		HLine:   surface.NewLine(colorutil.Crosshair),
		VLine:   surface.NewLine(colorutil.Crosshair),
		XMarker: surface.NewAxisMarker(surface.AxisX, surface.EdgeNone, colorutil.LabelBG, colorutil.LabelFG),
		YMarker: surface.NewAxisMarker(surface.AxisY, surface.EdgeNone, colorutil.LabelBG, colorutil.LabelFG),
	}
	o.HLine.XMode, o.HLine.X1, o.HLine.X2 = surface.Relative, 0, 1
	o.VLine.YMode, o.VLine.Y1, o.VLine.Y2 = surface.Relative, 0, 1
	o.HLine.Dashed, o.VLine.Dashed = dashed, dashed
	o.group = surface.NewGroup(o.HLine, o.VLine, o.XMarker, o.YMarker)
	return o
}

// Group returns the overlay's annotation group.
func (o *Overlay) Group() *surface.Group { return o.group }

// place moves every primitive to the data point (x, y) and shows them.
func (o *Overlay) place(x, y float64) {
	o.HLine.Y1, o.HLine.Y2 = y, y
	o.VLine.X1, o.VLine.X2 = x, x
	o.XMarker.Value, o.XMarker.Text = x, format.Date(x)
	o.YMarker.Value, o.YMarker.Text = y, format.Price(y)
	o.group.SetHidden(false)
}

// Visible reports whether the overlay is shown.
func (o *Overlay) Visible() bool {
	return o != nil && o.group.Attached() && !o.HLine.Hidden()
}

func (o *Overlay) hide() {
	if o != nil {
		o.group.SetHidden(true)
	}
}
