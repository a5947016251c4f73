package surface

import (
	"math"

	"candlescope/internal/model"
	"candlescope/pkg/geometry"
)

// Layout constants for the plot area inside the widget.
const (
	PriceAxisWidth = 72
	TimeAxisHeight = 24
	LegendHeight   = 22

	defaultVisibleBars = 120
	yPadding           = 0.08
	minZoomBars        = 10
)

// LinearAxis maps a data range onto a pixel span. When Inverted is set the
// data maximum is at the span start, as on a price axis.
type LinearAxis struct {
	Min, Max      float64
	Start, Length float64
	Inverted      bool
}

// GetDataValue converts a pixel coordinate to a data value.
func (a LinearAxis) GetDataValue(pixel float64) float64 {
	if a.Length == 0 {
		return a.Min
	}
	t := (pixel - a.Start) / a.Length
	if a.Inverted {
		return a.Max - t*(a.Max-a.Min)
	}
	return a.Min + t*(a.Max-a.Min)
}

// GetCoordinate converts a data value to a pixel coordinate.
func (a LinearAxis) GetCoordinate(value float64) float64 {
	span := a.Max - a.Min
	if span == 0 {
		return a.Start
	}
	if a.Inverted {
		return a.Start + (a.Max-value)/span*a.Length
	}
	return a.Start + (value-a.Min)/span*a.Length
}

// Scale returns data units per pixel.
func (a LinearAxis) Scale() float64 {
	if a.Length == 0 {
		return 0
	}
	return (a.Max - a.Min) / a.Length
}

// Plot is a headless chart surface: a candle series, two linear axes, the
// annotation collection and the viewport. It is not safe for concurrent use.
type Plot struct {
	width, height float64

	series      *model.Series
	x, y        LinearAxis
	xReady      bool
	yReady      bool
	autoFitY    bool
	annotations *Collection
}

// NewPlot creates an empty plot of the given pixel size.
func NewPlot(width, height float64) *Plot {
	p := &Plot{annotations: NewCollection(), autoFitY: true}
	p.Resize(width, height)
	return p
}

// Resize updates the widget size and the axes' pixel spans.
func (p *Plot) Resize(width, height float64) {
	p.width, p.height = width, height
	r := p.SeriesViewRect()
	p.x.Start, p.x.Length = r.Left(), r.Width
	p.y.Start, p.y.Length = r.Top(), r.Height
	p.y.Inverted = true
}

// Size returns the widget size in pixels.
func (p *Plot) Size() geometry.Size {
	return geometry.Size{Width: p.width, Height: p.height}
}

// SeriesViewRect is the plot rectangle excluding the legend strip and axes.
func (p *Plot) SeriesViewRect() geometry.Rect {
	w := math.Max(0, p.width-PriceAxisWidth)
	h := math.Max(0, p.height-TimeAxisHeight-LegendHeight)
	return geometry.Rect{X: 0, Y: LegendHeight, Width: w, Height: h}
}

// SetSeries installs a series and fits the viewport to its most recent bars.
func (p *Plot) SetSeries(s *model.Series) {
	p.series = s
	p.xReady, p.yReady = false, false
	p.autoFitY = true
	p.FitLatest(defaultVisibleBars)
}

// PrimarySeries returns the candle series, or nil.
func (p *Plot) PrimarySeries() *model.Series { return p.series }

// Annotations returns the shared annotation collection.
func (p *Plot) Annotations() Annotations { return p.annotations }

// Collection returns the concrete collection for renderers.
func (p *Plot) Collection() *Collection { return p.annotations }

// Calculator returns a snapshot of the axis mapping, or nil when the axis has
// no range yet or the plot has no area.
func (p *Plot) Calculator(axis Axis) Calculator {
	r := p.SeriesViewRect()
	if r.Empty() {
		return nil
	}
	switch axis {
	case AxisX:
		if !p.xReady {
			return nil
		}
		return p.x
	case AxisY:
		if !p.yReady {
			return nil
		}
		return p.y
	}
	return nil
}

// Ready reports whether both axes have a range.
func (p *Plot) Ready() bool { return p.xReady && p.yReady }

// Refresh re-fits the price axis after the series changed, when auto
// fitting is on.
func (p *Plot) Refresh() {
	if p.autoFitY {
		p.FitY()
	}
}

// XRange returns the visible time range.
func (p *Plot) XRange() (float64, float64) { return p.x.Min, p.x.Max }

// YRange returns the visible price range.
func (p *Plot) YRange() (float64, float64) { return p.y.Min, p.y.Max }

// SetXRange sets the visible time range.
func (p *Plot) SetXRange(lo, hi float64) {
	if hi <= lo {
		return
	}
	p.x.Min, p.x.Max = lo, hi
	p.xReady = true
	if p.autoFitY {
		p.FitY()
	}
}

// SetYRange sets the visible price range and disables auto fitting.
func (p *Plot) SetYRange(lo, hi float64) {
	if hi <= lo {
		return
	}
	p.y.Min, p.y.Max = lo, hi
	p.yReady = true
	p.autoFitY = false
}

// SetAutoFitY toggles fitting the price axis to the visible bars.
func (p *Plot) SetAutoFitY(auto bool) {
	p.autoFitY = auto
	if auto {
		p.FitY()
	}
}

// FitLatest shows the last n bars with half a bar of margin on the left and
// a few bars of room on the right.
func (p *Plot) FitLatest(n int) {
	if p.series == nil || p.series.Len() == 0 {
		return
	}
	_, last, _ := p.series.Extent()
	spacing := p.series.Spacing()
	if spacing <= 0 {
		spacing = 60
	}
	if n < 1 {
		n = 1
	}
	p.SetXRange(last-float64(n)*spacing+spacing/2, last+3*spacing)
}

// FitY fits the price axis to the bars in the visible time range.
func (p *Plot) FitY() {
	if p.series == nil || !p.xReady {
		return
	}
	low, high, ok := p.series.PriceExtent(p.x.Min, p.x.Max)
	if !ok {
		return
	}
	pad := (high - low) * yPadding
	if pad == 0 {
		pad = math.Max(math.Abs(high)*0.01, 1)
	}
	p.y.Min, p.y.Max = low-pad, high+pad
	p.yReady = true
}

// PanBy shifts the viewport by a pixel delta; positive dx reveals older bars.
func (p *Plot) PanBy(dx, dy float64) {
	if !p.xReady {
		return
	}
	shift := dx * p.x.Scale()
	p.x.Min -= shift
	p.x.Max -= shift
	if p.autoFitY {
		p.FitY()
		return
	}
	if p.yReady && dy != 0 {
		dv := dy * p.y.Scale()
		p.y.Min += dv
		p.y.Max += dv
	}
}

// ZoomAt scales the time axis around the pixel px. factor > 1 zooms in.
func (p *Plot) ZoomAt(px, factor float64) {
	if !p.xReady || factor <= 0 {
		return
	}
	pivot := p.x.GetDataValue(px)
	lo := pivot - (pivot-p.x.Min)/factor
	hi := pivot + (p.x.Max-pivot)/factor
	if p.series != nil {
		if spacing := p.series.Spacing(); spacing > 0 && hi-lo < minZoomBars*spacing {
			return
		}
	}
	p.SetXRange(lo, hi)
}

// Follow shifts the time axis right by one bar when a bar was appended and
// the viewport was showing the previous last bar.
func (p *Plot) Follow(prevLast float64) {
	if !p.xReady || p.series == nil {
		return
	}
	spacing := p.series.Spacing()
	if spacing <= 0 || p.x.Max < prevLast {
		return
	}
	p.SetXRange(p.x.Min+spacing, p.x.Max+spacing)
}

// HitTestXSlice finds the bar nearest the pointer's X. IsHit is set when
// that bar's centre is within radius pixels; IsWithinDataBounds when the
// pointer lies between the first and last bar.
func (p *Plot) HitTestXSlice(px, py, radius float64) (HitTestInfo, bool) {
	if p.series == nil || p.series.Len() == 0 || !p.xReady {
		return HitTestInfo{}, false
	}
	x := p.x.GetDataValue(px)
	i, ok := p.series.Nearest(x)
	if !ok {
		return HitTestInfo{}, false
	}
	bar := p.series.At(i)
	first, last, _ := p.series.Extent()
	barPx := p.x.GetCoordinate(bar.X())
	return HitTestInfo{
		IsHit:              math.Abs(barPx-px) <= radius,
		IsWithinDataBounds: x >= first && x <= last,
		Index:              i,
		XValue:             bar.X(),
		OpenValue:          bar.Open,
		HighValue:          bar.High,
		LowValue:           bar.Low,
		CloseValue:         bar.Close,
	}, true
}

// BarWidth returns the pixel width available per bar.
func (p *Plot) BarWidth() float64 {
	if p.series == nil || !p.xReady || p.x.Scale() == 0 {
		return 0
	}
	spacing := p.series.Spacing()
	if spacing <= 0 {
		spacing = 60
	}
	return spacing / p.x.Scale()
}
