package canvas

import (
	"image"
	"math"

	"candlescope/internal/format"
	"candlescope/internal/surface"
	"candlescope/pkg/colorutil"
)

// Render draws the plot, its axes, the legend strip and every annotation
// into a new w x h image.
func Render(p *surface.Plot, legend string, w, h int) *image.RGBA {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRect(output, 0, 0, w-1, h-1, colorutil.Background)

	r := newResolver(p)
	if legend != "" {
		drawText(output, legend, 6, (int(surface.LegendHeight)-textHeight)/2, colorutil.AxisText)
	}
	if !r.ready() || r.view.Empty() {
		drawLabel(output, "Loading", 0, 0, w-1, h-1, colorutil.AxisText)
		return output
	}

	drawPriceGrid(output, p, r)
	drawTimeGrid(output, p, r)
	drawCandles(output, p, r)

	// axis separators
	drawLine(output, r.view.Max.X, r.view.Min.Y, r.view.Max.X, r.view.Max.Y, colorutil.Grid, 1, false)
	drawLine(output, r.view.Min.X, r.view.Max.Y, r.view.Max.X, r.view.Max.Y, colorutil.Grid, 1, false)

	drawAnnotations(output, p)
	return output
}

// niceStep returns a 1/2/5 x 10^n step giving roughly target divisions of span.
func niceStep(span float64, target int) float64 {
	if span <= 0 || target <= 0 {
		return 0
	}
	raw := span / float64(target)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch norm := raw / mag; {
	case norm < 1.5:
		return mag
	case norm < 3.5:
		return 2 * mag
	case norm < 7.5:
		return 5 * mag
	default:
		return 10 * mag
	}
}

func drawPriceGrid(output *image.RGBA, p *surface.Plot, r *resolver) {
	lo, hi := p.YRange()
	step := niceStep(hi-lo, r.view.Dy()/60+1)
	if step == 0 {
		return
	}
	for v := math.Ceil(lo/step) * step; v <= hi; v += step {
		y := int(r.y(v, surface.DataValue))
		drawLine(output, r.view.Min.X, y, r.view.Max.X, y, colorutil.Grid, 1, false)
		drawText(output, format.Price(v), r.view.Max.X+4, y-textHeight/2, colorutil.AxisText)
	}
}

func drawTimeGrid(output *image.RGBA, p *surface.Plot, r *resolver) {
	series := p.PrimarySeries()
	if series == nil || series.Len() == 0 {
		return
	}
	lo, hi := p.XRange()
	bars := series.Range(lo, hi)
	if len(bars) == 0 {
		return
	}
	labelW := textWidth(format.Date(bars[0].X())) + 16
	every := 1
	if pxPerBar := p.BarWidth(); pxPerBar > 0 {
		every = int(math.Ceil(float64(labelW) / pxPerBar))
	}
	if every < 1 {
		every = 1
	}
	for i := 0; i < len(bars); i += every {
		x := int(r.x(bars[i].X(), surface.DataValue))
		drawLine(output, x, r.view.Min.Y, x, r.view.Max.Y, colorutil.Grid, 1, false)
		label := format.Date(bars[i].X())
		drawText(output, label, x-textWidth(label)/2, r.view.Max.Y+5, colorutil.AxisText)
	}
}

func drawCandles(output *image.RGBA, p *surface.Plot, r *resolver) {
	series := p.PrimarySeries()
	if series == nil {
		return
	}
	plotArea, ok := output.SubImage(r.view).(*image.RGBA)
	if !ok {
		return
	}
	lo, hi := p.XRange()
	half := int(math.Max(1, p.BarWidth()*0.35))
	for _, b := range series.Range(lo, hi) {
		col := colorutil.Bullish
		if b.Bearish() {
			col = colorutil.Bearish
		}
		x := int(r.x(b.X(), surface.DataValue))
		drawLine(plotArea, x, int(r.y(b.High, surface.DataValue)), x, int(r.y(b.Low, surface.DataValue)), col, 1, false)
		yo, yc := int(r.y(b.Open, surface.DataValue)), int(r.y(b.Close, surface.DataValue))
		fillRect(plotArea, x-half, yo, x+half, yc, col)
	}
}
