package canvas

import (
	"image"

	"candlescope/internal/measure"
	"candlescope/internal/surface"
	"candlescope/pkg/geometry"
)

// resolver maps annotation coordinates to pixels for one frame.
type resolver struct {
	view   image.Rectangle
	rect   [4]float64 // left, top, width, height
	xc, yc surface.Calculator
}

func newResolver(p *surface.Plot) *resolver {
	r := p.SeriesViewRect()
	return &resolver{
		view: image.Rect(int(r.Left()), int(r.Top()), int(r.Right()), int(r.Bottom())),
		rect: [4]float64{r.Left(), r.Top(), r.Width, r.Height},
		xc:   p.Calculator(surface.AxisX),
		yc:   p.Calculator(surface.AxisY),
	}
}

func (r *resolver) ready() bool { return r.xc != nil && r.yc != nil }

func (r *resolver) x(v float64, mode surface.CoordMode) float64 {
	switch mode {
	case surface.Pixel:
		return v
	case surface.Relative:
		return r.rect[0] + v*r.rect[2]
	}
	return r.xc.GetCoordinate(v)
}

func (r *resolver) y(v float64, mode surface.CoordMode) float64 {
	switch mode {
	case surface.Pixel:
		return v
	case surface.Relative:
		return r.rect[1] + v*r.rect[3]
	}
	return r.yc.GetCoordinate(v)
}

// drawAnnotations paints every visible annotation in collection order.
// Plot-area shapes are clipped to the series view; axis markers are drawn
// last, over the axes.
func drawAnnotations(output *image.RGBA, p *surface.Plot) {
	r := newResolver(p)
	if !r.ready() {
		return
	}
	plotArea, ok := output.SubImage(r.view).(*image.RGBA)
	if !ok {
		return
	}

	var markers []*surface.AxisMarker
	for _, a := range p.Collection().Items() {
		if a.Hidden() {
			continue
		}
		switch v := a.(type) {
		case *surface.Box:
			x1, y1 := int(r.x(v.X1, v.XMode)), int(r.y(v.Y1, v.YMode))
			x2, y2 := int(r.x(v.X2, v.XMode)), int(r.y(v.Y2, v.YMode))
			if v.Fill.A > 0 {
				fillRect(plotArea, x1, y1, x2, y2, v.Fill)
			}
			if v.Stroke.A > 0 {
				strokeRect(plotArea, x1, y1, x2, y2, v.Stroke, v.Thickness)
			}
		case *surface.Line:
			drawLine(plotArea,
				int(r.x(v.X1, v.XMode)), int(r.y(v.Y1, v.YMode)),
				int(r.x(v.X2, v.XMode)), int(r.y(v.Y2, v.YMode)),
				v.Stroke, v.Thickness, v.Dashed)
		case *surface.Glyph:
			cx, cy := r.x(v.X, v.XMode), r.y(v.Y, v.YMode)
			switch v.Shape {
			case surface.GlyphArrow:
				drawArrowHead(plotArea, cx, cy, v.Size, v.Rotation, v.Color)
			case surface.GlyphDelete:
				drawDeleteGlyph(output, cx, cy, v.Size)
			case surface.GlyphHandle:
				drawHandle(plotArea, cx, cy, v.Size, v.Color)
			}
		case *surface.Label:
			drawTooltip(output, r, v)
		case *surface.AxisMarker:
			markers = append(markers, v)
		}
	}
	for _, m := range markers {
		drawAxisMarker(output, r, m)
	}
}

// drawTooltip draws a label box with one text row per line. The first line
// takes the accent color when one is set.
func drawTooltip(output *image.RGBA, r *resolver, l *surface.Label) {
	if len(l.Lines) == 0 {
		return
	}
	box := measure.LabelRect(measure.Placement{
		X:       r.x(l.X, l.XMode),
		Y:       r.y(l.Y, l.YMode),
		HAnchor: l.HAnchor,
		VAnchor: l.VAnchor,
	}, geometry.Size{Width: l.Width, Height: l.Height})
	x1, y1 := int(box.Left()), int(box.Top())
	x2, y2 := int(box.Right()), int(box.Bottom())
	fillRect(output, x1, y1, x2, y2, l.Background)
	if l.Accent.A > 0 {
		strokeRect(output, x1, y1, x2, y2, l.Accent, 1)
	}
	for i, line := range l.Lines {
		col := l.Foreground
		if i == 0 && l.Accent.A > 0 {
			col = l.Accent
		}
		drawText(output, line, x1+6, y1+3+i*(textHeight+1), col)
	}
}

// drawAxisMarker draws a value badge on the price axis (right) or the
// time axis (bottom).
func drawAxisMarker(output *image.RGBA, r *resolver, m *surface.AxisMarker) {
	if m.Text == "" {
		return
	}
	w := textWidth(m.Text) + 8
	h := textHeight + 4
	switch m.Axis {
	case surface.AxisY:
		y := int(r.y(m.Value, surface.DataValue))
		if y < r.view.Min.Y || y > r.view.Max.Y {
			return
		}
		x := r.view.Max.X + 1
		fillRect(output, x, y-h/2, x+int(surface.PriceAxisWidth)-2, y+h/2, m.Background)
		drawText(output, m.Text, x+4, y-textHeight/2, m.Foreground)
	case surface.AxisX:
		x := int(r.x(m.Value, surface.DataValue))
		if x < r.view.Min.X || x > r.view.Max.X {
			return
		}
		y := r.view.Max.Y + 1
		left := x - w/2
		switch m.Edge {
		case surface.EdgeStart:
			left = x - w
		case surface.EdgeEnd:
			left = x
		}
		fillRect(output, left, y, left+w, y+h, m.Background)
		drawText(output, m.Text, left+4, y+2, m.Foreground)
	}
}
