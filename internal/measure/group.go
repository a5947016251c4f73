package measure

import (
	"image/color"
	"math"

	"candlescope/internal/format"
	"candlescope/internal/stats"
	"candlescope/internal/surface"
	"candlescope/pkg/colorutil"
	"candlescope/pkg/geometry"
)

const (
	arrowSize      = 10.0
	arrowInset     = 5.0
	deleteSize     = 16.0
	fillAlpha      = 0x33
	guideThickness = 1
)

// Primitive counts of a drawn group before and after commit.
var (
	draftKinds = map[surface.Kind]int{
		surface.KindBox:        1,
		surface.KindLine:       2,
		surface.KindGlyph:      2,
		surface.KindAxisMarker: 4,
		surface.KindLabel:      1,
	}
	committedKinds = map[surface.Kind]int{
		surface.KindBox:        1,
		surface.KindLine:       2,
		surface.KindGlyph:      3,
		surface.KindAxisMarker: 4,
		surface.KindLabel:      1,
	}
)

// Group is one measurement: a box between the anchor and the current
// pointer, guide lines through its middle, direction arrows, four axis
// markers, a stats tooltip and, once committed, a delete control.
type Group struct {
	Box     *surface.Box
	HLine   *surface.Line
	VLine   *surface.Line
	HArrow  *surface.Glyph
	VArrow  *surface.Glyph
	XStart  *surface.AxisMarker
	XEnd    *surface.AxisMarker
	YHigh   *surface.AxisMarker
	YLow    *surface.AxisMarker
	Tooltip *surface.Label
	Delete  *surface.Glyph

	Anchor  geometry.Point2D // data space
	Current geometry.Point2D // data space
	Bearish bool
	Stats   *stats.Stats

	variant   Variant
	committed bool
	group     *surface.Group
}

func newGroup(v Variant, anchor geometry.Point2D, tooltip geometry.Size) *Group {
	g := &Group{
		Box:     surface.NewBox(colorutil.SkyBlue, colorutil.SkyBlue),
		HLine:   surface.NewLine(colorutil.SkyBlue),
		VLine:   surface.NewLine(colorutil.SkyBlue),
		HArrow:  surface.NewGlyph(surface.GlyphArrow, arrowSize, colorutil.SkyBlue),
		VArrow:  surface.NewGlyph(surface.GlyphArrow, arrowSize, colorutil.SkyBlue),
		XStart:  surface.NewAxisMarker(surface.AxisX, surface.EdgeStart, colorutil.SkyBlue, colorutil.White),
		XEnd:    surface.NewAxisMarker(surface.AxisX, surface.EdgeEnd, colorutil.SkyBlue, colorutil.White),
		YHigh:   surface.NewAxisMarker(surface.AxisY, surface.EdgeEnd, colorutil.SkyBlue, colorutil.White),
		YLow:    surface.NewAxisMarker(surface.AxisY, surface.EdgeStart, colorutil.SkyBlue, colorutil.White),
		Tooltip: surface.NewLabel(tooltip.Width, tooltip.Height, colorutil.LabelBG, colorutil.LabelFG),
		Anchor:  anchor,
		Current: anchor,
		variant: v,
	}
	g.HLine.Thickness, g.VLine.Thickness = guideThickness, guideThickness
	g.HLine.Dashed, g.VLine.Dashed = true, true
	g.HArrow.XMode, g.HArrow.YMode = surface.Pixel, surface.Pixel
	g.VArrow.XMode, g.VArrow.YMode = surface.Pixel, surface.Pixel
	g.Tooltip.XMode, g.Tooltip.YMode = surface.Pixel, surface.Pixel
	g.group = surface.NewGroup(
		g.Box, g.HLine, g.VLine, g.HArrow, g.VArrow,
		g.XStart, g.XEnd, g.YHigh, g.YLow, g.Tooltip,
	)
	return g
}

// ID is the group's unique id.
func (g *Group) ID() string { return g.group.ID() }

// Committed reports whether the group has been finalised.
func (g *Group) Committed() bool { return g.committed }

// Items returns every primitive in the group.
func (g *Group) Items() []surface.Annotation { return g.group.Items() }

// Validate checks the group holds exactly its documented primitive set.
func (g *Group) Validate() error {
	if g.committed {
		return g.group.Validate(committedKinds)
	}
	return g.group.Validate(draftKinds)
}

// DataBounds returns the box extent in data space.
func (g *Group) DataBounds() (minX, maxX, minY, maxY float64) {
	return math.Min(g.Anchor.X, g.Current.X), math.Max(g.Anchor.X, g.Current.X),
		math.Min(g.Anchor.Y, g.Current.Y), math.Max(g.Anchor.Y, g.Current.Y)
}

// layout recomputes every primitive from the anchor and current data points.
// It returns false and leaves the group unchanged when an axis is not ready.
func (g *Group) layout(surf surface.Surface, current geometry.Point2D) bool {
	ap, okA := surface.PointToPixel(surf, g.Anchor)
	cp, okC := surface.PointToPixel(surf, current)
	if !okA || !okC {
		return false
	}
	g.Current = current
	g.Bearish = current.Y < g.Anchor.Y

	col := colorutil.Direction(g.Bearish)
	minX, maxX, minY, maxY := g.DataBounds()
	midX, midY := (minX+maxX)/2, (minY+maxY)/2

	g.Box.X1, g.Box.Y1, g.Box.X2, g.Box.Y2 = g.Anchor.X, g.Anchor.Y, current.X, current.Y
	g.Box.Fill, g.Box.Stroke = colorutil.WithAlpha(col, fillAlpha), col

	g.HLine.X1, g.HLine.X2, g.HLine.Y1, g.HLine.Y2 = minX, maxX, midY, midY
	g.VLine.X1, g.VLine.X2, g.VLine.Y1, g.VLine.Y2 = midX, midX, minY, maxY
	g.HLine.Stroke, g.VLine.Stroke = col, col

	px := geometry.RectFromCorners(ap, cp)
	pmid := px.Center()
	isRight := cp.X >= ap.X
	isDown := cp.Y > ap.Y

	g.HArrow.Y, g.HArrow.Rotation = pmid.Y, 0
	g.HArrow.X = px.Right() - arrowInset
	if !isRight {
		g.HArrow.X, g.HArrow.Rotation = px.Left()+arrowInset, 180
	}
	g.VArrow.X, g.VArrow.Rotation = pmid.X, 90
	g.VArrow.Y = px.Bottom() - arrowInset
	if !isDown {
		g.VArrow.Y, g.VArrow.Rotation = px.Top()+arrowInset, 270
	}
	g.HArrow.Color, g.VArrow.Color = col, col

	g.XStart.Value, g.XStart.Text = minX, format.Date(minX)
	g.XEnd.Value, g.XEnd.Text = maxX, format.Date(maxX)
	g.YHigh.Value, g.YHigh.Text = maxY, format.Price(maxY)
	g.YLow.Value, g.YLow.Text = minY, format.Price(minY)
	for _, m := range []*surface.AxisMarker{g.XStart, g.XEnd, g.YHigh, g.YLow} {
		m.Background = col
	}

	g.Stats = stats.Compute(surf.PrimarySeries(), minX, maxX)
	g.layoutTooltip(surf, px, col)
	return true
}

func (g *Group) layoutTooltip(surf surface.Surface, box geometry.Rect, col color.RGBA) {
	if g.Stats == nil {
		g.Tooltip.Lines = nil
		g.Tooltip.SetHidden(true)
		return
	}
	size := geometry.Size{Width: g.Tooltip.Width, Height: g.Tooltip.Height}
	pl := PlaceTooltip(box, surf.SeriesViewRect(), size)
	g.Tooltip.X, g.Tooltip.Y = pl.X, pl.Y
	g.Tooltip.HAnchor, g.Tooltip.VAnchor = pl.HAnchor, pl.VAnchor
	if g.variant == Selection {
		g.Tooltip.Lines = format.SelectionLines(g.Stats)
	} else {
		g.Tooltip.Lines = format.MeasurementLines(g.Stats)
	}
	g.Tooltip.Accent = col
	g.Tooltip.SetHidden(false)
}

// commit converts the pixel-space arrows and tooltip to data space and
// appends the delete control at the box's top-right data corner.
func (g *Group) commit(surf surface.Surface) {
	for _, gl := range []*surface.Glyph{g.HArrow, g.VArrow} {
		pixelToData(surf, &gl.X, &gl.Y, &gl.XMode, &gl.YMode)
	}
	pixelToData(surf, &g.Tooltip.X, &g.Tooltip.Y, &g.Tooltip.XMode, &g.Tooltip.YMode)

	_, maxX, _, maxY := g.DataBounds()
	g.Delete = surface.NewGlyph(surface.GlyphDelete, deleteSize, colorutil.DeleteBG)
	g.Delete.X, g.Delete.Y = maxX, maxY
	g.group.Append(g.Delete)
	g.committed = true
}

func pixelToData(surf surface.Surface, x, y *float64, xm, ym *surface.CoordMode) {
	p, ok := surface.PointToData(surf, geometry.Point2D{X: *x, Y: *y})
	if !ok {
		return
	}
	*x, *y = p.X, p.Y
	*xm, *ym = surface.DataValue, surface.DataValue
}

// deleteHit reports whether p is within radius of the delete control at its
// current pixel position.
func (g *Group) deleteHit(surf surface.Surface, p geometry.Point2D, radius float64) bool {
	if g.Delete == nil {
		return false
	}
	at, ok := surface.PointToPixel(surf, geometry.Point2D{X: g.Delete.X, Y: g.Delete.Y})
	if !ok {
		return false
	}
	return geometry.SquareAround(at, radius).Contains(p)
}
