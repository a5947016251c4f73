// Package drawing manages explicitly placed trend lines and boxes: adding
// them from the toolbar, selecting them by click, dragging them and
// deleting the selection.
package drawing

import (
	"math"

	"candlescope/internal/gesture"
	"candlescope/internal/surface"
	"candlescope/pkg/colorutil"
	"candlescope/pkg/geometry"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "drawing")

// DefaultHitRadius is how close in pixels a click must be to select.
const DefaultHitRadius = 8.0

const handleSize = 8.0

// Shape is the kind of placed annotation.
type Shape int

const (
	LineShape Shape = iota
	BoxShape
)

// Item is one placed annotation and its selection handles.
type Item struct {
	Shape    Shape
	Line     *surface.Line
	Box      *surface.Box
	Handles  [2]*surface.Glyph
	Selected bool

	group *surface.Group
}

// ID is the item's unique id.
func (it *Item) ID() string { return it.group.ID() }

// corners returns the two defining data points.
func (it *Item) corners() (geometry.Point2D, geometry.Point2D) {
	if it.Shape == BoxShape {
		return geometry.Point2D{X: it.Box.X1, Y: it.Box.Y1}, geometry.Point2D{X: it.Box.X2, Y: it.Box.Y2}
	}
	return geometry.Point2D{X: it.Line.X1, Y: it.Line.Y1}, geometry.Point2D{X: it.Line.X2, Y: it.Line.Y2}
}

func (it *Item) moveBy(dx, dy float64) {
	if it.Shape == BoxShape {
		it.Box.X1, it.Box.X2 = it.Box.X1+dx, it.Box.X2+dx
		it.Box.Y1, it.Box.Y2 = it.Box.Y1+dy, it.Box.Y2+dy
	} else {
		it.Line.X1, it.Line.X2 = it.Line.X1+dx, it.Line.X2+dx
		it.Line.Y1, it.Line.Y2 = it.Line.Y1+dy, it.Line.Y2+dy
	}
	it.syncHandles()
}

func (it *Item) syncHandles() {
	a, b := it.corners()
	it.Handles[0].X, it.Handles[0].Y = a.X, a.Y
	it.Handles[1].X, it.Handles[1].Y = b.X, b.Y
}

func (it *Item) setSelected(selected bool) {
	it.Selected = selected
	stroke := colorutil.Accent
	if selected {
		stroke = colorutil.Selected
	}
	if it.Shape == BoxShape {
		it.Box.Stroke = stroke
	} else {
		it.Line.Stroke = stroke
	}
	it.Handles[0].SetHidden(!selected)
	it.Handles[1].SetHidden(!selected)
}

// Controller owns placed annotations on one surface.
type Controller struct {
	surf      surface.Surface
	hitRadius float64
	enabled   bool
	items     []*Item

	dragging *Item
	last     geometry.Point2D // data space
}

// New creates a disabled drawing controller.
func New(surf surface.Surface, hitRadius float64) *Controller {
	if hitRadius <= 0 {
		hitRadius = DefaultHitRadius
	}
	return &Controller{surf: surf, hitRadius: hitRadius}
}

// Name implements tools.Controller.
func (c *Controller) Name() string { return "drawing" }

// Enabled reports whether clicks select annotations.
func (c *Controller) Enabled() bool { return c.enabled }

// SetEnabled arms or disarms click selection. Placed items stay.
func (c *Controller) SetEnabled(enabled bool) {
	c.enabled = enabled
	if !enabled {
		c.dragging = nil
	}
}

// Items returns placed items, oldest first.
func (c *Controller) Items() []*Item {
	out := make([]*Item, len(c.items))
	copy(out, c.items)
	return out
}

// AddLine places a trend line across the middle of the visible area and
// selects it. It returns nil when the axes are not ready.
func (c *Controller) AddLine() *Item {
	a, b, ok := c.centreSpan(0.25, 0.6, 0.75, 0.4)
	if !ok {
		return nil
	}
	line := surface.NewLine(colorutil.Accent)
	line.Thickness = 2
	line.X1, line.Y1, line.X2, line.Y2 = a.X, a.Y, b.X, b.Y
	return c.add(&Item{Shape: LineShape, Line: line})
}

// AddBox places a box over the middle of the visible area and selects it.
func (c *Controller) AddBox() *Item {
	a, b, ok := c.centreSpan(0.35, 0.35, 0.65, 0.65)
	if !ok {
		return nil
	}
	box := surface.NewBox(colorutil.WithAlpha(colorutil.Accent, 0x33), colorutil.Accent)
	box.X1, box.Y1, box.X2, box.Y2 = a.X, a.Y, b.X, b.Y
	return c.add(&Item{Shape: BoxShape, Box: box})
}

// DeleteSelected removes every selected item and returns how many went.
func (c *Controller) DeleteSelected() int {
	kept := c.items[:0]
	n := 0
	for _, it := range c.items {
		if it.Selected {
			it.group.Detach()
			n++
			continue
		}
		kept = append(kept, it)
	}
	for i := len(kept); i < len(c.items); i++ {
		c.items[i] = nil
	}
	c.items = kept
	c.dragging = nil
	if n > 0 {
		log.Debugf("deleted %d annotations", n)
	}
	return n
}

// OnPointerDown selects the topmost item under p and starts dragging it.
// A click on empty space clears the selection without consuming.
func (c *Controller) OnPointerDown(p gesture.Pointer) bool {
	if !c.enabled || p.Secondary {
		return false
	}
	hit := c.hitTest(p.Pos)
	c.selectOnly(hit)
	if hit == nil {
		return false
	}
	d, ok := surface.PointToData(c.surf, p.Pos)
	if !ok {
		return true
	}
	c.dragging, c.last = hit, d
	return true
}

// OnPointerMove drags the grabbed item.
func (c *Controller) OnPointerMove(p gesture.Pointer) bool {
	if !c.enabled || c.dragging == nil {
		return false
	}
	d, ok := surface.PointToData(c.surf, p.Pos)
	if !ok {
		return true
	}
	c.dragging.moveBy(d.X-c.last.X, d.Y-c.last.Y)
	c.last = d
	return true
}

// OnPointerUp ends a drag.
func (c *Controller) OnPointerUp(p gesture.Pointer) bool {
	was := c.dragging != nil
	c.dragging = nil
	return was
}

// OnPointerLeave ends a drag.
func (c *Controller) OnPointerLeave(p gesture.Pointer) { c.dragging = nil }

// Detach removes every placed item. Safe to call repeatedly.
func (c *Controller) Detach() {
	for _, it := range c.items {
		it.group.Detach()
	}
	c.items = nil
	c.dragging = nil
}

func (c *Controller) add(it *Item) *Item {
	for i := range it.Handles {
		it.Handles[i] = surface.NewGlyph(surface.GlyphHandle, handleSize, colorutil.Selected)
	}
	it.syncHandles()
	shape := surface.Annotation(it.Line)
	if it.Shape == BoxShape {
		shape = it.Box
	}
	it.group = surface.NewGroup(shape, it.Handles[0], it.Handles[1])
	c.selectOnly(nil)
	it.setSelected(true)
	it.group.Attach(c.surf.Annotations())
	c.items = append(c.items, it)
	return it
}

func (c *Controller) selectOnly(target *Item) {
	for _, it := range c.items {
		it.setSelected(it == target)
	}
}

// centreSpan converts two relative viewport points to data space.
func (c *Controller) centreSpan(fx1, fy1, fx2, fy2 float64) (geometry.Point2D, geometry.Point2D, bool) {
	r := c.surf.SeriesViewRect()
	a, okA := surface.PointToData(c.surf, geometry.Point2D{X: r.X + fx1*r.Width, Y: r.Y + fy1*r.Height})
	b, okB := surface.PointToData(c.surf, geometry.Point2D{X: r.X + fx2*r.Width, Y: r.Y + fy2*r.Height})
	return a, b, okA && okB
}

// hitTest returns the most recent item under p in pixel space.
func (c *Controller) hitTest(p geometry.Point2D) *Item {
	for i := len(c.items) - 1; i >= 0; i-- {
		it := c.items[i]
		a, b := it.corners()
		pa, okA := surface.PointToPixel(c.surf, a)
		pb, okB := surface.PointToPixel(c.surf, b)
		if !okA || !okB {
			return nil
		}
		if it.Shape == BoxShape {
			if geometry.RectFromCorners(pa, pb).Inset(-c.hitRadius).Contains(p) {
				return it
			}
			continue
		}
		if segmentDistance(p, pa, pb) <= c.hitRadius {
			return it
		}
	}
	return nil
}

// segmentDistance is the distance from p to the segment ab.
func segmentDistance(p, a, b geometry.Point2D) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return p.Distance(a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Distance(geometry.Point2D{X: a.X + t*ab.X, Y: a.Y + t*ab.Y})
}
