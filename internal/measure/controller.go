// Package measure implements drag-to-measure boxes with live statistics.
// The Measurement variant starts on long-press and keeps every committed
// box until it is deleted; the Selection variant starts on mouse-down,
// keeps a single result and treats short clicks as taps on one bar.
package measure

import (
	"fmt"

	"candlescope/internal/format"
	"candlescope/internal/gesture"
	"candlescope/internal/stats"
	"candlescope/internal/surface"
	"candlescope/pkg/colorutil"
	"candlescope/pkg/geometry"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "measure")

// Variant selects how a gesture starts and how results are kept.
type Variant int

const (
	Measurement Variant = iota
	Selection
)

func (v Variant) String() string {
	if v == Selection {
		return "selection"
	}
	return "measurement"
}

// Defaults in pixels.
const (
	DefaultDeleteRadius = 20.0
	DefaultTapThreshold = 20.0
)

// Result describes a committed measurement or a selection tap.
type Result struct {
	Variant Variant
	GroupID string
	Anchor  geometry.Point2D // data space
	End     geometry.Point2D // data space
	Tap     bool
	Stats   *stats.Stats
}

// Options configures a Controller.
type Options struct {
	Variant       Variant
	Gesture       gesture.Config
	Haptics       gesture.Haptics
	Pan           gesture.PanSuspender
	DeleteRadius  float64
	TapThreshold  float64
	TooltipWidth  float64
	TooltipHeight float64

	// Debug panics when a committed group is incomplete.
	Debug bool

	// OnCommit is called for every committed group and selection tap.
	OnCommit func(Result)
}

// Controller drives one measurement or selection tool on a surface.
type Controller struct {
	surf surface.Surface
	rec  *gesture.Recognizer
	opts Options

	enabled bool
	draft   *Group
	groups  []*Group

	selection *Group
	tapTip    *surface.Group
}

// New creates a disabled controller.
func New(surf surface.Surface, sched gesture.Scheduler, opts Options) *Controller {
	if opts.DeleteRadius <= 0 {
		opts.DeleteRadius = DefaultDeleteRadius
	}
	if opts.TapThreshold <= 0 {
		opts.TapThreshold = DefaultTapThreshold
	}
	if opts.TooltipWidth <= 0 {
		opts.TooltipWidth = DefaultTooltipWidth
	}
	if opts.TooltipHeight <= 0 {
		opts.TooltipHeight = DefaultTooltipHeight
	}
	c := &Controller{surf: surf, opts: opts}
	var ropts []gesture.Option
	if opts.Haptics != nil {
		ropts = append(ropts, gesture.WithHaptics(opts.Haptics))
	}
	if opts.Pan != nil {
		ropts = append(ropts, gesture.WithPanSuspender(opts.Pan))
	}
	c.rec = gesture.NewRecognizer(opts.Variant.String(), opts.Gesture, sched, ropts...)
	c.rec.OnActivate = c.begin
	return c
}

// Name implements tools.Controller.
func (c *Controller) Name() string { return c.opts.Variant.String() }

// Variant returns the controller's variant.
func (c *Controller) Variant() Variant { return c.opts.Variant }

// Enabled reports whether the controller receives events.
func (c *Controller) Enabled() bool { return c.enabled }

// SetEnabled arms or disarms the controller. Disarming discards an
// in-progress draw and the transient selection; committed measurements stay.
func (c *Controller) SetEnabled(enabled bool) {
	if c.enabled == enabled {
		return
	}
	c.enabled = enabled
	if !enabled {
		c.rec.Reset()
		c.discardDraft()
		c.clearSelection()
	}
}

// State returns the gesture state.
func (c *Controller) State() gesture.State { return c.rec.State() }

// Draft returns the group being drawn, or nil.
func (c *Controller) Draft() *Group { return c.draft }

// Groups returns committed measurements, oldest first.
func (c *Controller) Groups() []*Group {
	out := make([]*Group, len(c.groups))
	copy(out, c.groups)
	return out
}

// Selection returns the current selection result, or nil.
func (c *Controller) Selection() *Group { return c.selection }

// TapTooltip returns the single-bar tooltip from the last selection tap.
func (c *Controller) TapTooltip() *surface.Group { return c.tapTip }

// OnPointerDown deletes a group when p lands on its delete control and
// consumes the event. Otherwise it starts a gesture: a long-press for
// Measurement, an immediate drag for Selection.
func (c *Controller) OnPointerDown(p gesture.Pointer) bool {
	if !c.enabled || p.Secondary {
		return false
	}
	if c.deleteAt(p.Pos) {
		return true
	}
	if c.opts.Variant == Selection {
		c.rec.Activate(p.Pos)
		return true
	}
	c.rec.Down(p.Pos)
	return false
}

// OnPointerMove updates the draft while the gesture is active.
func (c *Controller) OnPointerMove(p gesture.Pointer) bool {
	if !c.enabled || !c.rec.Move(p.Pos) {
		return false
	}
	c.update(p.Pos)
	return true
}

// OnPointerUp finishes the gesture.
func (c *Controller) OnPointerUp(p gesture.Pointer) bool {
	if !c.enabled {
		return false
	}
	return c.finish(p.Pos)
}

// OnPointerLeave finishes the gesture at the last known position.
func (c *Controller) OnPointerLeave(p gesture.Pointer) {
	if c.enabled {
		c.finish(c.rec.Current())
	}
}

// Detach removes every primitive the controller created. Safe to call
// repeatedly.
func (c *Controller) Detach() {
	c.rec.Reset()
	c.discardDraft()
	c.clearSelection()
	for _, g := range c.groups {
		g.group.Detach()
	}
	c.groups = nil
}

// DeleteGroup removes a committed group by id.
func (c *Controller) DeleteGroup(id string) bool {
	for i, g := range c.groups {
		if g.ID() == id {
			g.group.Detach()
			c.groups = append(c.groups[:i], c.groups[i+1:]...)
			return true
		}
	}
	if c.selection != nil && c.selection.ID() == id {
		c.clearSelection()
		return true
	}
	return false
}

// begin creates the draft group at the activation point.
func (c *Controller) begin(anchor geometry.Point2D) {
	c.discardDraft()
	if c.opts.Variant == Selection {
		c.clearSelection()
	}
	a, ok := surface.PointToData(c.surf, anchor)
	if !ok {
		return
	}
	g := newGroup(c.opts.Variant, a, geometry.Size{Width: c.opts.TooltipWidth, Height: c.opts.TooltipHeight})
	if !g.layout(c.surf, a) {
		return
	}
	g.group.Attach(c.surf.Annotations())
	c.draft = g
	c.check(g)
}

func (c *Controller) update(p geometry.Point2D) {
	if c.draft == nil {
		return
	}
	d, ok := surface.PointToData(c.surf, p)
	if !ok {
		return
	}
	c.draft.layout(c.surf, d)
}

func (c *Controller) finish(p geometry.Point2D) bool {
	anchor := c.rec.Anchor()
	if !c.rec.End() {
		return false
	}
	g := c.draft
	c.draft = nil
	if g == nil {
		return true
	}

	if c.opts.Variant == Selection && p.Distance(anchor) < c.opts.TapThreshold {
		g.group.Detach()
		c.tap(p)
		return true
	}
	if g.Anchor == g.Current {
		g.group.Detach()
		return true
	}

	g.commit(c.surf)
	c.check(g)
	if c.opts.Variant == Selection {
		c.selection = g
	} else {
		c.groups = append(c.groups, g)
	}
	log.Debugf("%s %s committed", c.opts.Variant, g.ID())
	c.notify(Result{Variant: c.opts.Variant, GroupID: g.ID(), Anchor: g.Anchor, End: g.Current, Stats: g.Stats})
	return true
}

// tap shows single-bar stats at the tap position.
func (c *Controller) tap(p geometry.Point2D) {
	x, ok := surface.ToData(c.surf, surface.AxisX, p.X)
	if !ok {
		return
	}
	st := stats.AtBar(c.surf.PrimarySeries(), x)
	if st == nil {
		return
	}
	label := surface.NewLabel(c.opts.TooltipWidth, c.opts.TooltipHeight, colorutil.LabelBG, colorutil.LabelFG)
	label.XMode, label.YMode = surface.Pixel, surface.Pixel
	label.Lines = format.SelectionLines(st)
	label.Accent = colorutil.Change(st.Change)

	size := geometry.Size{Width: label.Width, Height: label.Height}
	pl := PlaceTooltip(geometry.Rect{X: p.X, Y: p.Y}, c.surf.SeriesViewRect(), size)
	label.X, label.Y, label.HAnchor, label.VAnchor = pl.X, pl.Y, pl.HAnchor, pl.VAnchor
	pixelToData(c.surf, &label.X, &label.Y, &label.XMode, &label.YMode)

	c.tapTip = surface.NewGroup(label)
	c.tapTip.Attach(c.surf.Annotations())
	log.Debugf("selection tap at %s", format.Date(x))
	c.notify(Result{Variant: Selection, GroupID: c.tapTip.ID(), Anchor: geometry.Point2D{X: x}, End: geometry.Point2D{X: x}, Tap: true, Stats: st})
}

// deleteAt deletes the most recent group whose delete control is under p.
func (c *Controller) deleteAt(p geometry.Point2D) bool {
	if c.selection != nil && c.selection.deleteHit(c.surf, p, c.opts.DeleteRadius) {
		log.Debugf("selection %s deleted", c.selection.ID())
		c.clearSelection()
		return true
	}
	for i := len(c.groups) - 1; i >= 0; i-- {
		g := c.groups[i]
		if g.deleteHit(c.surf, p, c.opts.DeleteRadius) {
			g.group.Detach()
			c.groups = append(c.groups[:i], c.groups[i+1:]...)
			log.Debugf("measurement %s deleted", g.ID())
			return true
		}
	}
	return false
}

func (c *Controller) discardDraft() {
	if c.draft != nil {
		c.draft.group.Detach()
		c.draft = nil
	}
}

func (c *Controller) clearSelection() {
	if c.selection != nil {
		c.selection.group.Detach()
		c.selection = nil
	}
	if c.tapTip != nil {
		c.tapTip.Detach()
		c.tapTip = nil
	}
}

func (c *Controller) check(g *Group) {
	if !c.opts.Debug {
		return
	}
	if err := g.Validate(); err != nil {
		panic(fmt.Sprintf("measure: %v", err))
	}
}

func (c *Controller) notify(r Result) {
	if c.opts.OnCommit != nil {
		c.opts.OnCommit(r)
	}
}
