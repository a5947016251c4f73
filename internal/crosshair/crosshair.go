// Package crosshair implements long-press price inspection and the desktop
// hover cursor. Both snap a guide-line pair to the bar nearest the pointer
// and report that bar's OHLC to a legend callback.
package crosshair

import (
	"candlescope/internal/gesture"
	"candlescope/internal/surface"
	"candlescope/pkg/geometry"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "crosshair")

// DefaultHitRadius is the snapping radius around the pointer in pixels.
const DefaultHitRadius = 20.0

// OHLC is the bar snapshot sent to the legend.
type OHLC struct {
	Name  string
	Time  float64
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// LegendFunc receives a snapshot on every update and nil when inspection ends.
type LegendFunc func(*OHLC)

// Options configures a Controller.
type Options struct {
	Gesture   gesture.Config
	HitRadius float64
	Haptics   gesture.Haptics
	Pan       gesture.PanSuspender
	OnOHLC    LegendFunc
}

// Controller shows a crosshair while a long-press gesture is active.
type Controller struct {
	surf      surface.Surface
	rec       *gesture.Recognizer
	hitRadius float64
	onOHLC    LegendFunc
	enabled   bool
	overlay   *Overlay
}

// New creates a disabled crosshair controller.
func New(surf surface.Surface, sched gesture.Scheduler, opts Options) *Controller {
	c := &Controller{surf: surf, hitRadius: opts.HitRadius, onOHLC: opts.OnOHLC}
	if c.hitRadius <= 0 {
		c.hitRadius = DefaultHitRadius
	}
	var ropts []gesture.Option
	if opts.Haptics != nil {
		ropts = append(ropts, gesture.WithHaptics(opts.Haptics))
	}
	if opts.Pan != nil {
		ropts = append(ropts, gesture.WithPanSuspender(opts.Pan))
	}
	c.rec = gesture.NewRecognizer("crosshair", opts.Gesture, sched, ropts...)
	c.rec.OnActivate = func(anchor geometry.Point2D) { c.update(anchor) }
	return c
}

// Name implements tools.Controller.
func (c *Controller) Name() string { return "crosshair" }

// Enabled reports whether the controller receives events.
func (c *Controller) Enabled() bool { return c.enabled }

// SetEnabled arms or disarms the controller. Disarming ends any gesture.
func (c *Controller) SetEnabled(enabled bool) {
	if c.enabled == enabled {
		return
	}
	c.enabled = enabled
	if !enabled {
		c.end()
	}
}

// State returns the gesture state.
func (c *Controller) State() gesture.State { return c.rec.State() }

// Overlay returns the crosshair primitives, or nil before first activation.
func (c *Controller) Overlay() *Overlay { return c.overlay }

// OnPointerDown starts the long-press timer. The event is not consumed so
// pan/zoom still sees it.
func (c *Controller) OnPointerDown(p gesture.Pointer) bool {
	if !c.enabled || p.Secondary {
		return false
	}
	c.rec.Down(p.Pos)
	return false
}

// OnPointerMove tracks the pointer while active.
func (c *Controller) OnPointerMove(p gesture.Pointer) bool {
	if !c.enabled {
		return false
	}
	if c.rec.Move(p.Pos) {
		c.update(p.Pos)
		return true
	}
	return false
}

// OnPointerUp ends the gesture.
func (c *Controller) OnPointerUp(p gesture.Pointer) bool {
	if !c.enabled {
		return false
	}
	return c.end()
}

// OnPointerLeave ends the gesture.
func (c *Controller) OnPointerLeave(p gesture.Pointer) {
	if c.enabled {
		c.end()
	}
}

// Detach removes the crosshair from the surface. Safe to call repeatedly.
func (c *Controller) Detach() {
	active := c.rec.State() == gesture.Active
	c.rec.Reset()
	if c.overlay != nil {
		c.overlay.group.Detach()
		c.overlay = nil
	}
	if active {
		c.emit(nil)
	}
}

func (c *Controller) end() bool {
	if !c.rec.End() {
		return false
	}
	c.overlay.hide()
	c.emit(nil)
	log.Debug("crosshair released")
	return true
}

func (c *Controller) update(p geometry.Point2D) {
	snap, ok := snapTo(c.surf, p, c.hitRadius)
	if !ok {
		c.overlay.hide()
		return
	}
	if c.overlay == nil {
		c.overlay = newOverlay(false)
		c.overlay.group.Attach(c.surf.Annotations())
	}
	c.overlay.place(snap.Time, snap.price)
	c.emit(&snap.OHLC)
}

func (c *Controller) emit(o *OHLC) {
	if c.onOHLC != nil {
		c.onOHLC(o)
	}
}

type snapshot struct {
	OHLC
	price float64
}

// snapTo hit-tests the primary series around p. X snaps to the nearest bar;
// Y follows the pointer. ok is false when there is no data, an axis is not
// ready, or the pointer is outside the data and not on a bar.
func snapTo(surf surface.Surface, p geometry.Point2D, radius float64) (snapshot, bool) {
	info, ok := surf.HitTestXSlice(p.X, p.Y, radius)
	if !ok {
		return snapshot{}, false
	}
	if !info.IsWithinDataBounds && !info.IsHit {
		return snapshot{}, false
	}
	price, ok := surface.ToData(surf, surface.AxisY, p.Y)
	if !ok {
		return snapshot{}, false
	}
	name := ""
	if s := surf.PrimarySeries(); s != nil {
		name = s.Name()
	}
	return snapshot{
		OHLC: OHLC{
			Name:  name,
			Time:  info.XValue,
			Open:  info.OpenValue,
			High:  info.HighValue,
			Low:   info.LowValue,
			Close: info.CloseValue,
		},
		price: price,
	}, true
}
