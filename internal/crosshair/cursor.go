package crosshair

import (
	"candlescope/internal/gesture"
	"candlescope/internal/surface"
)

// Cursor is the desktop hover crosshair. It follows the mouse without any
// button pressed and never consumes events.
type Cursor struct {
	surf      surface.Surface
	hitRadius float64
	onOHLC    LegendFunc
	enabled   bool
	overlay   *Overlay
}

// NewCursor creates a disabled hover cursor.
func NewCursor(surf surface.Surface, hitRadius float64, onOHLC LegendFunc) *Cursor {
	if hitRadius <= 0 {
		hitRadius = DefaultHitRadius
	}
	return &Cursor{surf: surf, hitRadius: hitRadius, onOHLC: onOHLC}
}

// Name implements tools.Controller.
func (c *Cursor) Name() string { return "cursor" }

// Enabled reports whether the cursor follows the mouse.
func (c *Cursor) Enabled() bool { return c.enabled }

// SetEnabled toggles the cursor. Disabling removes it from the surface.
func (c *Cursor) SetEnabled(enabled bool) {
	if c.enabled == enabled {
		return
	}
	c.enabled = enabled
	if !enabled {
		c.Detach()
	}
}

// Overlay returns the cursor primitives, or nil.
func (c *Cursor) Overlay() *Overlay { return c.overlay }

// OnPointerDown is ignored.
func (c *Cursor) OnPointerDown(p gesture.Pointer) bool { return false }

// OnPointerMove moves the cursor to the pointer.
func (c *Cursor) OnPointerMove(p gesture.Pointer) bool {
	if !c.enabled || p.Source == gesture.Touch {
		return false
	}
	snap, ok := snapTo(c.surf, p.Pos, c.hitRadius)
	if !ok {
		c.hide()
		return false
	}
	if c.overlay == nil {
		c.overlay = newOverlay(true)
		c.overlay.group.Attach(c.surf.Annotations())
	}
	c.overlay.place(snap.Time, snap.price)
	if c.onOHLC != nil {
		c.onOHLC(&snap.OHLC)
	}
	return false
}

// OnPointerUp is ignored.
func (c *Cursor) OnPointerUp(p gesture.Pointer) bool { return false }

// OnPointerLeave hides the cursor when the mouse leaves the chart.
func (c *Cursor) OnPointerLeave(p gesture.Pointer) {
	if c.enabled {
		c.hide()
	}
}

// Detach removes the cursor from the surface. Safe to call repeatedly.
func (c *Cursor) Detach() {
	if c.overlay == nil {
		return
	}
	c.overlay.group.Detach()
	c.overlay = nil
	if c.onOHLC != nil {
		c.onOHLC(nil)
	}
}

func (c *Cursor) hide() {
	if c.overlay.Visible() {
		c.overlay.hide()
		if c.onOHLC != nil {
			c.onOHLC(nil)
		}
	}
}
