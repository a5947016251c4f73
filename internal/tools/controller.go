// Package tools routes pointer events to the chart's interaction
// controllers and keeps exactly one interaction mode armed at a time.
package tools

import (
	"math"

	"candlescope/internal/gesture"
	"candlescope/pkg/geometry"
)

// Controller is the capability set every interaction controller exposes.
// Pointer handlers return true when they consume the event.
type Controller interface {
	Name() string
	Enabled() bool
	SetEnabled(enabled bool)
	OnPointerDown(p gesture.Pointer) bool
	OnPointerMove(p gesture.Pointer) bool
	OnPointerUp(p gesture.Pointer) bool
	OnPointerLeave(p gesture.Pointer)
	Detach()
}

// Viewport is the part of the surface pan/zoom drives.
type Viewport interface {
	PanBy(dx, dy float64)
	ZoomAt(px, factor float64)
}

// zoomPerPixel is the zoom factor per scrolled pixel.
const zoomPerPixel = 1.0015

// ZoomPan pans the viewport on drag and zooms on scroll.
type ZoomPan struct {
	view     Viewport
	enabled  bool
	dragging bool
	last     geometry.Point2D
}

// NewZoomPan creates an enabled pan/zoom controller.
func NewZoomPan(view Viewport) *ZoomPan {
	return &ZoomPan{view: view, enabled: true}
}

// Name implements Controller.
func (z *ZoomPan) Name() string { return "zoomPan" }

// Enabled implements Controller and gesture.PanSuspender.
func (z *ZoomPan) Enabled() bool { return z.enabled }

// SetEnabled implements Controller and gesture.PanSuspender. Disabling
// drops any drag in progress.
func (z *ZoomPan) SetEnabled(enabled bool) {
	z.enabled = enabled
	if !enabled {
		z.dragging = false
	}
}

// Dragging reports whether a pan drag is in progress.
func (z *ZoomPan) Dragging() bool { return z.dragging }

// OnPointerDown starts a pan drag without consuming the event.
func (z *ZoomPan) OnPointerDown(p gesture.Pointer) bool {
	if !z.enabled || p.Secondary {
		return false
	}
	z.dragging = true
	z.last = p.Pos
	return false
}

// OnPointerMove pans by the distance moved since the last event.
func (z *ZoomPan) OnPointerMove(p gesture.Pointer) bool {
	if !z.enabled || !z.dragging {
		return false
	}
	d := p.Pos.Sub(z.last)
	z.last = p.Pos
	if d.X == 0 && d.Y == 0 {
		return false
	}
	z.view.PanBy(d.X, d.Y)
	return true
}

// OnPointerUp ends the drag.
func (z *ZoomPan) OnPointerUp(p gesture.Pointer) bool {
	was := z.dragging
	z.dragging = false
	return was && z.enabled
}

// OnPointerLeave ends the drag.
func (z *ZoomPan) OnPointerLeave(p gesture.Pointer) { z.dragging = false }

// Detach ends the drag.
func (z *ZoomPan) Detach() { z.dragging = false }

// Scroll zooms around px; positive dy zooms in.
func (z *ZoomPan) Scroll(px, dy float64) bool {
	if !z.enabled || dy == 0 {
		return false
	}
	z.view.ZoomAt(px, math.Pow(zoomPerPixel, dy))
	return true
}
