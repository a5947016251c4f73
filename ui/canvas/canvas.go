// Package canvas provides the chart widget: it renders a session's plot and
// feeds mouse, touch, wheel and keyboard input into the tool switchboard.
package canvas

import (
	"image"
	"sync"

	"candlescope/internal/app"
	"candlescope/internal/gesture"
	"candlescope/internal/surface"
	"candlescope/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// ChartCanvas displays a chart session.
type ChartCanvas struct {
	widget.BaseWidget

	session *app.Session
	raster  *fynecanvas.Raster

	// Interaction state
	pressed bool
	source  gesture.Source

	mu         sync.Mutex
	lastOutput *image.RGBA

	onDelete func()
}

var (
	_ fyne.Widget       = (*ChartCanvas)(nil)
	_ fyne.Draggable    = (*ChartCanvas)(nil)
	_ fyne.Scrollable   = (*ChartCanvas)(nil)
	_ fyne.Focusable    = (*ChartCanvas)(nil)
	_ desktop.Mouseable = (*ChartCanvas)(nil)
	_ desktop.Hoverable = (*ChartCanvas)(nil)
	_ mobile.Touchable  = (*ChartCanvas)(nil)
)

// NewChartCanvas creates a canvas bound to session. It redraws whenever the
// session requests it.
func NewChartCanvas(session *app.Session) *ChartCanvas {
	c := &ChartCanvas{session: session}
	c.raster = fynecanvas.NewRaster(c.draw)
	c.raster.SetMinSize(fyne.NewSize(320, 240))
	c.ExtendBaseWidget(c)
	session.State().On(app.EventRedraw, func(interface{}) { c.raster.Refresh() })
	return c
}

// OnDelete sets the callback for the Delete and Backspace keys.
func (c *ChartCanvas) OnDelete(callback func()) {
	c.onDelete = callback
}

// GetRenderedOutput returns the last rendered frame.
func (c *ChartCanvas) GetRenderedOutput() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastOutput
}

// Resize keeps the plot in logical pixels matching the widget.
func (c *ChartCanvas) Resize(size fyne.Size) {
	c.BaseWidget.Resize(size)
	c.session.Resize(float64(size.Width), float64(size.Height))
}

// draw is the raster drawing function. The frame is rendered at the plot's
// logical size and scaled by the raster.
func (c *ChartCanvas) draw(w, h int) image.Image {
	_, _, legend, _ := c.session.State().Snapshot()
	var out *image.RGBA
	c.session.View(func(p *surface.Plot) {
		size := p.Size()
		pw, ph := int(size.Width), int(size.Height)
		if pw <= 0 || ph <= 0 {
			pw, ph = w, h
		}
		out = Render(p, legend, pw, ph)
	})
	c.mu.Lock()
	c.lastOutput = out
	c.mu.Unlock()
	return out
}

func pointerAt(pos fyne.Position, src gesture.Source) gesture.Pointer {
	return gesture.Pointer{
		Pos:    geometry.Point2D{X: float64(pos.X), Y: float64(pos.Y)},
		Source: src,
	}
}

// MouseDown implements desktop.Mouseable.
func (c *ChartCanvas) MouseDown(ev *desktop.MouseEvent) {
	c.requestFocus()
	c.pressed, c.source = true, gesture.Mouse
	p := pointerAt(ev.Position, gesture.Mouse)
	p.Secondary = ev.Button == desktop.MouseButtonSecondary
	c.session.PointerDown(p)
}

// MouseUp implements desktop.Mouseable.
func (c *ChartCanvas) MouseUp(ev *desktop.MouseEvent) {
	if !c.pressed {
		return
	}
	c.pressed = false
	c.session.PointerUp(pointerAt(ev.Position, gesture.Mouse))
}

// MouseIn implements desktop.Hoverable.
func (c *ChartCanvas) MouseIn(ev *desktop.MouseEvent) {
	c.session.PointerMove(pointerAt(ev.Position, gesture.Mouse))
}

// MouseMoved implements desktop.Hoverable. Moves while pressed arrive
// through Dragged.
func (c *ChartCanvas) MouseMoved(ev *desktop.MouseEvent) {
	if c.pressed {
		return
	}
	c.session.PointerMove(pointerAt(ev.Position, gesture.Mouse))
}

// MouseOut implements desktop.Hoverable.
func (c *ChartCanvas) MouseOut() {
	c.pressed = false
	c.session.PointerLeave(gesture.Pointer{Source: gesture.Mouse})
}

// TouchDown implements mobile.Touchable.
func (c *ChartCanvas) TouchDown(ev *mobile.TouchEvent) {
	c.pressed, c.source = true, gesture.Touch
	c.session.PointerDown(pointerAt(ev.Position, gesture.Touch))
}

// TouchUp implements mobile.Touchable.
func (c *ChartCanvas) TouchUp(ev *mobile.TouchEvent) {
	c.pressed = false
	c.session.PointerUp(pointerAt(ev.Position, gesture.Touch))
}

// TouchCancel implements mobile.Touchable.
func (c *ChartCanvas) TouchCancel(ev *mobile.TouchEvent) {
	c.pressed = false
	c.session.PointerLeave(pointerAt(ev.Position, gesture.Touch))
}

// Dragged implements fyne.Draggable.
func (c *ChartCanvas) Dragged(ev *fyne.DragEvent) {
	if !c.pressed {
		return
	}
	c.session.PointerMove(pointerAt(ev.Position, c.source))
}

// DragEnd implements fyne.Draggable. The release itself arrives through
// MouseUp or TouchUp.
func (c *ChartCanvas) DragEnd() {}

// Scrolled implements fyne.Scrollable: the wheel zooms around the pointer.
func (c *ChartCanvas) Scrolled(ev *fyne.ScrollEvent) {
	c.session.Scroll(float64(ev.Position.X), float64(ev.Scrolled.DY))
}

// FocusGained implements fyne.Focusable.
func (c *ChartCanvas) FocusGained() {}

// FocusLost implements fyne.Focusable.
func (c *ChartCanvas) FocusLost() {}

// TypedRune implements fyne.Focusable.
func (c *ChartCanvas) TypedRune(rune) {}

// TypedKey implements fyne.Focusable.
func (c *ChartCanvas) TypedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyDelete, fyne.KeyBackspace:
		if c.onDelete != nil {
			c.onDelete()
		}
	}
}

func (c *ChartCanvas) requestFocus() {
	if a := fyne.CurrentApp(); a != nil {
		if cv := a.Driver().CanvasForObject(c); cv != nil {
			cv.Focus(c)
		}
	}
}

// CreateRenderer implements fyne.Widget.
func (c *ChartCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.raster)
}
