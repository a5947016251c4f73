package tools

import (
	"strings"

	"candlescope/internal/gesture"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "tools")

// Tool is the selected interaction mode.
type Tool int

const (
	Pan Tool = iota
	Crosshair
	Measurement
	Selection
)

// Tools lists every mode in toolbar order.
var Tools = []Tool{Pan, Crosshair, Measurement, Selection}

func (t Tool) String() string {
	switch t {
	case Crosshair:
		return "crosshair"
	case Measurement:
		return "measurement"
	case Selection:
		return "selection"
	}
	return "pan"
}

// ParseTool maps a tool name to a Tool. Unknown names mean Pan.
func ParseTool(name string) Tool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "crosshair":
		return Crosshair
	case "measurement", "measure":
		return Measurement
	case "selection", "select":
		return Selection
	}
	return Pan
}

// Platform selects the desktop or mobile interaction variant.
type Platform int

const (
	Desktop Platform = iota
	Mobile
)

func (p Platform) String() string {
	if p == Mobile {
		return "mobile"
	}
	return "desktop"
}

// Set holds one controller per role. Nil roles are skipped.
type Set struct {
	ZoomPan     *ZoomPan
	Crosshair   Controller
	Measurement Controller
	Selection   Controller
	Drawing     Controller
	Cursor      Controller
}

// Switchboard owns the controllers and decides which are armed.
type Switchboard struct {
	platform Platform
	set      Set
	tool     Tool
	cursorOn bool
}

// NewSwitchboard arms the Pan tool.
func NewSwitchboard(platform Platform, set Set) *Switchboard {
	s := &Switchboard{platform: platform, set: set}
	s.SetTool(Pan.String())
	return s
}

// Platform returns the interaction variant.
func (s *Switchboard) Platform() Platform { return s.platform }

// Tool returns the active mode.
func (s *Switchboard) Tool() Tool { return s.tool }

// CursorEnabled reports whether the hover cursor is on.
func (s *Switchboard) CursorEnabled() bool { return s.cursorOn }

// SetTool arms exactly the controllers the named tool needs and disarms
// everything else. Unknown names select Pan.
func (s *Switchboard) SetTool(name string) Tool {
	t := ParseTool(name)

	// Disarm first so gestures in flight restore pan before it is set.
	for _, c := range s.modal() {
		c.SetEnabled(false)
	}
	if s.set.ZoomPan != nil {
		s.set.ZoomPan.SetEnabled(false)
	}

	for _, c := range s.required(t) {
		c.SetEnabled(true)
	}
	s.tool = t
	s.applyCursor()
	log.Debugf("tool %s on %s", t, s.platform)
	return t
}

// ToggleCursor switches the desktop hover cursor. It is always off on mobile.
func (s *Switchboard) ToggleCursor(enabled bool) bool {
	s.cursorOn = enabled && s.platform == Desktop
	s.applyCursor()
	return s.cursorOn
}

func (s *Switchboard) applyCursor() {
	if s.set.Cursor != nil {
		s.set.Cursor.SetEnabled(s.cursorOn && s.platform == Desktop)
	}
}

// required lists the controllers armed for t.
func (s *Switchboard) required(t Tool) []Controller {
	var out []Controller
	add := func(c Controller) {
		if !isNil(c) {
			out = append(out, c)
		}
	}
	var zp Controller
	if s.set.ZoomPan != nil {
		zp = s.set.ZoomPan
	}
	switch t {
	case Crosshair:
		add(s.set.Crosshair)
		add(zp)
	case Measurement:
		add(s.set.Measurement)
		add(zp)
	case Selection:
		add(s.set.Selection)
	default:
		add(s.set.Drawing)
		add(zp)
	}
	return out
}

// modal lists every controller the tool selection governs.
func (s *Switchboard) modal() []Controller {
	var out []Controller
	for _, c := range []Controller{s.set.Measurement, s.set.Selection, s.set.Drawing, s.set.Crosshair} {
		if !isNil(c) {
			out = append(out, c)
		}
	}
	return out
}

// Controllers returns every controller in dispatch order.
func (s *Switchboard) Controllers() []Controller {
	out := s.modal()
	if !isNil(s.set.Cursor) {
		out = append(out, s.set.Cursor)
	}
	if s.set.ZoomPan != nil {
		out = append(out, s.set.ZoomPan)
	}
	return out
}

// Enabled returns the names of the armed controllers in dispatch order.
func (s *Switchboard) Enabled() []string {
	var names []string
	for _, c := range s.Controllers() {
		if c.Enabled() {
			names = append(names, c.Name())
		}
	}
	return names
}

// PointerDown delivers p to armed controllers until one consumes it.
func (s *Switchboard) PointerDown(p gesture.Pointer) bool {
	for _, c := range s.Controllers() {
		if c.Enabled() && c.OnPointerDown(p) {
			return true
		}
	}
	return false
}

// PointerMove delivers p to armed controllers until one consumes it.
func (s *Switchboard) PointerMove(p gesture.Pointer) bool {
	for _, c := range s.Controllers() {
		if c.Enabled() && c.OnPointerMove(p) {
			return true
		}
	}
	return false
}

// PointerUp delivers p to every armed controller.
func (s *Switchboard) PointerUp(p gesture.Pointer) bool {
	consumed := false
	for _, c := range s.Controllers() {
		if c.Enabled() && c.OnPointerUp(p) {
			consumed = true
		}
	}
	return consumed
}

// PointerLeave delivers p to every armed controller.
func (s *Switchboard) PointerLeave(p gesture.Pointer) {
	for _, c := range s.Controllers() {
		if c.Enabled() {
			c.OnPointerLeave(p)
		}
	}
}

// Scroll zooms when pan/zoom is armed.
func (s *Switchboard) Scroll(px, dy float64) bool {
	if s.set.ZoomPan == nil {
		return false
	}
	return s.set.ZoomPan.Scroll(px, dy)
}

// Detach tears down every controller. Safe to call repeatedly.
func (s *Switchboard) Detach() {
	for _, c := range s.Controllers() {
		c.Detach()
	}
}

func isNil(c Controller) bool {
	if c == nil {
		return true
	}
	if zp, ok := c.(*ZoomPan); ok {
		return zp == nil
	}
	return false
}
