package gesture

import (
	"time"

	"candlescope/pkg/geometry"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "gesture")

// Defaults for long-press recognition.
const (
	DefaultDelay         = 200 * time.Millisecond
	DefaultMoveThreshold = 10.0
)

// State is the recognizer's state machine value.
type State int

const (
	Idle State = iota
	Pending
	Active
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Active:
		return "active"
	}
	return "idle"
}

// Config holds the time and distance thresholds.
type Config struct {
	Delay         time.Duration
	MoveThreshold float64
}

// DefaultConfig returns 200ms / 10px.
func DefaultConfig() Config {
	return Config{Delay: DefaultDelay, MoveThreshold: DefaultMoveThreshold}
}

// Recognizer detects long-press gestures. A pointer-down arms a timer; the
// gesture activates when the timer fires before the pointer travels more
// than MoveThreshold pixels, otherwise it returns to Idle and the pointer
// is left to pan. Not safe for concurrent use.
type Recognizer struct {
	name    string
	cfg     Config
	sched   Scheduler
	haptics Haptics
	pan     PanSuspender

	// OnActivate runs when the gesture becomes Active, after the haptic
	// pulse and pan suspension.
	OnActivate func(anchor geometry.Point2D)

	state   State
	anchor  geometry.Point2D
	current geometry.Point2D
	timer   Timer
	gen     uint64

	panHeld  bool
	panSaved bool
}

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithHaptics sets the pulse produced on activation.
func WithHaptics(h Haptics) Option {
	return func(r *Recognizer) { r.haptics = h }
}

// WithPanSuspender sets the pan controller held off while active.
func WithPanSuspender(p PanSuspender) Option {
	return func(r *Recognizer) { r.pan = p }
}

// NewRecognizer creates an idle recognizer.
func NewRecognizer(name string, cfg Config, sched Scheduler, opts ...Option) *Recognizer {
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.MoveThreshold <= 0 {
		cfg.MoveThreshold = DefaultMoveThreshold
	}
	r := &Recognizer{name: name, cfg: cfg, sched: sched, haptics: NoHaptics{}}
	for _, o := range opts {
		o(r)
	}
	return r
}

// State returns the current state.
func (r *Recognizer) State() State { return r.state }

// Anchor returns the pointer-down position of the current gesture.
func (r *Recognizer) Anchor() geometry.Point2D { return r.anchor }

// Current returns the last pointer position seen.
func (r *Recognizer) Current() geometry.Point2D { return r.current }

// Down starts a gesture at p and arms the long-press timer.
func (r *Recognizer) Down(p geometry.Point2D) {
	r.Reset()
	r.anchor, r.current = p, p
	r.state = Pending
	r.gen++
	gen := r.gen
	r.timer = r.sched.AfterFunc(r.cfg.Delay, func() { r.fire(gen) })
	log.Debugf("%s: pending at (%.0f, %.0f)", r.name, p.X, p.Y)
}

// Activate starts a gesture at p that is immediately Active, as for a
// mouse-down drag.
func (r *Recognizer) Activate(p geometry.Point2D) {
	r.Reset()
	r.gen++
	r.anchor, r.current = p, p
	r.activate()
}

// Move records a pointer move. While Pending a move beyond the threshold
// cancels the gesture. It returns true when the gesture is Active.
func (r *Recognizer) Move(p geometry.Point2D) bool {
	switch r.state {
	case Pending:
		r.current = p
		if p.Distance(r.anchor) > r.cfg.MoveThreshold {
			log.Debugf("%s: moved beyond threshold, cancelled", r.name)
			r.Reset()
		}
		return false
	case Active:
		r.current = p
		return true
	}
	return false
}

// End finishes the gesture on pointer-up or leave. It returns true when the
// gesture had been Active, in which case the caller should finalise.
func (r *Recognizer) End() bool {
	wasActive := r.state == Active
	r.Reset()
	return wasActive
}

// Reset cancels any pending timer, restores pan and returns to Idle.
// Safe to call in any state.
func (r *Recognizer) Reset() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.gen++
	if r.panHeld {
		if r.pan != nil {
			r.pan.SetEnabled(r.panSaved)
		}
		r.panHeld = false
	}
	r.state = Idle
}

func (r *Recognizer) fire(gen uint64) {
	if gen != r.gen || r.state != Pending {
		return
	}
	r.timer = nil
	r.activate()
}

func (r *Recognizer) activate() {
	r.state = Active
	if err := r.haptics.Pulse(); err != nil {
		log.WithError(err).Debugf("%s: haptic pulse failed", r.name)
	}
	if r.pan != nil && !r.panHeld {
		r.panSaved = r.pan.Enabled()
		r.pan.SetEnabled(false)
		r.panHeld = true
	}
	log.Debugf("%s: active at (%.0f, %.0f)", r.name, r.anchor.X, r.anchor.Y)
	if r.OnActivate != nil {
		r.OnActivate(r.anchor)
	}
}
