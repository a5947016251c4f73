package gesture

// Haptics produces a short vibration pulse.
type Haptics interface {
	Pulse() error
}

// HapticsFunc adapts a function to Haptics.
type HapticsFunc func() error

// Pulse implements Haptics.
func (f HapticsFunc) Pulse() error { return f() }

// NoHaptics does nothing; used on devices without a vibrator.
type NoHaptics struct{}

// Pulse implements Haptics.
func (NoHaptics) Pulse() error { return nil }

// PanSuspender is the pan/zoom controller as seen by a gesture: its enabled
// flag is saved and cleared for the duration of an active gesture.
type PanSuspender interface {
	Enabled() bool
	SetEnabled(enabled bool)
}
