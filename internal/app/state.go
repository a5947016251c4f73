// Package app provides the chart session, its state and events.
package app

import (
	"sync"

	"candlescope/internal/model"
	"candlescope/internal/tools"
)

// State holds the user-visible chart selection: instrument, timeframe, tool.
type State struct {
	mu sync.RWMutex

	Symbol   string
	Interval model.Interval
	Tool     tools.Tool
	Cursor   bool

	// Legend is the last legend line shown above the plot.
	Legend string

	// FeedStatus describes the data connection ("live", "reconnecting", ...).
	FeedStatus string

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventSeriesLoaded EventType = iota
	EventBarUpdated
	EventToolChanged
	EventCursorToggled
	EventLegendChanged
	EventMeasurementCommitted
	EventFeedStatus
	EventRedraw
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state.
func NewState(symbol string, interval model.Interval) *State {
	return &State{
		Symbol:    symbol,
		Interval:  interval,
		Tool:      tools.Pan,
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Instrument returns the current symbol and interval.
func (s *State) Instrument() (string, model.Interval) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Symbol, s.Interval
}

func (s *State) setInstrument(symbol string, interval model.Interval) {
	s.mu.Lock()
	s.Symbol, s.Interval = symbol, interval
	s.mu.Unlock()
}

// SetTool records the active tool and emits EventToolChanged.
func (s *State) SetTool(t tools.Tool) {
	s.mu.Lock()
	s.Tool = t
	s.mu.Unlock()
	s.Emit(EventToolChanged, t)
}

// SetCursor records the cursor toggle and emits EventCursorToggled.
func (s *State) SetCursor(on bool) {
	s.mu.Lock()
	s.Cursor = on
	s.mu.Unlock()
	s.Emit(EventCursorToggled, on)
}

// SetLegend stores the legend text and emits EventLegendChanged when it changed.
func (s *State) SetLegend(text string) {
	s.mu.Lock()
	changed := s.Legend != text
	s.Legend = text
	s.mu.Unlock()
	if changed {
		s.Emit(EventLegendChanged, text)
	}
}

// SetFeedStatus stores the connection status and emits EventFeedStatus.
func (s *State) SetFeedStatus(status string) {
	s.mu.Lock()
	s.FeedStatus = status
	s.mu.Unlock()
	s.Emit(EventFeedStatus, status)
}

// Snapshot returns a copy of the plain fields.
func (s *State) Snapshot() (tool tools.Tool, cursor bool, legend, status string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Tool, s.Cursor, s.Legend, s.FeedStatus
}
