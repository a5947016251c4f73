package gesture

import (
	"sort"
	"sync"
	"time"
)

// Timer is a cancelable deferred callback.
type Timer interface {
	// Stop cancels the timer. It returns false if the timer already fired
	// or was stopped.
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules on the wall clock. Callbacks are handed to
// Dispatch so they run on the same thread as pointer events.
type RealScheduler struct {
	Dispatch func(func())
}

// AfterFunc implements Scheduler.
func (s RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	dispatch := s.Dispatch
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return time.AfterFunc(d, func() { dispatch(f) })
}

// ManualScheduler is a virtual clock for tests. Timers fire only from
// Advance, in deadline order, through Dispatch when it is set.
type ManualScheduler struct {
	Dispatch func(func())

	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	s        *ManualScheduler
	deadline time.Duration
	seq      int
	f        func()
	done     bool
}

// NewManualScheduler returns a clock at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc implements Scheduler.
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{s: s, deadline: s.now + d, seq: s.seq, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

// Now returns the virtual time.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.done {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d and runs every timer that becomes
// due, returning how many fired.
func (s *ManualScheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	fired := 0
	for {
		s.mu.Lock()
		due := s.nextDue(target)
		if due == nil {
			s.now = target
			s.compact()
			s.mu.Unlock()
			return fired
		}
		due.done = true
		s.now = due.deadline
		s.mu.Unlock()

		if s.Dispatch != nil {
			s.Dispatch(due.f)
		} else {
			due.f()
		}
		fired++
	}
}

func (s *ManualScheduler) nextDue(target time.Duration) *manualTimer {
	var live []*manualTimer
	for _, t := range s.timers {
		if !t.done && t.deadline <= target {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		return nil
	}
	sort.Slice(live, func(i, j int) bool {
		if live[i].deadline == live[j].deadline {
			return live[i].seq < live[j].seq
		}
		return live[i].deadline < live[j].deadline
	})
	return live[0]
}

func (s *ManualScheduler) compact() {
	kept := s.timers[:0]
	for _, t := range s.timers {
		if !t.done {
			kept = append(kept, t)
		}
	}
	s.timers = kept
}
