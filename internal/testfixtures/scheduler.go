package testfixtures

import (
	"sync"
	"time"

	"github.com/jrsteele09/go-calendar-client/sessions"
)

// Scheduler records scheduled callbacks instead of running them, so tests can
// fire expiry timers on demand.
type Scheduler struct {
	mu     sync.Mutex
	timers []*Timer
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// AfterFunc matches sessions.AfterFunc.
func (s *Scheduler) AfterFunc(d time.Duration, fn func()) sessions.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &Timer{Delay: d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// All returns every timer ever scheduled, oldest first.
func (s *Scheduler) All() []*Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Timer(nil), s.timers...)
}

// Pending returns the timers that were neither stopped nor fired.
func (s *Scheduler) Pending() []*Timer {
	var pending []*Timer
	for _, t := range s.All() {
		if t.Pending() {
			pending = append(pending, t)
		}
	}
	return pending
}

// Last returns the most recently scheduled timer, or nil.
func (s *Scheduler) Last() *Timer {
	all := s.All()
	if len(all) == 0 {
		return nil
	}
	return all[len(all)-1]
}

// Timer is a fake sessions.Timer.
type Timer struct {
	Delay time.Duration

	mu      sync.Mutex
	fn      func()
	stopped bool
	fired   bool
}

func (t *Timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (t *Timer) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.stopped && !t.fired
}

// Fire runs the callback even if the timer was stopped, mimicking a
// time.AfterFunc callback that was already running when Stop was called.
func (t *Timer) Fire() {
	t.mu.Lock()
	t.fired = true
	fn := t.fn
	t.mu.Unlock()
	fn()
}
