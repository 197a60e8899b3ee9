package melt

import (
	"sync"
	"time"
)

// Scheduler drives an Animator from a time.Ticker on its own goroutine. The
// loop only exists while there is something to animate: Kick starts it and it
// stops itself once the animator is idle and the idle hook has nothing more.
type Scheduler struct {
	anim     *Animator
	interval time.Duration
	onFrame  func(Frame)
	onIdle   func() bool

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

type SchedulerOption func(*Scheduler)

// WithFrameHook is called after every tick that changed the parts. It runs on
// the scheduler goroutine and must not block.
func WithFrameHook(fn func(Frame)) SchedulerOption {
	return func(s *Scheduler) { s.onFrame = fn }
}

// WithIdleHook is called when the active part finishes. Returning true means
// another animation was started and the loop keeps ticking.
func WithIdleHook(fn func() bool) SchedulerOption {
	return func(s *Scheduler) { s.onIdle = fn }
}

// NewScheduler creates a stopped scheduler. interval <= 0 selects DefaultInterval.
func NewScheduler(anim *Animator, interval time.Duration, opts ...SchedulerOption) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &Scheduler{anim: anim, interval: interval}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Kick starts the tick loop if the animator is animating and no loop runs.
func (s *Scheduler) Kick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil || !s.anim.IsAnimating() {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(s.stop, s.done)
}

// Cancel stops the loop and waits for it to exit. After Cancel returns no
// further tick from the old loop can reach the animator.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Running reports whether a tick loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

func (s *Scheduler) loop(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		if s.anim.Tick() && s.onFrame != nil {
			s.onFrame(s.anim.Frame())
		}
		if s.anim.IsAnimating() {
			continue
		}
		if s.onIdle != nil && s.onIdle() {
			continue
		}

		// A guess may have started a new part after the check above; Kick
		// holds mu, so deciding under mu cannot lose that animation.
		s.mu.Lock()
		if s.anim.IsAnimating() {
			s.mu.Unlock()
			continue
		}
		if s.stop == stop {
			s.stop, s.done = nil, nil
		}
		s.mu.Unlock()
		return
	}
}
