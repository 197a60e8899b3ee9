// Package melt animates the snowman losing one part per wrong guess.
//
// Parts are indexed in build order (base first, hat last) and melt in
// reverse: the n-th wrong guess melts part len-n. At most one part animates at
// a time; each animation runs for StepBudget ticks plus a final snap tick.
// The Animator never schedules itself. A Scheduler, or any other periodic
// driver, calls Tick while IsAnimating reports true.
package melt

import (
	"math"
	"sync"
	"time"
)

const (
	DefaultParts    = 7
	StepBudget      = 10
	ScaleStep       = 0.1
	OffsetStep      = 6.0
	DefaultInterval = 40 * time.Millisecond
)

// Part is the visual state of one snowman part. Scale 1 is fully built, 0 is
// gone; Offset is the downward slide while melting.
type Part struct {
	Scale  float64 `json:"scale"`
	Offset float64 `json:"offset"`
}

var fullPart = Part{Scale: 1}

type Phase int

const (
	PhaseFull Phase = iota
	PhaseDegrading
	PhaseGone
)

func (p Phase) String() string {
	switch p {
	case PhaseDegrading:
		return "degrading"
	case PhaseGone:
		return "gone"
	default:
		return "full"
	}
}

// Frame is a copy of the animator state for one redraw.
type Frame struct {
	Parts     []Part `json:"parts"`
	Active    int    `json:"active"`
	Step      int    `json:"step"`
	Animating bool   `json:"animating"`
}

// Animator owns the part states. All methods are safe for concurrent use;
// Tick, OnWrongGuess, CatchUp and Reset are mutually exclusive.
type Animator struct {
	mu     sync.Mutex
	parts  []Part
	gone   []bool
	active int // -1 when idle
	step   int
}

// New returns an animator with n full parts. n <= 0 selects DefaultParts.
func New(n int) *Animator {
	if n <= 0 {
		n = DefaultParts
	}
	a := &Animator{
		parts: make([]Part, n),
		gone:  make([]bool, n),
	}
	a.resetLocked()
	return a
}

func (a *Animator) Len() int { return len(a.parts) }

// OnWrongGuess starts melting part Len()-wrongCount. It is ignored when that
// index is out of range, when the part is already gone, or while another
// part is still animating. It reports whether an animation started.
func (a *Animator) OnWrongGuess(wrongCount int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	target := len(a.parts) - wrongCount
	if target < 0 || target >= len(a.parts) {
		return false
	}
	if a.active >= 0 || a.gone[target] {
		return false
	}
	a.startLocked(target)
	return true
}

// CatchUp starts the next part that should already be gone for wrongCount
// but is still standing, highest index first. Wrong guesses that arrive while
// a part is melting are dropped by OnWrongGuess; a driver calls CatchUp once
// the animator goes idle so the snowman ends up matching the count.
func (a *Animator) CatchUp(wrongCount int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.active >= 0 {
		return false
	}
	lowest := max(len(a.parts)-wrongCount, 0)
	for i := len(a.parts) - 1; i >= lowest; i-- {
		if !a.gone[i] {
			a.startLocked(i)
			return true
		}
	}
	return false
}

func (a *Animator) startLocked(i int) {
	a.active = i
	a.step = 0
}

// Tick advances the active part by one step and reports whether a redraw is
// needed. The tick after the last step snaps the part to {0, 0} and leaves
// the animator idle. Ticks while idle do nothing.
func (a *Animator) Tick() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.active < 0 {
		return false
	}
	p := &a.parts[a.active]
	if a.step < StepBudget {
		a.step++
		p.Scale = math.Max(0, 1-float64(a.step)*ScaleStep)
		p.Offset = float64(a.step) * OffsetStep
		return true
	}

	*p = Part{}
	a.gone[a.active] = true
	a.active = -1
	a.step = 0
	return true
}

// Reset abandons any animation in flight and rebuilds every part.
func (a *Animator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resetLocked()
}

func (a *Animator) resetLocked() {
	for i := range a.parts {
		a.parts[i] = fullPart
		a.gone[i] = false
	}
	a.active = -1
	a.step = 0
}

// Restore rebuilds the snowman and removes, without animation, the parts a
// round with wrongCount misses has already lost.
func (a *Animator) Restore(wrongCount int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.resetLocked()
	for i := max(len(a.parts)-wrongCount, 0); i < len(a.parts); i++ {
		a.parts[i] = Part{}
		a.gone[i] = true
	}
}

func (a *Animator) IsAnimating() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active >= 0
}

// Active returns the index of the part currently melting.
func (a *Animator) Active() (int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active, a.active >= 0
}

func (a *Animator) Parts() []Part {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Part, len(a.parts))
	copy(out, a.parts)
	return out
}

func (a *Animator) Phases() []Phase {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Phase, len(a.parts))
	for i := range a.parts {
		switch {
		case i == a.active:
			out[i] = PhaseDegrading
		case a.gone[i]:
			out[i] = PhaseGone
		default:
			out[i] = PhaseFull
		}
	}
	return out
}

func (a *Animator) Frame() Frame {
	a.mu.Lock()
	defer a.mu.Unlock()
	parts := make([]Part, len(a.parts))
	copy(parts, a.parts)
	return Frame{
		Parts:     parts,
		Active:    a.active,
		Step:      a.step,
		Animating: a.active >= 0,
	}
}
