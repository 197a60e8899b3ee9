package melt

import (
	"math"
	"slices"
	"testing"
)

const epsilon = 1e-9

// runToIdle ticks until the animator stops and returns the number of ticks.
func runToIdle(t *testing.T, a *Animator) int {
	t.Helper()
	ticks := 0
	for a.IsAnimating() {
		a.Tick()
		ticks++
		if ticks > 100 {
			t.Fatal("animation did not terminate")
		}
	}
	return ticks
}

func TestNew(t *testing.T) {
	a := New(0)
	if a.Len() != DefaultParts {
		t.Fatalf("Len() = %d, want %d", a.Len(), DefaultParts)
	}
	for i, p := range a.Parts() {
		if p.Scale != 1 || p.Offset != 0 {
			t.Errorf("part %d = %+v, want full", i, p)
		}
	}
	if a.IsAnimating() {
		t.Error("new animator should be idle")
	}
	if _, ok := a.Active(); ok {
		t.Error("Active() should report no part")
	}
}

func TestTick_MeltsActivePart(t *testing.T) {
	a := New(DefaultParts)
	if !a.OnWrongGuess(1) {
		t.Fatal("OnWrongGuess(1) did not start")
	}
	if idx, _ := a.Active(); idx != 6 {
		t.Fatalf("Active() = %d, want 6", idx)
	}

	for step := 1; step <= StepBudget; step++ {
		if !a.Tick() {
			t.Fatalf("tick %d should request a redraw", step)
		}
		p := a.Parts()[6]
		wantScale := 1 - float64(step)*ScaleStep
		if math.Abs(p.Scale-wantScale) > epsilon || math.Abs(p.Offset-float64(step)*OffsetStep) > epsilon {
			t.Errorf("after tick %d part = %+v, want scale %.1f offset %.0f", step, p, wantScale, float64(step)*OffsetStep)
		}
		if !a.IsAnimating() {
			t.Fatalf("animation ended early at tick %d", step)
		}
	}

	if !a.Tick() {
		t.Error("final snap tick should request a redraw")
	}
	if p := a.Parts()[6]; p != (Part{}) {
		t.Errorf("final part = %+v, want zero", p)
	}
	if a.IsAnimating() {
		t.Error("animator should be idle after snap")
	}
	if a.Tick() {
		t.Error("idle tick should not request a redraw")
	}
}

func TestAnimationTerminatesWithinBudget(t *testing.T) {
	a := New(DefaultParts)
	a.OnWrongGuess(3)
	if ticks := runToIdle(t, a); ticks != StepBudget+1 {
		t.Errorf("animation took %d ticks, want %d", ticks, StepBudget+1)
	}
}

func TestOnWrongGuess_Guards(t *testing.T) {
	a := New(DefaultParts)
	for _, wrong := range []int{0, -1, 8, 100} {
		if a.OnWrongGuess(wrong) {
			t.Errorf("OnWrongGuess(%d) should be ignored", wrong)
		}
	}

	a.OnWrongGuess(1)
	a.Tick()
	if a.OnWrongGuess(2) {
		t.Error("OnWrongGuess while animating should be ignored")
	}
	if idx, _ := a.Active(); idx != 6 {
		t.Errorf("Active() = %d, want 6", idx)
	}

	runToIdle(t, a)
	if a.OnWrongGuess(1) {
		t.Error("a gone part must not melt twice")
	}
}

func TestDegradeOrder(t *testing.T) {
	a := New(DefaultParts)
	var order []int
	for wrong := 1; wrong <= DefaultParts; wrong++ {
		if !a.OnWrongGuess(wrong) {
			t.Fatalf("OnWrongGuess(%d) did not start", wrong)
		}
		idx, _ := a.Active()
		order = append(order, idx)
		runToIdle(t, a)

		target := DefaultParts - wrong
		for i, p := range a.Parts() {
			switch {
			case i >= target && p.Scale != 0:
				t.Errorf("wrong=%d: part %d scale %.2f, want 0", wrong, i, p.Scale)
			case i < target && p.Scale != 1:
				t.Errorf("wrong=%d: part %d scale %.2f, want 1", wrong, i, p.Scale)
			}
		}
	}
	if want := []int{6, 5, 4, 3, 2, 1, 0}; !slices.Equal(order, want) {
		t.Errorf("melt order = %v, want %v", order, want)
	}
}

func TestReset_CancelsAnimation(t *testing.T) {
	a := New(DefaultParts)
	a.OnWrongGuess(1)
	a.Tick()
	a.Tick()
	a.Reset()

	if a.IsAnimating() {
		t.Error("Reset should stop the animation")
	}
	if a.Tick() {
		t.Error("tick after Reset should be a no-op")
	}
	for i, p := range a.Parts() {
		if p != fullPart {
			t.Errorf("part %d = %+v after Reset, want full", i, p)
		}
	}
	if !a.OnWrongGuess(1) {
		t.Error("part should be able to melt again after Reset")
	}
}

func TestCatchUp(t *testing.T) {
	a := New(DefaultParts)
	a.OnWrongGuess(1)
	a.OnWrongGuess(2)
	a.OnWrongGuess(3)
	if a.CatchUp(3) {
		t.Error("CatchUp must not interrupt an animation")
	}
	runToIdle(t, a)

	var order []int
	for a.CatchUp(3) {
		idx, _ := a.Active()
		order = append(order, idx)
		runToIdle(t, a)
	}
	if want := []int{5, 4}; !slices.Equal(order, want) {
		t.Errorf("catch-up order = %v, want %v", order, want)
	}
	phases := a.Phases()
	want := []Phase{PhaseFull, PhaseFull, PhaseFull, PhaseFull, PhaseGone, PhaseGone, PhaseGone}
	if !slices.Equal(phases, want) {
		t.Errorf("Phases() = %v, want %v", phases, want)
	}
}

func TestRestore(t *testing.T) {
	a := New(DefaultParts)
	a.OnWrongGuess(1)
	a.Restore(3)
	if a.IsAnimating() {
		t.Error("Restore should leave the animator idle")
	}
	for i, p := range a.Parts() {
		if i >= 4 && p != (Part{}) {
			t.Errorf("part %d = %+v, want gone", i, p)
		}
		if i < 4 && p != fullPart {
			t.Errorf("part %d = %+v, want full", i, p)
		}
	}
	if !a.OnWrongGuess(4) {
		t.Error("next wrong guess should melt part 3")
	}

	a.Restore(99)
	for i, ph := range a.Phases() {
		if ph != PhaseGone {
			t.Errorf("part %d phase = %v, want gone", i, ph)
		}
	}
}

func TestFrame(t *testing.T) {
	a := New(DefaultParts)
	a.OnWrongGuess(2)
	a.Tick()
	f := a.Frame()
	if !f.Animating || f.Active != 5 || f.Step != 1 || len(f.Parts) != DefaultParts {
		t.Errorf("Frame() = %+v", f)
	}
	f.Parts[0].Scale = 0
	if a.Parts()[0].Scale != 1 {
		t.Error("Frame must return a copy of the parts")
	}
}

func TestPhaseString(t *testing.T) {
	for ph, want := range map[Phase]string{PhaseFull: "full", PhaseDegrading: "degrading", PhaseGone: "gone"} {
		if got := ph.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", ph, got, want)
		}
	}
}
