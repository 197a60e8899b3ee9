package game

import (
	"errors"
	"slices"
	"testing"
)

func firstPick(int) int { return 0 }

func sessionWithWord(t *testing.T, word string) *Session {
	t.Helper()
	s, err := NewSession(WordBank{"Test": {word}}, WithPicker(firstPick))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func guessAll(t *testing.T, s *Session, letters ...string) {
	t.Helper()
	for _, l := range letters {
		if _, err := s.SubmitGuess(l); err != nil {
			t.Fatalf("SubmitGuess(%q): %v", l, err)
		}
	}
}

func TestNewSession_EmptyBank(t *testing.T) {
	if _, err := NewSession(WordBank{}); !errors.Is(err, ErrEmptyBank) {
		t.Errorf("NewSession(empty) error = %v, want ErrEmptyBank", err)
	}
}

func TestStartRound_UsesPicker(t *testing.T) {
	bank := WordBank{
		"Animals": {"walrus", "toucan"},
		"Sports":  {"golf", "judo", "rugby"},
	}
	calls := 0
	pick := func(n int) int {
		calls++
		return n - 1
	}
	s, err := NewSession(bank, WithPicker(pick))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if s.Category() != "Sports" || s.Word() != "rugby" {
		t.Errorf("got %s/%s, want Sports/rugby", s.Category(), s.Word())
	}
	if calls != 2 {
		t.Errorf("picker called %d times, want 2", calls)
	}
}

func TestStartRound_OutOfRangePickFallsBack(t *testing.T) {
	s, err := NewSession(WordBank{"A": {"one", "two"}}, WithPicker(func(n int) int { return n + 5 }))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if s.Word() != "one" {
		t.Errorf("Word() = %q, want fallback to first word", s.Word())
	}
}

func TestStartRound_DefaultPickerStaysInBank(t *testing.T) {
	bank := DefaultWordBank()
	s, err := NewSession(bank)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	for i := 0; i < 50; i++ {
		s.StartRound()
		words, ok := bank[s.Category()]
		if !ok || !slices.Contains(words, s.Word()) {
			t.Fatalf("round drew %s/%s which is not in the bank", s.Category(), s.Word())
		}
	}
}

func TestStartRound_ClearsState(t *testing.T) {
	s := sessionWithWord(t, "cat")
	guessAll(t, s, "x", "c")
	s.StartRound()
	if s.WrongCount() != 0 || len(s.Guessed()) != 0 || s.Status() != StatusActive {
		t.Errorf("after StartRound: wrong=%d guessed=%v status=%v", s.WrongCount(), s.Guessed(), s.Status())
	}
}

func TestSubmitGuess_ScenarioA_Win(t *testing.T) {
	s := sessionWithWord(t, "apple")
	var last Outcome
	for _, l := range []string{"a", "p", "l", "e"} {
		out, err := s.SubmitGuess(l)
		if err != nil {
			t.Fatalf("SubmitGuess(%q): %v", l, err)
		}
		if !out.Hit {
			t.Errorf("SubmitGuess(%q) should be a hit", l)
		}
		last = out
	}
	if !last.Terminal() || last.Status != StatusWon {
		t.Errorf("last outcome = %+v, want terminal win", last)
	}
	if got := s.RenderWord(); got != "a p p l e" {
		t.Errorf("RenderWord() = %q, want %q", got, "a p p l e")
	}
	if s.Status() != StatusWon || s.WrongCount() != 0 {
		t.Errorf("status=%v wrong=%d, want won/0", s.Status(), s.WrongCount())
	}
}

func TestSubmitGuess_ScenarioB_Loss(t *testing.T) {
	s := sessionWithWord(t, "cat")
	misses := []string{"x", "y", "z", "q", "w", "e", "r"}
	for i, l := range misses {
		out, err := s.SubmitGuess(l)
		if err != nil {
			t.Fatalf("SubmitGuess(%q): %v", l, err)
		}
		if out.Hit || out.WrongCount != i+1 {
			t.Errorf("SubmitGuess(%q) = %+v, want miss with wrong=%d", l, out, i+1)
		}
		if i < len(misses)-1 && out.Terminal() {
			t.Fatalf("round ended early after %q", l)
		}
	}
	if s.Status() != StatusLost {
		t.Errorf("Status() = %v, want lost", s.Status())
	}
	if got := s.RenderWord(); got != "c a t" {
		t.Errorf("RenderWord() = %q, want full reveal", got)
	}
	if s.WrongCount() != s.MaxWrong() {
		t.Errorf("WrongCount() = %d, want %d", s.WrongCount(), s.MaxWrong())
	}
}

func TestSubmitGuess_ScenarioC_Duplicate(t *testing.T) {
	s := sessionWithWord(t, "banana")
	if _, err := s.SubmitGuess("a"); err != nil {
		t.Fatalf("first guess: %v", err)
	}
	before := s.State()
	if _, err := s.SubmitGuess("A"); !errors.Is(err, ErrDuplicateGuess) {
		t.Errorf("second guess error = %v, want ErrDuplicateGuess", err)
	}
	after := s.State()
	if !slices.Equal(before.Guessed, after.Guessed) || before.WrongCount != after.WrongCount {
		t.Errorf("duplicate guess changed state: %+v -> %+v", before, after)
	}

	if _, err := s.SubmitGuess("z"); err != nil {
		t.Fatalf("miss: %v", err)
	}
	if _, err := s.SubmitGuess("z"); !errors.Is(err, ErrDuplicateGuess) {
		t.Errorf("repeated miss error = %v, want ErrDuplicateGuess", err)
	}
	if s.WrongCount() != 1 {
		t.Errorf("repeated miss counted twice: wrong=%d", s.WrongCount())
	}
}

func TestSubmitGuess_ScenarioD_RoundOver(t *testing.T) {
	s := sessionWithWord(t, "cat")
	guessAll(t, s, "x", "y", "z", "q", "w", "e", "r")
	before := s.State()
	out, err := s.SubmitGuess("m")
	if !errors.Is(err, ErrRoundOver) {
		t.Fatalf("error = %v, want ErrRoundOver", err)
	}
	if out.Status != StatusLost {
		t.Errorf("outcome status = %v, want lost", out.Status)
	}
	if after := s.State(); !slices.Equal(before.Guessed, after.Guessed) || after.WrongCount != before.WrongCount {
		t.Errorf("guess after loss changed state")
	}

	won := sessionWithWord(t, "ox")
	guessAll(t, won, "o", "x")
	if _, err := won.SubmitGuess("a"); !errors.Is(err, ErrRoundOver) {
		t.Errorf("guess after win error = %v, want ErrRoundOver", err)
	}
}

func TestSubmitGuess_InvalidInput(t *testing.T) {
	s := sessionWithWord(t, "apple")
	for _, input := range []string{"", " ", "ab", "1", "?", "é", "  ", "a b"} {
		if _, err := s.SubmitGuess(input); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("SubmitGuess(%q) error = %v, want ErrInvalidInput", input, err)
		}
	}
	if len(s.Guessed()) != 0 || s.WrongCount() != 0 {
		t.Errorf("invalid input changed state: guessed=%v wrong=%d", s.Guessed(), s.WrongCount())
	}
}

func TestSubmitGuess_Normalizes(t *testing.T) {
	s := sessionWithWord(t, "apple")
	out, err := s.SubmitGuess(" P ")
	if err != nil {
		t.Fatalf("SubmitGuess: %v", err)
	}
	if out.Letter != 'p' || !out.Hit {
		t.Errorf("outcome = %+v, want hit on 'p'", out)
	}
}

func TestWrongCountNeverExceedsMax(t *testing.T) {
	s := sessionWithWord(t, "a")
	for _, l := range "bcdefghijklmnopqrstuvwxyz" {
		_, _ = s.SubmitGuess(string(l))
		if s.WrongCount() > s.MaxWrong() {
			t.Fatalf("WrongCount() = %d exceeds %d", s.WrongCount(), s.MaxWrong())
		}
	}
	if s.Status() != StatusLost {
		t.Errorf("Status() = %v, want lost", s.Status())
	}
}

func TestWithMaxWrong(t *testing.T) {
	s, err := NewSession(WordBank{"T": {"cat"}}, WithPicker(firstPick), WithMaxWrong(2))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	guessAll(t, s, "x")
	out, err := s.SubmitGuess("y")
	if err != nil {
		t.Fatalf("SubmitGuess: %v", err)
	}
	if !out.Terminal() || s.Status() != StatusLost {
		t.Errorf("want loss after 2 misses, got %+v", out)
	}
}

func TestRenderWord(t *testing.T) {
	tests := []struct {
		word    string
		guesses []string
		want    string
	}{
		{"apple", nil, "_ _ _ _ _"},
		{"apple", []string{"p"}, "_ p p _ _"},
		{"new zealand", []string{"a"}, "_ _ _   _ _ a _ a _ _"},
		{"table tennis", []string{"t", "e"}, "t _ _ _ e   t e _ _ _ _"},
	}
	for _, tt := range tests {
		s := sessionWithWord(t, tt.word)
		guessAll(t, s, tt.guesses...)
		if got := s.RenderWord(); got != tt.want {
			t.Errorf("RenderWord(%q, %v) = %q, want %q", tt.word, tt.guesses, got, tt.want)
		}
		if again := s.RenderWord(); again != s.RenderWord() {
			t.Errorf("RenderWord not idempotent for %q", tt.word)
		}
	}
}

func TestMultiWordEntryIsWinnable(t *testing.T) {
	s := sessionWithWord(t, "new zealand")
	guessAll(t, s, "n", "e", "w", "z", "a", "l")
	if _, err := s.SubmitGuess("d"); err != nil {
		t.Fatalf("SubmitGuess: %v", err)
	}
	if s.Status() != StatusWon {
		t.Errorf("Status() = %v, want won", s.Status())
	}
}

func TestGuessedSorted(t *testing.T) {
	s := sessionWithWord(t, "zebra")
	guessAll(t, s, "z", "q", "a", "m")
	want := []string{"a", "m", "q", "z"}
	if got := s.Guessed(); !slices.Equal(got, want) {
		t.Errorf("Guessed() = %v, want %v", got, want)
	}
}

func TestSnapshot_RevealsWordOnlyWhenOver(t *testing.T) {
	s := sessionWithWord(t, "ox")
	if snap := s.Snapshot(); snap.Word != "" || snap.Masked != "_ _" {
		t.Errorf("active snapshot = %+v", snap)
	}
	guessAll(t, s, "o", "x")
	snap := s.Snapshot()
	if snap.Word != "ox" || snap.Status != StatusWon || snap.Category != "Test" {
		t.Errorf("terminal snapshot = %+v", snap)
	}
}

func TestRestart_KeepsWord(t *testing.T) {
	s := sessionWithWord(t, "cat")
	guessAll(t, s, "c", "x")
	s.Restart()
	if s.Word() != "cat" || s.WrongCount() != 0 || len(s.Guessed()) != 0 {
		t.Errorf("Restart left word=%q wrong=%d guessed=%v", s.Word(), s.WrongCount(), s.Guessed())
	}
}

func TestStateRestore(t *testing.T) {
	bank := WordBank{"Test": {"cat", "dog"}}
	s, err := NewSession(bank, WithPicker(firstPick))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := s.Restore(State{Category: "Test", Word: "dog", Guessed: []string{"d", "x"}, WrongCount: 1}); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if s.Word() != "dog" || s.WrongCount() != 1 || s.RenderWord() != "d _ _" {
		t.Errorf("restored word=%q wrong=%d render=%q", s.Word(), s.WrongCount(), s.RenderWord())
	}

	bad := []State{
		{Category: "Nope", Word: "dog"},
		{Category: "Test", Word: "cow"},
		{Category: "Test", Word: "dog", Guessed: []string{"x"}, WrongCount: 0},
		{Category: "Test", Word: "dog", Guessed: []string{"d", "d"}},
		{Category: "Test", Word: "dog", Guessed: []string{"12"}},
	}
	for _, st := range bad {
		if err := s.Restore(st); !errors.Is(err, ErrInvalidState) {
			t.Errorf("Restore(%+v) error = %v, want ErrInvalidState", st, err)
		}
	}
	if s.Word() != "dog" || s.WrongCount() != 1 {
		t.Errorf("failed Restore mutated the session")
	}
}

func TestRestore_RecomputesStatus(t *testing.T) {
	s := sessionWithWord(t, "cat")
	st := State{Category: "Test", Word: "cat", Guessed: []string{"b", "d", "f", "g", "h", "j", "k"}, WrongCount: 7}
	if err := s.Restore(st); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if s.Status() != StatusLost {
		t.Errorf("Status() = %v, want lost", s.Status())
	}
}

func TestStatusString(t *testing.T) {
	for status, want := range map[Status]string{StatusActive: "active", StatusWon: "won", StatusLost: "lost"} {
		if got := status.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", status, got, want)
		}
	}
}
