package game

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// MaxWrong is the number of misses that loses a round, one per snowman part.
const MaxWrong = 7

// Placeholder masks a letter that has not been guessed yet.
const Placeholder = '_'

// Status is the derived state of a round.
type Status int

const (
	StatusActive Status = iota
	StatusWon
	StatusLost
)

func (s Status) String() string {
	switch s {
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return "active"
	}
}

// Terminal reports whether the round has ended.
func (s Status) Terminal() bool {
	return s != StatusActive
}

// Outcome describes an accepted guess.
type Outcome struct {
	Letter     rune
	Hit        bool
	WrongCount int
	Status     Status
}

// Terminal reports whether this guess ended the round.
func (o Outcome) Terminal() bool {
	return o.Status.Terminal()
}

// Picker returns a value in [0, n). n is always positive.
type Picker func(n int) int

type Option func(*Session)

// WithPicker replaces the crypto/rand based word selection.
func WithPicker(p Picker) Option {
	return func(s *Session) {
		if p != nil {
			s.pick = p
		}
	}
}

// WithMaxWrong overrides MaxWrong. Non-positive values are ignored.
func WithMaxWrong(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxWrong = n
		}
	}
}

// Session holds the state of one round and starts new ones from its bank.
// It has no knowledge of rendering or animation. A Session is not safe for
// concurrent use; callers serialise guesses.
type Session struct {
	bank       WordBank
	categories []string
	pick       Picker
	maxWrong   int

	category string
	word     string
	guessed  map[rune]struct{}
	wrong    int
	status   Status
}

// NewSession validates the bank and starts the first round.
func NewSession(bank WordBank, opts ...Option) (*Session, error) {
	if err := bank.Validate(); err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	s := &Session{
		bank:       bank,
		categories: bank.Categories(),
		pick:       cryptoPick,
		maxWrong:   MaxWrong,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.StartRound()
	return s, nil
}

// StartRound draws a category uniformly at random, then a word from it, and
// clears all guesses.
func (s *Session) StartRound() {
	category := s.categories[s.pickIndex(len(s.categories))]
	words := s.bank[category]
	s.begin(category, words[s.pickIndex(len(words))])
}

// Restart replays the current word with a cleared board.
func (s *Session) Restart() {
	s.begin(s.category, s.word)
}

func (s *Session) begin(category, word string) {
	s.category = category
	s.word = word
	s.guessed = make(map[rune]struct{})
	s.wrong = 0
	s.status = StatusActive
}

func (s *Session) pickIndex(n int) int {
	i := s.pick(n)
	if i < 0 || i >= n {
		return 0
	}
	return i
}

// SubmitGuess applies one guess. On error the session is left untouched and
// the returned Outcome only carries the current counters.
func (s *Session) SubmitGuess(input string) (Outcome, error) {
	current := Outcome{WrongCount: s.wrong, Status: s.status}
	if s.status.Terminal() {
		return current, ErrRoundOver
	}
	letter, ok := normalizeGuess(input)
	if !ok {
		return current, ErrInvalidInput
	}
	current.Letter = letter
	if _, seen := s.guessed[letter]; seen {
		return current, ErrDuplicateGuess
	}

	s.guessed[letter] = struct{}{}
	hit := strings.ContainsRune(s.word, letter)
	if !hit && s.wrong < s.maxWrong {
		s.wrong++
	}
	s.status = s.evaluate()

	return Outcome{Letter: letter, Hit: hit, WrongCount: s.wrong, Status: s.status}, nil
}

// normalizeGuess lowercases the trimmed input and accepts exactly one a-z letter.
func normalizeGuess(input string) (rune, bool) {
	runes := []rune(strings.ToLower(strings.TrimSpace(input)))
	if len(runes) != 1 || runes[0] < 'a' || runes[0] > 'z' {
		return 0, false
	}
	return runes[0], true
}

func (s *Session) evaluate() Status {
	solved := lo.EveryBy([]rune(s.word), func(r rune) bool {
		if r == ' ' {
			return true
		}
		_, ok := s.guessed[r]
		return ok
	})
	switch {
	case solved:
		return StatusWon
	case s.wrong >= s.maxWrong:
		return StatusLost
	default:
		return StatusActive
	}
}

// Masked returns the word with unguessed letters replaced by Placeholder.
// Spaces are never masked and the whole word is shown once the round is over.
func (s *Session) Masked() []rune {
	reveal := s.status.Terminal()
	return lo.Map([]rune(s.word), func(r rune, _ int) rune {
		if reveal || r == ' ' {
			return r
		}
		if _, ok := s.guessed[r]; ok {
			return r
		}
		return Placeholder
	})
}

// RenderWord joins Masked with single spaces, e.g. "a _ _ l e".
func (s *Session) RenderWord() string {
	return strings.Join(lo.Map(s.Masked(), func(r rune, _ int) string {
		return string(r)
	}), " ")
}

func (s *Session) Category() string { return s.category }
func (s *Session) Word() string     { return s.word }
func (s *Session) WrongCount() int  { return s.wrong }
func (s *Session) MaxWrong() int    { return s.maxWrong }
func (s *Session) Status() Status   { return s.status }

// Guessed returns the guessed letters in alphabetical order.
func (s *Session) Guessed() []string {
	letters := lo.Map(lo.Keys(s.guessed), func(r rune, _ int) string {
		return string(r)
	})
	slices.Sort(letters)
	return letters
}

// Snapshot is the read-only view a renderer consumes once per redraw.
type Snapshot struct {
	Category   string
	Masked     string
	Guessed    []string
	WrongCount int
	MaxWrong   int
	Status     Status
	Word       string // empty while the round is active
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Category:   s.category,
		Masked:     s.RenderWord(),
		Guessed:    s.Guessed(),
		WrongCount: s.wrong,
		MaxWrong:   s.maxWrong,
		Status:     s.status,
	}
	if s.status.Terminal() {
		snap.Word = s.word
	}
	return snap
}

// State is the serialisable form of a round.
type State struct {
	Category   string   `json:"category"`
	Word       string   `json:"word"`
	Guessed    []string `json:"guessed"`
	WrongCount int      `json:"wrongCount"`
}

func (s *Session) State() State {
	return State{
		Category:   s.category,
		Word:       s.word,
		Guessed:    s.Guessed(),
		WrongCount: s.wrong,
	}
}

// Restore replaces the current round with st after checking it against the
// bank and the round invariants. Status is recomputed, never trusted.
func (s *Session) Restore(st State) error {
	words, ok := s.bank[st.Category]
	if !ok || !lo.Contains(words, st.Word) {
		return fmt.Errorf("word %q not in category %q: %w", st.Word, st.Category, ErrInvalidState)
	}

	guessed := make(map[rune]struct{}, len(st.Guessed))
	wrong := 0
	for _, g := range st.Guessed {
		letter, ok := normalizeGuess(g)
		if !ok {
			return fmt.Errorf("guessed letter %q: %w", g, ErrInvalidState)
		}
		if _, dup := guessed[letter]; dup {
			return fmt.Errorf("guessed letter %q repeated: %w", g, ErrInvalidState)
		}
		guessed[letter] = struct{}{}
		if !strings.ContainsRune(st.Word, letter) {
			wrong++
		}
	}
	if wrong != st.WrongCount || wrong > s.maxWrong {
		return fmt.Errorf("wrong count %d does not match guesses (%d): %w", st.WrongCount, wrong, ErrInvalidState)
	}

	s.category = st.Category
	s.word = st.Word
	s.guessed = guessed
	s.wrong = wrong
	s.status = s.evaluate()
	return nil
}

func cryptoPick(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
