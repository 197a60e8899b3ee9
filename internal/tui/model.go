// Package tui is the terminal front end: a Bubble Tea program that plays
// rounds from a game.Session and melts a text-art snowman on tea.Tick.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"snowmelt/internal/game"
	"snowmelt/internal/melt"
)

// tickMsg carries the generation it was scheduled in. Starting a round bumps
// the generation, so ticks queued for the old round are dropped.
type tickMsg struct{ gen int }

type keyMap struct {
	Submit  key.Binding
	Clear   key.Binding
	NewGame key.Binding
	Retry   key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "guess")),
		Clear:   key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "clear")),
		NewGame: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new game")),
		Retry:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "retry word")),
		Quit:    key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NewGame, k.Retry, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Clear}}
}

// Model is the Bubble Tea model. Session and animator are only touched from
// Update, so no locking beyond the animator's own is needed.
type Model struct {
	session  *game.Session
	anim     *melt.Animator
	interval time.Duration

	gen      int
	ticking  bool
	staged   string
	feedback string

	keys   keyMap
	help   help.Model
	styles styles
}

// New returns a model for sess. interval <= 0 selects melt.DefaultInterval.
func New(sess *game.Session, interval time.Duration) Model {
	if interval <= 0 {
		interval = melt.DefaultInterval
	}
	return Model{
		session:  sess,
		anim:     melt.New(sess.MaxWrong()),
		interval: interval,
		keys:     defaultKeys(),
		help:     help.New(),
		styles:   defaultStyles(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("Snowmelt")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		return m.onTick(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.NewGame):
			return m.newRound(false), nil
		case key.Matches(msg, m.keys.Retry):
			return m.newRound(true), nil
		case key.Matches(msg, m.keys.Submit):
			return m.submit()
		case key.Matches(msg, m.keys.Clear):
			m.staged = ""
			return m, nil
		case msg.Type == tea.KeyRunes && len(msg.Runes) == 1:
			m.staged = string(msg.Runes)
			return m, nil
		}
	}
	return m, nil
}

// newRound abandons any melt in flight and starts over with a full snowman.
func (m Model) newRound(retry bool) Model {
	m.gen++
	m.ticking = false
	m.anim.Reset()
	if retry {
		m.session.Restart()
	} else {
		m.session.StartRound()
	}
	m.staged = ""
	m.feedback = ""
	return m
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	out, err := m.session.SubmitGuess(m.staged)
	m.staged = ""
	m.feedback = feedback(out, err, m.session.Word())
	if err != nil || out.Hit {
		return m, nil
	}
	m.anim.OnWrongGuess(out.WrongCount)
	return m.ensureTicking()
}

func (m Model) ensureTicking() (tea.Model, tea.Cmd) {
	if m.ticking || !m.anim.IsAnimating() {
		return m, nil
	}
	m.ticking = true
	return m, m.tick()
}

func (m Model) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func (m Model) onTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen {
		return m, nil
	}
	m.anim.Tick()
	if m.anim.IsAnimating() || m.anim.CatchUp(m.session.WrongCount()) {
		return m, m.tick()
	}
	m.ticking = false
	return m, nil
}

func feedback(out game.Outcome, err error, word string) string {
	switch {
	case errors.Is(err, game.ErrInvalidInput):
		return "Please enter a single letter."
	case errors.Is(err, game.ErrDuplicateGuess):
		return "You already guessed that letter."
	case errors.Is(err, game.ErrRoundOver):
		return "This round is over. Press ctrl+n for a new game."
	case err != nil:
		return err.Error()
	case out.Status == game.StatusWon:
		return "You won!"
	case out.Status == game.StatusLost:
		return fmt.Sprintf("You lost! The word was '%s'.", word)
	case out.Hit:
		return fmt.Sprintf("Good guess: %s", strings.ToUpper(string(out.Letter)))
	default:
		return fmt.Sprintf("Wrong guess: %s", strings.ToUpper(string(out.Letter)))
	}
}

func (m Model) View() string {
	st := m.styles
	snap := m.session.Snapshot()

	var info strings.Builder
	fmt.Fprintf(&info, "%s\n\n", st.title.Render("Snowmelt"))
	fmt.Fprintf(&info, "Category: %s\n\n", snap.Category)
	fmt.Fprintf(&info, "%s\n\n", st.word.Render(snap.Masked))
	fmt.Fprintf(&info, "Wrong guesses: %d/%d\n", snap.WrongCount, snap.MaxWrong)
	guessed := "none yet"
	if len(snap.Guessed) > 0 {
		guessed = strings.ToUpper(strings.Join(snap.Guessed, " "))
	}
	fmt.Fprintf(&info, "Guessed: %s\n\n", st.muted.Render(guessed))

	switch snap.Status {
	case game.StatusWon:
		fmt.Fprintf(&info, "%s\n", st.won.Render("You won! The word was "+snap.Word+"."))
	case game.StatusLost:
		fmt.Fprintf(&info, "%s\n", st.lost.Render("You lost! The word was "+snap.Word+"."))
	default:
		staged := m.staged
		if staged == "" {
			staged = "_"
		}
		fmt.Fprintf(&info, "Letter: [%s]\n", staged)
	}
	if m.feedback != "" {
		fmt.Fprintf(&info, "%s\n", st.feedback.Render(m.feedback))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		st.frame.Render(renderArt(m.anim.Frame(), st)),
		"  ",
		info.String(),
	)
	return body + "\n" + m.help.View(m.keys) + "\n"
}
