package main

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"snowmelt/internal/game"
	"snowmelt/internal/melt"
)

type contextKey string

// App holds the state shared by all handlers.
type App struct {
	Config    Config
	Bank      game.WordBank
	StartTime time.Time

	Players     map[string]*Player
	PlayerMutex sync.RWMutex // guards Players and each Player.LastAccessTime

	LimiterMap   map[string]*rate.Limiter
	LimiterMutex sync.Mutex

	// newSession is swapped in tests for a deterministic word picker.
	newSession func(game.WordBank) (*game.Session, error)
}

// Player is one browser session: a round, its snowman and the clients
// watching the snowman melt.
type Player struct {
	ID string

	mu        sync.Mutex // serialises guesses and round changes
	Session   *game.Session
	Messages  []string
	Animator  *melt.Animator
	Scheduler *melt.Scheduler
	Frames    *frameHub

	// wrong mirrors Session.WrongCount for the scheduler's idle hook, which
	// must not take mu: startRound holds mu while cancelling the scheduler.
	wrong atomic.Int32

	LastAccessTime time.Time
}

// savedRound is the on-disk form of a player's round.
type savedRound struct {
	Round          game.State `json:"round"`
	Messages       []string   `json:"messages,omitempty"`
	LastAccessTime time.Time  `json:"lastAccessTime"`
}
