package game

import "errors"

var (
	ErrInvalidInput   = errors.New("guess must be a single letter")
	ErrDuplicateGuess = errors.New("letter already guessed")
	ErrRoundOver      = errors.New("round is over")

	ErrEmptyBank    = errors.New("word bank is empty")
	ErrInvalidWord  = errors.New("invalid word")
	ErrInvalidState = errors.New("invalid round state")
)
