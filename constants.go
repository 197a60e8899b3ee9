package main

// Session configuration constants
const (
	SessionCookieName = "session_id"
	maxMessages       = 20 // feedback lines kept per round
)

// Route constants
const (
	RouteHome      = "/"
	RouteNewGame   = "/new-game"
	RouteRetryWord = "/retry-word"
	RouteGuess     = "/guess"
	RouteGameState = "/game-state"
	RouteAPIState  = "/api/state"
	RouteAPIGuess  = "/api/guess"
	RouteEvents    = "/events"
	RouteHealthz   = "/healthz"
)

// Feedback message constants
const (
	MessageInvalidInput = "Please enter a single letter."
	MessageDuplicate    = "You already guessed that letter."
	MessageRoundOver    = "This round is over. Start a new game."
	MessageGoodGuess    = "Good guess: %s"
	MessageWrongGuess   = "Wrong guess: %s"
	MessageWon          = "You won!"
	MessageLost         = "You lost! The word was '%s'."
	MessageBadRequest   = "Malformed request."
)

// Error codes returned by the JSON API
const (
	ErrorCodeInvalidInput = "invalid_input"
	ErrorCodeDuplicate    = "duplicate_guess"
	ErrorCodeRoundOver    = "round_over"
	ErrorCodeBadRequest   = "bad_request"
)

const pageTitle = "Snowmelt - Don't Let the Snowman Melt"

// Context key constants
const (
	requestIDKey contextKey = "request_id"
)
