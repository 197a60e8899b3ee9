package types

// PartView is one snowman part as sent to clients.
type PartView struct {
	Name   string  `json:"name"`
	Scale  float64 `json:"scale"`
	Offset float64 `json:"offset"`
	Phase  string  `json:"phase"`
}

// StateResponse is the full board for GET /api/state and template rendering.
type StateResponse struct {
	Category   string     `json:"category"`
	Masked     string     `json:"masked"`
	Guessed    []string   `json:"guessed"`
	WrongCount int        `json:"wrongCount"`
	MaxWrong   int        `json:"maxWrong"`
	Status     string     `json:"status"`
	Over       bool       `json:"over"`
	Word       string     `json:"word,omitempty"`
	Parts      []PartView `json:"parts"`
	Animating  bool       `json:"animating"`
	Messages   []string   `json:"messages"`
}

type GuessRequest struct {
	Letter string `json:"letter"`
}

type OutcomeView struct {
	Letter     string `json:"letter"`
	Hit        bool   `json:"hit"`
	WrongCount int    `json:"wrongCount"`
	Terminal   bool   `json:"terminal"`
}

// GuessResponse carries either an outcome or a stable error code.
type GuessResponse struct {
	OK      bool          `json:"ok"`
	Error   string        `json:"error,omitempty"`
	Message string        `json:"message"`
	Outcome *OutcomeView  `json:"outcome,omitempty"`
	State   StateResponse `json:"state"`
}

// FrameEvent is the payload of each "frame" server-sent event.
type FrameEvent struct {
	Parts     []PartView `json:"parts"`
	Animating bool       `json:"animating"`
	SVG       string     `json:"svg"`
}
