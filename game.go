package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"snowmelt/internal/game"
	"snowmelt/internal/melt"
	"snowmelt/internal/scene"
	"snowmelt/internal/types"
)

// newPlayer starts a fresh round with a full snowman.
func (app *App) newPlayer(sessionID string) (*Player, error) {
	sess, err := app.newSession(app.Bank)
	if err != nil {
		return nil, fmt.Errorf("player %s: %w", sessionID, err)
	}
	anim := melt.New(sess.MaxWrong())
	p := &Player{
		ID:             sessionID,
		Session:        sess,
		Animator:       anim,
		Frames:         newFrameHub(),
		LastAccessTime: time.Now(),
	}
	p.Scheduler = melt.NewScheduler(anim, app.Config.TickInterval,
		melt.WithFrameHook(p.Frames.publish),
		melt.WithIdleHook(func() bool {
			return anim.CatchUp(int(p.wrong.Load()))
		}),
	)
	logDebug("Player %s started on category %q", sessionID, sess.Category())
	return p, nil
}

// startRound replaces the round. Any running melt is cancelled before the
// snowman is rebuilt, so no stale tick can reach the new round.
func (p *Player) startRound(retry bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Scheduler.Cancel()
	p.Animator.Reset()
	if retry {
		p.Session.Restart()
	} else {
		p.Session.StartRound()
	}
	p.wrong.Store(0)
	p.Messages = nil
	p.Frames.publish(p.Animator.Frame())
}

// submitGuess applies one guess and, on a miss, starts the next part melting.
func (p *Player) submitGuess(ctx context.Context, input string) (game.Outcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	out, err := p.Session.SubmitGuess(input)
	logger := requestLogger(ctx)
	if err != nil {
		logger.Debug().Err(err).Str("session", p.ID).Str("input", input).Msg("guess rejected")
		return out, err
	}

	p.wrong.Store(int32(out.WrongCount))
	p.addMessage(feedbackFor(out, nil))
	if out.Terminal() {
		p.addMessage(terminalMessage(out.Status, p.Session.Word()))
		logger.Info().Str("session", p.ID).Str("status", out.Status.String()).
			Int("wrong", out.WrongCount).Msg("round finished")
	}

	if !out.Hit {
		p.Animator.OnWrongGuess(out.WrongCount)
		p.Scheduler.Kick()
	}
	return out, nil
}

func (p *Player) addMessage(msg string) {
	p.Messages = append(p.Messages, msg)
	if len(p.Messages) > maxMessages {
		p.Messages = p.Messages[len(p.Messages)-maxMessages:]
	}
}

// restore replaces the round with a saved one and snaps the snowman to match.
func (p *Player) restore(saved *savedRound) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.Session.Restore(saved.Round); err != nil {
		return err
	}
	p.Scheduler.Cancel()
	p.Animator.Restore(p.Session.WrongCount())
	p.wrong.Store(int32(p.Session.WrongCount()))
	p.Messages = lo.Slice(saved.Messages, max(0, len(saved.Messages)-maxMessages), len(saved.Messages))
	return nil
}

// snapshot returns what needs to be written to disk.
func (p *Player) snapshot() savedRound {
	p.mu.Lock()
	defer p.mu.Unlock()
	return savedRound{
		Round:          p.Session.State(),
		Messages:       append([]string(nil), p.Messages...),
		LastAccessTime: time.Now(),
	}
}

// view builds the board shown to clients.
func (p *Player) view() types.StateResponse {
	p.mu.Lock()
	snap := p.Session.Snapshot()
	messages := append([]string{}, p.Messages...)
	p.mu.Unlock()

	frame := p.Animator.Frame()
	return types.StateResponse{
		Category:   snap.Category,
		Masked:     snap.Masked,
		Guessed:    snap.Guessed,
		WrongCount: snap.WrongCount,
		MaxWrong:   snap.MaxWrong,
		Status:     snap.Status.String(),
		Over:       snap.Status.Terminal(),
		Word:       snap.Word,
		Parts:      partViews(frame),
		Animating:  frame.Animating,
		Messages:   messages,
	}
}

func partViews(f melt.Frame) []types.PartView {
	return lo.Map(f.Parts, func(part melt.Part, i int) types.PartView {
		phase := melt.PhaseFull
		switch {
		case i == f.Active:
			phase = melt.PhaseDegrading
		case part.Scale == 0:
			phase = melt.PhaseGone
		}
		name := fmt.Sprintf("part %d", i)
		if i < len(scene.PartNames) {
			name = scene.PartNames[i]
		}
		return types.PartView{Name: name, Scale: part.Scale, Offset: part.Offset, Phase: phase.String()}
	})
}

func frameEvent(f melt.Frame) types.FrameEvent {
	return types.FrameEvent{
		Parts:     partViews(f),
		Animating: f.Animating,
		SVG:       scene.RenderSVG(f.Parts),
	}
}

// feedbackFor maps a guess result to the line shown to the player.
func feedbackFor(out game.Outcome, err error) string {
	switch {
	case errors.Is(err, game.ErrInvalidInput):
		return MessageInvalidInput
	case errors.Is(err, game.ErrDuplicateGuess):
		return MessageDuplicate
	case errors.Is(err, game.ErrRoundOver):
		return MessageRoundOver
	case err != nil:
		return err.Error()
	case out.Hit:
		return fmt.Sprintf(MessageGoodGuess, strings.ToUpper(string(out.Letter)))
	default:
		return fmt.Sprintf(MessageWrongGuess, strings.ToUpper(string(out.Letter)))
	}
}

func terminalMessage(status game.Status, word string) string {
	if status == game.StatusWon {
		return MessageWon
	}
	return fmt.Sprintf(MessageLost, word)
}

// errorCode maps guess errors to the stable codes of the JSON API.
func errorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrInvalidInput):
		return ErrorCodeInvalidInput
	case errors.Is(err, game.ErrDuplicateGuess):
		return ErrorCodeDuplicate
	case errors.Is(err, game.ErrRoundOver):
		return ErrorCodeRoundOver
	}
	return ""
}

func outcomeView(out game.Outcome) *types.OutcomeView {
	return &types.OutcomeView{
		Letter:     string(out.Letter),
		Hit:        out.Hit,
		WrongCount: out.WrongCount,
		Terminal:   out.Terminal(),
	}
}
