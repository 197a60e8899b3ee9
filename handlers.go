package main

import (
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"snowmelt/internal/scene"
	"snowmelt/internal/types"
)

// playerOrAbort resolves the session's player, answering 500 when that fails.
func (app *App) playerOrAbort(c *gin.Context) (*Player, bool) {
	sessionID := app.getOrCreateSession(c)
	p, err := app.getPlayer(c.Request.Context(), sessionID)
	if err != nil {
		requestLogger(c.Request.Context()).Error().Err(err).Str("session", sessionID).Msg("cannot load player")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to start a game."})
		return nil, false
	}
	return p, true
}

func boardData(p *Player, errMsg string) gin.H {
	return gin.H{
		"title": pageTitle,
		"state": p.view(),
		"svg":   template.HTML(scene.RenderSVG(p.Animator.Parts())),
		"error": errMsg,
	}
}

// renderGame answers htmx requests with the board fragment and plain
// requests with the full page.
func renderGame(c *gin.Context, p *Player, errMsg string) {
	if errMsg != "" && isHTMX(c) {
		if b, err := json.Marshal(map[string]string{"server_error": errMsg}); err == nil {
			c.Header("HX-Trigger", string(b))
		}
	}
	if isHTMX(c) {
		c.HTML(http.StatusOK, "game-content", boardData(p, errMsg))
		return
	}
	c.HTML(http.StatusOK, "index.html", boardData(p, errMsg))
}

func (app *App) homeHandler(c *gin.Context) {
	p, ok := app.playerOrAbort(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "index.html", boardData(p, ""))
}

// newGameHandler starts a new round. With ?reset=1 the session itself is
// replaced as well.
func (app *App) newGameHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if c.Query("reset") == "1" {
		if old, err := c.Cookie(SessionCookieName); err == nil && validSessionID(old) {
			app.dropPlayer(old)
		}
		sessionID := app.issueSession(c)
		logInfo("Reset session, new ID: %s", sessionID)
		p, err := app.getPlayer(ctx, sessionID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to start a game."})
			return
		}
		app.finishNewGame(c, p)
		return
	}

	p, ok := app.playerOrAbort(c)
	if !ok {
		return
	}
	p.startRound(false)
	logInfo("New round for session %s", p.ID)
	app.finishNewGame(c, p)
}

func (app *App) finishNewGame(c *gin.Context, p *Player) {
	app.savePlayer(c.Request.Context(), p)
	if isHTMX(c) {
		c.HTML(http.StatusOK, "game-content", boardData(p, ""))
		return
	}
	c.Redirect(http.StatusSeeOther, RouteHome)
}

// retryWordHandler restarts the round on the same word.
func (app *App) retryWordHandler(c *gin.Context) {
	p, ok := app.playerOrAbort(c)
	if !ok {
		return
	}
	p.startRound(true)
	app.finishNewGame(c, p)
}

func (app *App) guessHandler(c *gin.Context) {
	ctx := c.Request.Context()
	p, ok := app.playerOrAbort(c)
	if !ok {
		return
	}
	out, err := p.submitGuess(ctx, c.PostForm("guess"))
	if err != nil {
		renderGame(c, p, feedbackFor(out, err))
		return
	}
	app.savePlayer(ctx, p)
	renderGame(c, p, "")
}

// gameStateHandler renders the board fragment for htmx polling.
func (app *App) gameStateHandler(c *gin.Context) {
	p, ok := app.playerOrAbort(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "game-content", boardData(p, ""))
}

func (app *App) apiStateHandler(c *gin.Context) {
	p, ok := app.playerOrAbort(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, p.view())
}

// apiGuessHandler accepts {"letter": "e"}. Rejected guesses still answer 200
// with ok=false and a stable error code.
func (app *App) apiGuessHandler(c *gin.Context) {
	ctx := c.Request.Context()
	p, ok := app.playerOrAbort(c)
	if !ok {
		return
	}

	var req types.GuessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.GuessResponse{
			Error:   ErrorCodeBadRequest,
			Message: MessageBadRequest,
			State:   p.view(),
		})
		return
	}

	out, err := p.submitGuess(ctx, req.Letter)
	if err != nil {
		c.JSON(http.StatusOK, types.GuessResponse{
			Error:   errorCode(err),
			Message: feedbackFor(out, err),
			State:   p.view(),
		})
		return
	}
	app.savePlayer(ctx, p)
	c.JSON(http.StatusOK, types.GuessResponse{
		OK:      true,
		Message: feedbackFor(out, nil),
		Outcome: outcomeView(out),
		State:   p.view(),
	})
}

// eventsHandler streams animation frames as server-sent events until the
// client goes away. The current frame is sent first so a fresh page can draw.
func (app *App) eventsHandler(c *gin.Context) {
	ctx := c.Request.Context()
	p, ok := app.playerOrAbort(c)
	if !ok {
		return
	}
	frames, unsubscribe := p.Frames.subscribe()
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("frame", frameEvent(p.Animator.Frame()))
	c.Writer.Flush()

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case f := <-frames:
			c.SSEvent("frame", frameEvent(f))
		case <-keepAlive.C:
			c.SSEvent("ping", time.Now().Unix())
		}
		c.Writer.Flush()
	}
}

// healthzHandler returns a JSON health check with server stats.
func (app *App) healthzHandler(c *gin.Context) {
	app.PlayerMutex.RLock()
	sessions := len(app.Players)
	app.PlayerMutex.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"env":        app.Config.envName(),
		"categories": len(app.Bank),
		"words":      app.Bank.Size(),
		"sessions":   sessions,
		"uptime":     formatUptime(time.Since(app.StartTime)),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}
