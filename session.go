package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// getOrCreateSession returns the session ID from the cookie, issuing a new
// one when the cookie is missing or not a UUID.
func (app *App) getOrCreateSession(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || !validSessionID(sessionID) {
		sessionID = app.issueSession(c)
		logInfo("Created new session: %s", sessionID)
	}
	return sessionID
}

func (app *App) issueSession(c *gin.Context) string {
	sessionID := uuid.NewString()
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, sessionID, int(app.Config.CookieMaxAge.Seconds()), "/", "", app.Config.IsProduction, true)
	return sessionID
}

// validSessionID also keeps cookie values out of file paths.
func validSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}

// getPlayer returns the live player for sessionID, restoring a saved round
// from disk or starting a new one when there is none in memory.
func (app *App) getPlayer(ctx context.Context, sessionID string) (*Player, error) {
	app.PlayerMutex.Lock()
	if p, ok := app.Players[sessionID]; ok {
		p.LastAccessTime = time.Now()
		app.PlayerMutex.Unlock()
		return p, nil
	}
	app.PlayerMutex.Unlock()

	p, err := app.newPlayer(sessionID)
	if err != nil {
		return nil, err
	}
	if saved, err := loadRoundFromFile(app.Config.SessionDir, sessionID, app.Config.SessionTimeout); err == nil {
		if err := p.restore(saved); err != nil {
			requestLogger(ctx).Warn().Err(err).Str("session", sessionID).Msg("discarding saved round")
			removeRoundFile(app.Config.SessionDir, sessionID)
		} else {
			requestLogger(ctx).Info().Str("session", sessionID).Msg("restored saved round")
		}
	}

	app.PlayerMutex.Lock()
	defer app.PlayerMutex.Unlock()
	if existing, ok := app.Players[sessionID]; ok {
		// Lost a race with a concurrent request for the same session.
		existing.LastAccessTime = time.Now()
		return existing, nil
	}
	app.Players[sessionID] = p
	return p, nil
}

// savePlayer writes the player's round to disk. Failures are logged and
// otherwise ignored; the in-memory round stays authoritative.
func (app *App) savePlayer(ctx context.Context, p *Player) {
	if err := saveRoundToFile(app.Config.SessionDir, p.ID, p.snapshot()); err != nil {
		requestLogger(ctx).Warn().Err(err).Str("session", p.ID).Msg("failed to save round")
	}
}

// dropPlayer forgets a session, stopping its animation.
func (app *App) dropPlayer(sessionID string) {
	app.PlayerMutex.Lock()
	p, ok := app.Players[sessionID]
	delete(app.Players, sessionID)
	app.PlayerMutex.Unlock()
	if ok {
		p.Scheduler.Cancel()
	}
	removeRoundFile(app.Config.SessionDir, sessionID)
}

// evictIdlePlayers removes players not seen for maxAge and returns how many
// were evicted.
func (app *App) evictIdlePlayers(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	var idle []*Player

	app.PlayerMutex.Lock()
	for id, p := range app.Players {
		if p.LastAccessTime.Before(cutoff) {
			idle = append(idle, p)
			delete(app.Players, id)
		}
	}
	app.PlayerMutex.Unlock()

	for _, p := range idle {
		p.Scheduler.Cancel()
	}
	return len(idle)
}

// runJanitor evicts idle players and expired round files until ctx is done.
func (app *App) runJanitor(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := app.evictIdlePlayers(app.Config.SessionTimeout); n > 0 {
				logInfo("Evicted %d idle session%s", n, plural(n))
			}
			if err := cleanupOldSessions(app.Config.SessionDir, app.Config.SessionTimeout); err != nil {
				logWarn("Session cleanup failed: %v", err)
			}
		}
	}
}
