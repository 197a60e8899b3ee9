package main

import (
	"context"
	"errors"
	"html/template"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"snowmelt/internal/game"
)

func main() {
	_ = godotenv.Load()

	cfg := loadConfig()
	initLogging(cfg.LogLevel, cfg.IsProduction)
	logInfo("Starting Snowmelt in %s mode", cfg.envName())

	bank, err := loadWordBank(cfg.WordBankFile)
	if err != nil {
		logFatal("Failed to load word bank: %v", err)
	}
	logInfo("Loaded %d words in %d categories", bank.Size(), len(bank))

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	app := newApp(cfg, bank)
	app.startServer(app.setupRouter())
}

// newApp wires the shared state. It does not touch the network.
func newApp(cfg Config, bank game.WordBank) *App {
	return &App{
		Config:     cfg,
		Bank:       bank,
		StartTime:  time.Now(),
		Players:    make(map[string]*Player),
		LimiterMap: make(map[string]*rate.Limiter),
		newSession: func(b game.WordBank) (*game.Session, error) { return game.NewSession(b) },
	}
}

// setupRouter builds the gin engine with middleware, templates and routes.
func (app *App) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestIDMiddleware(), accessLogMiddleware())

	// SSE must reach the client frame by frame, so /events is never gzipped.
	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression,
		ginGzip.WithExcludedExtensions([]string{".svg", ".ico", ".png"}),
		ginGzip.WithExcludedPaths([]string{RouteEvents})))

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}
	router.Use(app.cacheMiddleware())

	router.SetFuncMap(template.FuncMap{
		"upper": strings.ToUpper,
	})
	if app.Config.IsProduction && dirExists("dist") {
		logInfo("Serving assets from dist/ directory")
		router.LoadHTMLGlob("dist/templates/*.html")
		router.Static("/static", "./dist/static")
	} else {
		logInfo("Serving development assets from source directories")
		router.LoadHTMLGlob("templates/*.html")
		router.Static("/static", "./static")
	}

	app.registerRoutes(router)
	return router
}

func (app *App) registerRoutes(router *gin.Engine) {
	limited := app.rateLimitMiddleware()

	router.GET(RouteHome, app.homeHandler)
	router.GET(RouteNewGame, app.newGameHandler)
	router.POST(RouteNewGame, limited, app.newGameHandler)
	router.POST(RouteRetryWord, limited, app.retryWordHandler)
	router.POST(RouteGuess, limited, app.guessHandler)
	router.GET(RouteGameState, app.gameStateHandler)
	router.GET(RouteEvents, app.eventsHandler)
	router.GET(RouteHealthz, app.healthzHandler)
	router.GET(RouteAPIState, app.apiStateHandler)
	router.POST(RouteAPIGuess, limited, app.apiGuessHandler)
}

func (app *App) startServer(router *gin.Engine) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              ":" + app.Config.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// No WriteTimeout: /events streams for as long as the page is open.
		IdleTimeout: 120 * time.Second,
		// Request contexts end on shutdown, which closes open event streams.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	go app.runJanitor(ctx, max(app.Config.SessionTimeout/4, time.Minute))

	idleConnsClosed := make(chan struct{})
	go func() {
		<-ctx.Done()
		logInfo("Shutdown signal received, shutting down server gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logWarn("HTTP server Shutdown: %v", err)
		}
		app.evictIdlePlayers(0)
		close(idleConnsClosed)
	}()

	logInfo("Server starting on http://localhost:%s", app.Config.Port)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	logInfo("Server shutdown complete")
}
