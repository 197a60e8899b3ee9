package main

import (
	"os"
	"time"

	"snowmelt/internal/game"
	"snowmelt/internal/melt"
)

// Config is read once at startup from the environment (and .env, if present).
type Config struct {
	Port           string
	IsProduction   bool
	SessionTimeout time.Duration
	CookieMaxAge   time.Duration
	StaticCacheAge time.Duration
	RateLimitRPS   int
	RateLimitBurst int
	WordBankFile   string
	TickInterval   time.Duration
	SessionDir     string
	LogLevel       string
}

func loadConfig() Config {
	return Config{
		Port:           getEnv("PORT", "8080"),
		IsProduction:   os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production",
		SessionTimeout: getEnvDuration("SESSION_TIMEOUT", 2*time.Hour),
		CookieMaxAge:   getEnvDuration("COOKIE_MAX_AGE", 2*time.Hour),
		StaticCacheAge: getEnvDuration("STATIC_CACHE_AGE", 5*time.Minute),
		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
		WordBankFile:   os.Getenv("WORD_BANK_FILE"),
		TickInterval:   getEnvDuration("MELT_TICK_INTERVAL", melt.DefaultInterval),
		SessionDir:     getEnv("SESSION_DIR", "data/sessions"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
}

func (cfg Config) envName() string {
	if cfg.IsProduction {
		return "production"
	}
	return "development"
}

// loadWordBank uses the embedded bank unless path is set.
func loadWordBank(path string) (game.WordBank, error) {
	if path == "" {
		return game.DefaultWordBank(), nil
	}
	return game.LoadWordBank(path)
}
