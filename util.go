package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// initLogging sets the global level and, outside production, switches to the
// human readable console writer.
func initLogging(level string, production bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339
	if !production {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// requestLogger returns the global logger tagged with the request ID, if any.
func requestLogger(ctx context.Context) *zerolog.Logger {
	l := log.Logger
	if reqID, ok := ctx.Value(requestIDKey).(string); ok && reqID != "" {
		l = l.With().Str("request_id", reqID).Logger()
	}
	return &l
}

func logDebug(format string, v ...any) {
	log.Debug().Msgf(format, v...)
}

func logInfo(format string, v ...any) {
	log.Info().Msgf(format, v...)
}

func logWarn(format string, v ...any) {
	log.Warn().Msgf(format, v...)
}

// logFatal logs and exits with status 1.
func logFatal(format string, v ...any) {
	log.Fatal().Msgf(format, v...)
}

// dirExists returns true if the given path exists and is a directory.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logWarn("Error checking directory %s: %v", path, err)
		}
		return false
	}
	return info.IsDir()
}

// formatUptime renders d as "1 hour, 2 minutes, 3 seconds", dropping
// leading zero units.
func formatUptime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	switch {
	case hours > 0:
		return fmt.Sprintf("%s, %s, %s", unit(hours, "hour"), unit(minutes, "minute"), unit(seconds, "second"))
	case minutes > 0:
		return fmt.Sprintf("%s, %s", unit(minutes, "minute"), unit(seconds, "second"))
	default:
		return unit(seconds, "second")
	}
}

func unit(n int, name string) string {
	return fmt.Sprintf("%d %s%s", n, name, plural(n))
}

// plural returns "s" if n != 1, otherwise "".
func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvDuration reads a time.Duration from the environment or returns a fallback.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		logWarn("Invalid duration for %s: %q, using default %v", key, val, fallback)
		return fallback
	}
	return d
}

// getEnvInt reads a positive int from the environment or returns a fallback.
func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	i, err := strconv.Atoi(val)
	if err != nil || i <= 0 {
		logWarn("Invalid int for %s: %q, using default %d", key, val, fallback)
		return fallback
	}
	return i
}
