package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

func roundFile(dir, sessionID string) string {
	return filepath.Join(dir, sessionID+".json")
}

// saveRoundToFile persists a round so it survives a server restart.
var saveRoundToFile = func(dir, sessionID string, round savedRound) error {
	if !validSessionID(sessionID) {
		logWarn("Skipping save for invalid session ID: %q", sessionID)
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(round, "", "  ")
	if err != nil {
		return err
	}
	// Write then rename so a crash never leaves a half-written round.
	path := roundFile(dir, sessionID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	logDebug("Saved round for session %s", sessionID)
	return nil
}

// loadRoundFromFile reads a saved round. Files older than maxAge or that do
// not decode are removed and reported as os.ErrNotExist.
var loadRoundFromFile = func(dir, sessionID string, maxAge time.Duration) (*savedRound, error) {
	if !validSessionID(sessionID) {
		return nil, os.ErrNotExist
	}
	path := roundFile(dir, sessionID)

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if age := time.Since(info.ModTime()); age > maxAge {
		logInfo("Session file %s is too old (%v, max %v), removing", path, age.Round(time.Second), maxAge)
		os.Remove(path)
		return nil, os.ErrNotExist
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var round savedRound
	if err := json.Unmarshal(data, &round); err != nil {
		logWarn("Session file %s is corrupted, removing: %v", path, err)
		os.Remove(path)
		return nil, os.ErrNotExist
	}
	if round.Round.Word == "" {
		logWarn("Session file %s has no word, removing", path)
		os.Remove(path)
		return nil, os.ErrNotExist
	}
	return &round, nil
}

func removeRoundFile(dir, sessionID string) {
	if !validSessionID(sessionID) {
		return
	}
	if err := os.Remove(roundFile(dir, sessionID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		logWarn("Failed to remove session file for %s: %v", sessionID, err)
	}
}

// cleanupOldSessions removes round files older than maxAge.
var cleanupOldSessions = func(dir string, maxAge time.Duration) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	cutoff := time.Now().Add(-maxAge)
	removed, failed := 0, 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			failed++
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			logWarn("Failed to remove old session file %s: %v", entry.Name(), err)
			failed++
			continue
		}
		removed++
	}
	if removed > 0 || failed > 0 {
		logInfo("Session cleanup: removed %d file%s, %d error%s", removed, plural(removed), failed, plural(failed))
	}
	return nil
}
