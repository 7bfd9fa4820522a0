package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"chime/internal/lockfile"
)

var (
	// ErrNotFound reports that neither the requested configuration file nor
	// the generic fallback exists.
	ErrNotFound = errors.New("configuration not found")

	// ErrInvalid reports a configuration that parsed but fails validation.
	ErrInvalid = errors.New("invalid configuration")
)

// MarkerStore consumes a pending reload marker. Take returns the marker
// content (a candidate configuration path, possibly empty), whether a marker
// was present, and any consumption error. The marker must be gone afterwards
// regardless of whether its content was usable.
type MarkerStore interface {
	Take() (content string, present bool, err error)
}

// Loader resolves and parses the active configuration file.
type Loader struct {
	// Dir holds the day-specific INI files and the fallback.
	Dir string

	// Marker, when non-nil, is consulted first: a deposited marker naming an
	// existing file overrides any explicit or derived path.
	Marker MarkerStore

	Logger *slog.Logger

	// Now is the clock used for weekday derivation. Defaults to time.Now.
	Now func() time.Time
}

// Load resolves the configuration path per the reload protocol and parses it
// under a shared lock. The explicit argument may be empty, in which case the
// path derives from the current weekday. Returns the snapshot and the path it
// was read from.
func (l *Loader) Load(explicit string) (*Snapshot, string, error) {
	logger := l.logger()
	path := explicit

	if l.Marker != nil {
		content, present, err := l.Marker.Take()
		if err != nil {
			logger.Warn("could not consume reload marker", "error", err)
		}
		if present && content != "" {
			candidate := content
			if !filepath.IsAbs(candidate) {
				candidate = filepath.Join(l.Dir, candidate)
			}
			if fileExists(candidate) {
				logger.Info("loading configuration requested by reload marker", "path", candidate)
				path = candidate
			} else {
				logger.Warn("reload marker names a missing file", "path", candidate)
			}
		}
	}

	if path == "" {
		now := time.Now
		if l.Now != nil {
			now = l.Now
		}
		path = filepath.Join(l.Dir, DayFileFor(now()))
	}

	if !fileExists(path) {
		if filepath.Base(path) == FallbackFile {
			return nil, "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		fallback := filepath.Join(l.Dir, FallbackFile)
		logger.Warn("configuration file missing, trying fallback", "path", path, "fallback", fallback)
		if !fileExists(fallback) {
			return nil, "", fmt.Errorf("%w: %s (fallback %s also missing)", ErrNotFound, path, fallback)
		}
		path = fallback
	}

	var snap *Snapshot
	err := lockfile.WithShared(path, func(f *os.File) error {
		parsed, parseErr := parseDocument(f)
		if parseErr != nil {
			return fmt.Errorf("%w: parse %s: %w", ErrInvalid, path, parseErr)
		}
		snap = parsed
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	if err := snap.Validate(); err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}

	logger.Info("configuration loaded", "path", path, "entries", len(snap.Schedule))
	return snap, path, nil
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
