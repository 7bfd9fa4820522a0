// Package schedule computes the next announcement event from a mutable
// time-of-day schedule.
package schedule

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Event is the next (time, type) pair due to fire. It is ephemeral: the
// scheduler recomputes it every pass and never caches it across reloads.
type Event struct {
	At  time.Time
	Tag string
}

// Next projects every schedule entry onto its next occurrence relative to now
// and returns the earliest one. Entries whose projection for today is not
// strictly in the future roll over to tomorrow. Malformed time keys are
// skipped with a warning. The second result is false when no entry yields a
// valid occurrence.
//
// Two entries resolving to the same timestamp are ordered arbitrarily; both
// fire on consecutive passes either way.
func Next(entries map[string]string, now time.Time, logger *slog.Logger) (Event, bool) {
	if logger == nil {
		logger = slog.Default()
	}

	var best Event
	found := false
	for key, tag := range entries {
		hour, minute, err := ParseTimeOfDay(key)
		if err != nil {
			logger.Warn("skipping malformed schedule entry", "time", key, "error", err)
			continue
		}
		at := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if !at.After(now) {
			at = at.AddDate(0, 0, 1)
		}
		if !found || at.Before(best.At) {
			best = Event{At: at, Tag: tag}
			found = true
		}
	}
	return best, found
}

// ParseTimeOfDay splits an "HH:MM" string into hour and minute components.
func ParseTimeOfDay(s string) (int, int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("malformed time of day %q", s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("hour out of range in %q", s)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("minute out of range in %q", s)
	}
	return hour, minute, nil
}
