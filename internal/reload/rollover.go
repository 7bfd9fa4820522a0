package reload

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// defaultRolloverInterval bounds each sleep slice so shutdown is observed
// within one slice rather than up to a full day.
const defaultRolloverInterval = time.Minute

// RolloverTimer raises the reload flag once per day at a fixed local time,
// prompting the scheduler to re-derive the day-specific configuration file.
type RolloverTimer struct {
	coord  *Coordinator
	hour   int
	minute int
	logger *slog.Logger

	// Now and MaxInterval are overridable for tests.
	Now         func() time.Time
	MaxInterval time.Duration
}

// NewRolloverTimer parses at ("HH:MM", typically "01:00") and returns the
// repeating timer.
func NewRolloverTimer(coord *Coordinator, at string, logger *slog.Logger) (*RolloverTimer, error) {
	hour, minute, err := parseClock(at)
	if err != nil {
		return nil, fmt.Errorf("rollover time: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RolloverTimer{coord: coord, hour: hour, minute: minute, logger: logger}, nil
}

// Run sleeps until each next rollover occurrence, raises the reload flag, and
// repeats until ctx is cancelled. Sleeps happen in bounded increments so
// cancellation is observed promptly.
func (t *RolloverTimer) Run(ctx context.Context) {
	for {
		now := t.now()
		target := t.NextOccurrence(now)
		t.logger.Info("next configuration rollover scheduled",
			"at", target.Format("2006-01-02 15:04:05"),
			"in", target.Sub(now).Round(time.Second).String())

		if !t.sleepUntil(ctx, target) {
			return
		}

		t.logger.Info("rollover time reached, requesting day-specific configuration reload")
		t.coord.RequestReload()
	}
}

// NextOccurrence returns the next time the rollover fires relative to now:
// today at the configured time, or tomorrow if that moment already passed.
func (t *RolloverTimer) NextOccurrence(now time.Time) time.Time {
	target := time.Date(now.Year(), now.Month(), now.Day(), t.hour, t.minute, 0, 0, now.Location())
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target
}

func (t *RolloverTimer) sleepUntil(ctx context.Context, target time.Time) bool {
	interval := t.MaxInterval
	if interval <= 0 {
		interval = defaultRolloverInterval
	}
	for {
		remaining := target.Sub(t.now())
		if remaining <= 0 {
			return true
		}
		if remaining > interval {
			remaining = interval
		}
		timer := time.NewTimer(remaining)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
	}
}

func (t *RolloverTimer) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func parseClock(s string) (int, int, error) {
	hh, mm, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return 0, 0, fmt.Errorf("malformed time %q", s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("malformed hour in %q", s)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("malformed minute in %q", s)
	}
	return hour, minute, nil
}
