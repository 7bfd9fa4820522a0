package reload

import (
	"log/slog"
	"sync"
)

// Coordinator merges the two reload signals behind a single check. It is the
// only shared mutable state between the scheduler loop and the rollover
// timer; the lock is held just long enough to read or write the flag, never
// across I/O.
type Coordinator struct {
	marker *Marker
	logger *slog.Logger

	mu   sync.Mutex
	flag bool
}

// NewCoordinator constructs a coordinator around the given marker.
func NewCoordinator(marker *Marker, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{marker: marker, logger: logger}
}

// Marker exposes the underlying marker for loader consumption.
func (c *Coordinator) Marker() *Marker { return c.marker }

// RequestReload raises the in-process flag. Used by the rollover timer,
// which has no file to point at: the request means "re-derive today's file".
func (c *Coordinator) RequestReload() {
	c.mu.Lock()
	c.flag = true
	c.mu.Unlock()
}

// CheckForReload reports whether a reload is pending, from either the marker
// file or the in-process flag. The flag is cleared exactly when observed set,
// making repeated checks idempotent.
func (c *Coordinator) CheckForReload() bool {
	if c.marker != nil && c.marker.Present() {
		c.logger.Info("reload marker present, configuration reload requested")
		return true
	}

	c.mu.Lock()
	raised := c.flag
	if raised {
		c.flag = false
	}
	c.mu.Unlock()

	if raised {
		c.logger.Info("in-process reload flag observed")
	}
	return raised
}
