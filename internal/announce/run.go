package announce

import (
	"context"
	"os"
	"time"

	"chime/internal/config"
	"chime/internal/render"
	"chime/internal/schedule"
)

// Run executes the announcement loop until ctx is cancelled. Cancellation is
// a clean shutdown and returns nil; a non-nil error is a programming
// invariant violation the daemon treats as fatal.
func (m *Manager) Run(ctx context.Context) error {
	var snap *config.Snapshot

	for {
		if ctx.Err() != nil {
			return nil
		}

		if snap == nil || m.coord.CheckForReload() {
			loaded, path, err := m.loader.Load("")
			if err != nil {
				m.logger.Error("failed to load configuration, retrying",
					"error", err, "retry_in", m.loadRetry.String())
				if !m.wait(ctx, m.loadRetry) {
					return nil
				}
				continue
			}
			snap = loaded
			m.logger.Info("configuration active", "path", path)
		}

		if len(snap.Schedule) == 0 {
			m.logger.Warn("no announcements scheduled, checking again", "in", m.poll.String())
			if !m.wait(ctx, m.poll) {
				return nil
			}
			continue
		}

		event, ok := schedule.Next(snap.Schedule, m.now(), m.logger)
		if !ok {
			m.logger.Info("no valid schedule entries, checking again", "in", m.poll.String())
			if !m.wait(ctx, m.poll) {
				return nil
			}
			continue
		}

		until := event.At.Sub(m.now())
		if until <= 0 {
			// The moment already passed, e.g. due to load latency.
			continue
		}
		m.logger.Info("next announcement armed",
			"type", event.Tag, "at", event.At.Format("15:04"), "in", until.Round(time.Second).String())

		if until > m.fetchLead {
			reloaded, alive := m.waitForFetchWindow(ctx, event.At)
			if !alive {
				return nil
			}
			if reloaded {
				m.logger.Info("configuration reload detected while waiting, abandoning event")
				snap = nil
				continue
			}
		}

		colorData := m.fetchColors(ctx, snap)

		if remaining := event.At.Sub(m.now()); remaining > 0 {
			if !m.wait(ctx, remaining) {
				return nil
			}
		}

		m.announce(ctx, snap, event, colorData)

		if !m.wait(ctx, m.pause) {
			return nil
		}
	}
}

// waitForFetchWindow sleeps until the fetch lead before the event, polling
// the reload coordinator each slice. Returns (reload detected, still alive).
func (m *Manager) waitForFetchWindow(ctx context.Context, at time.Time) (bool, bool) {
	for {
		remaining := at.Sub(m.now()) - m.fetchLead
		if remaining <= 0 {
			return false, true
		}
		if remaining > m.poll {
			remaining = m.poll
		}
		if !m.wait(ctx, remaining) {
			return false, false
		}
		if m.coord.CheckForReload() {
			return true, true
		}
	}
}

// fetchColors retrieves auxiliary data best-effort: a failure after retries
// never blocks the announcement.
func (m *Manager) fetchColors(ctx context.Context, snap *config.Snapshot) map[string]string {
	data, err := m.fetcher.Fetch(ctx, snap.Credentials)
	if err != nil {
		m.logger.Error("color fetch failed after retries, announcing with defaults", "error", err)
		return nil
	}
	return data
}

// announce renders, synthesizes, and plays one event. Failures are logged
// and contained; the artifact is removed on every path that created one.
func (m *Manager) announce(ctx context.Context, snap *config.Snapshot, event schedule.Event, colorData map[string]string) {
	tpl := render.TemplateFor(snap.Templates, event.Tag)
	text, err := render.Announcement(tpl, event.At.Format("15:04"), colorData)
	if err != nil {
		m.logger.Error("announcement rendering failed, skipping event",
			"type", event.Tag, "error", err)
		return
	}

	artifact, err := m.synth.Synthesize(ctx, text, snap.Voice.ID)
	if err != nil {
		m.logger.Error("speech synthesis failed", "type", event.Tag, "error", err)
		return
	}
	defer func() {
		if removeErr := os.Remove(artifact); removeErr != nil && !os.IsNotExist(removeErr) {
			m.logger.Warn("could not clean up audio artifact", "path", artifact, "error", removeErr)
		}
	}()

	if err := m.player.Play(ctx, artifact); err != nil {
		m.logger.Error("announcement playback failed", "type", event.Tag, "error", err)
		return
	}
	m.logger.Info("announcement played", "type", event.Tag, "at", event.At.Format("15:04"))
}

// wait sleeps for d or until shutdown; false means the context was cancelled.
func (m *Manager) wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
