package announce

import (
	"errors"
	"log/slog"
	"time"

	"chime/internal/colors"
	"chime/internal/config"
	"chime/internal/playback"
	"chime/internal/reload"
	"chime/internal/speech"
)

// Params collects the manager's dependencies and tunables. Zero-valued
// intervals fall back to the defaults below.
type Params struct {
	Loader      *config.Loader
	Coordinator *reload.Coordinator
	Fetcher     *colors.Fetcher
	Synthesizer speech.Synthesizer
	Player      playback.Player
	Logger      *slog.Logger

	// LoadRetryInterval paces retries after a failed configuration load.
	LoadRetryInterval time.Duration
	// PollInterval bounds every wait slice so reloads and shutdown are
	// observed promptly.
	PollInterval time.Duration
	// FetchLead is how long before an announcement the color fetch runs.
	FetchLead time.Duration
	// PostAnnouncePause separates consecutive scheduling decisions.
	PostAnnouncePause time.Duration

	// Now is overridable for tests.
	Now func() time.Time
}

// Manager owns the announcement loop.
type Manager struct {
	loader  *config.Loader
	coord   *reload.Coordinator
	fetcher *colors.Fetcher
	synth   speech.Synthesizer
	player  playback.Player
	logger  *slog.Logger

	loadRetry time.Duration
	poll      time.Duration
	fetchLead time.Duration
	pause     time.Duration

	now func() time.Time
}

// NewManager validates dependencies and constructs the manager.
func NewManager(p Params) (*Manager, error) {
	if p.Loader == nil || p.Coordinator == nil || p.Fetcher == nil || p.Synthesizer == nil || p.Player == nil {
		return nil, errors.New("announce manager requires loader, coordinator, fetcher, synthesizer, and player")
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		loader:    p.Loader,
		coord:     p.Coordinator,
		fetcher:   p.Fetcher,
		synth:     p.Synthesizer,
		player:    p.Player,
		logger:    logger,
		loadRetry: p.LoadRetryInterval,
		poll:      p.PollInterval,
		fetchLead: p.FetchLead,
		pause:     p.PostAnnouncePause,
		now:       p.Now,
	}
	if m.loadRetry <= 0 {
		m.loadRetry = time.Minute
	}
	if m.poll <= 0 {
		m.poll = time.Minute
	}
	if m.fetchLead <= 0 {
		m.fetchLead = time.Minute
	}
	if m.pause <= 0 {
		m.pause = time.Second
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m, nil
}
