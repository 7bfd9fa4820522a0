package announce_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"chime/internal/announce"
	"chime/internal/colors"
	"chime/internal/config"
	"chime/internal/reload"
)

type stubSource struct {
	mu      sync.Mutex
	mapping map[string]string
	err     error
	calls   int
}

func (s *stubSource) Fetch(ctx context.Context, creds config.Credentials) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.mapping, s.err
}

type stubSynth struct {
	mu    sync.Mutex
	dir   string
	texts []string
	fail  bool
}

func (s *stubSynth) Synthesize(ctx context.Context, text, voiceID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return "", fmt.Errorf("service unavailable")
	}
	s.texts = append(s.texts, text)
	path := filepath.Join(s.dir, fmt.Sprintf("artifact-%d.mp3", len(s.texts)))
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (s *stubSynth) spoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

type stubPlayer struct {
	mu     sync.Mutex
	played []string
	err    error
}

func (p *stubPlayer) Play(ctx context.Context, path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.played = append(p.played, path)
	return p.err
}

func (p *stubPlayer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.played)
}

// advancingClock returns a Now func starting at base and moving with real
// time, so schedule math sees HH:MM precision while tests stay fast.
func advancingClock(base time.Time) func() time.Time {
	start := time.Now()
	return func() time.Time { return base.Add(time.Since(start)) }
}

type fixture struct {
	dir     string
	marker  *reload.Marker
	coord   *reload.Coordinator
	loader  *config.Loader
	source  *stubSource
	synth   *stubSynth
	player  *stubPlayer
	manager *announce.Manager
}

func configDocument(scheduleLines string) string {
	return `[credentials]
server = colors.db
database = parkops
username = announcer
password = pw

[schedule]
` + scheduleLines + `

[templates]
hour = It's {time}. Colors: {color1}, {color2}.
fiftyfive = Five minutes! {time}

[voice]
voice_id = en-US-JennyNeural
`
}

func newFixture(t *testing.T, now func() time.Time, document string) *fixture {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.FallbackFile), []byte(document), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	marker := reload.NewMarker(filepath.Join(dir, reload.MarkerFile))
	coord := reload.NewCoordinator(marker, nil)
	loader := &config.Loader{Dir: dir, Marker: marker, Now: now}

	source := &stubSource{mapping: map[string]string{"color1": "Red", "color2": "Blue"}}
	fetcher := colors.NewFetcher(source, nil)
	fetcher.Retry.Sleep = func(time.Duration) {}

	synth := &stubSynth{dir: t.TempDir()}
	player := &stubPlayer{}

	manager, err := announce.NewManager(announce.Params{
		Loader:            loader,
		Coordinator:       coord,
		Fetcher:           fetcher,
		Synthesizer:       synth,
		Player:            player,
		LoadRetryInterval: 20 * time.Millisecond,
		PollInterval:      20 * time.Millisecond,
		FetchLead:         2 * time.Second,
		PostAnnouncePause: 5 * time.Millisecond,
		Now:               now,
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return &fixture{dir: dir, marker: marker, coord: coord, loader: loader,
		source: source, synth: synth, player: player, manager: manager}
}

func runManager(t *testing.T, f *fixture) (cancel func()) {
	t.Helper()
	ctx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.manager.Run(ctx) }()
	return func() {
		stop()
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("Run returned error: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("manager did not shut down")
		}
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestRunAnnouncesScheduledEvent(t *testing.T) {
	// One second before 14:00; the 14:00 entry fires almost immediately.
	base := time.Date(2026, 5, 4, 13, 59, 59, 0, time.Local)
	now := advancingClock(base)
	f := newFixture(t, now, configDocument("14:00 = hour"))
	defer runManager(t, f)()

	waitFor(t, 4*time.Second, func() bool { return f.player.count() >= 1 }, "announcement never played")

	spoken := f.synth.spoken()
	if len(spoken) == 0 {
		t.Fatal("nothing synthesized")
	}
	want := "It's 2:00 PM. Colors: Red, Blue."
	if spoken[0] != want {
		t.Fatalf("spoken %q, want %q", spoken[0], want)
	}
	// Artifact cleanup runs regardless of playback outcome.
	waitFor(t, time.Second, func() bool {
		entries, _ := os.ReadDir(f.synth.dir)
		return len(entries) == 0
	}, "artifact not removed after playback")
}

func TestRunAnnouncesWithDefaultsWhenFetchFails(t *testing.T) {
	base := time.Date(2026, 5, 4, 13, 59, 59, 0, time.Local)
	now := advancingClock(base)
	f := newFixture(t, now, configDocument("14:00 = hour"))
	f.source.mu.Lock()
	f.source.mapping = nil
	f.source.err = fmt.Errorf("connection refused")
	f.source.mu.Unlock()
	defer runManager(t, f)()

	waitFor(t, 4*time.Second, func() bool { return f.player.count() >= 1 }, "announcement never played")

	spoken := f.synth.spoken()
	if !strings.Contains(spoken[0], "unknown, unknown") {
		t.Fatalf("expected default colors, got %q", spoken[0])
	}
	f.source.mu.Lock()
	calls := f.source.calls
	f.source.mu.Unlock()
	if calls != 3 {
		t.Fatalf("expected 3 fetch attempts, got %d", calls)
	}
}

func TestRunPlaybackFailureStillCleansUpAndContinues(t *testing.T) {
	base := time.Date(2026, 5, 4, 13, 59, 59, 0, time.Local)
	now := advancingClock(base)
	f := newFixture(t, now, configDocument("14:00 = hour"))
	f.player.err = fmt.Errorf("audio device busy")
	defer runManager(t, f)()

	waitFor(t, 4*time.Second, func() bool { return f.player.count() >= 1 }, "playback never attempted")
	waitFor(t, time.Second, func() bool {
		entries, _ := os.ReadDir(f.synth.dir)
		return len(entries) == 0
	}, "artifact not removed after failed playback")
}

func TestRunReloadDuringWaitAbandonsEvent(t *testing.T) {
	// The next event is half an hour out, so the loop sits in the pre-fetch
	// wait where reloads are polled.
	base := time.Date(2026, 5, 4, 14, 0, 0, 0, time.Local)
	now := advancingClock(base)
	f := newFixture(t, now, configDocument("14:30 = hour"))
	defer runManager(t, f)()

	// Let it arm, then deposit a marker pointing at an empty-schedule config.
	idle := configDocument("")
	idlePath := filepath.Join(f.dir, "idle.ini")
	if err := os.WriteFile(idlePath, []byte(idle), 0o644); err != nil {
		t.Fatalf("write idle config: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if err := f.marker.Deposit(idlePath); err != nil {
		t.Fatalf("Deposit: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool { return !f.marker.Present() }, "marker never consumed")

	if f.player.count() != 0 {
		t.Fatal("abandoned event must not play")
	}
}

func TestRunRetriesWhenConfigMissing(t *testing.T) {
	base := time.Date(2026, 5, 4, 9, 0, 0, 0, time.Local)
	now := advancingClock(base)
	f := newFixture(t, now, configDocument("14:00 = hour"))

	// Remove every config so the first load fails, then restore.
	if err := os.Remove(filepath.Join(f.dir, config.FallbackFile)); err != nil {
		t.Fatalf("remove config: %v", err)
	}
	defer runManager(t, f)()

	time.Sleep(60 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(f.dir, config.FallbackFile), []byte(configDocument("14:00 = hour")), 0o644); err != nil {
		t.Fatalf("restore config: %v", err)
	}

	// Once the config reappears the loop loads it and arms; the fetch lead
	// being 2s, a 5h-away event just sits armed. Reaching the fetch of colors
	// is not required; consuming a reload marker proves the loop recovered.
	if err := f.marker.Deposit(""); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool { return !f.marker.Present() }, "loop never recovered from missing config")
}
