// Package testsupport provides shared fixtures for daemon and loop tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"chime/internal/settings"
)

// NewSettings produces settings seeded with unique temp directories per test
// and fast loop intervals.
func NewSettings(t testing.TB) *settings.Settings {
	t.Helper()

	base := t.TempDir()
	cfg := settings.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Loop.LoadRetryInterval = 1
	cfg.Loop.PollInterval = 1
	cfg.Loop.FetchLead = 1
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WriteAnnouncementConfig writes an announcement INI document into the data
// directory under the given name and returns its path.
func WriteAnnouncementConfig(t testing.TB, dataDir, name, document string) string {
	t.Helper()
	path := filepath.Join(dataDir, name)
	if err := os.WriteFile(path, []byte(document), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// MinimalDocument is a valid configuration with an empty schedule.
const MinimalDocument = `[credentials]
server = colors.db
database = parkops
username = announcer
password = pw

[voice]
voice_id = en-US-JennyNeural
`
