package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"chime/internal/config"
)

const sampleDocument = `# morning configuration
[credentials]
server = /var/lib/chime/colors.db
database = parkops
username = announcer
password = "hunter2"

[Schedule]
06:55 = :55
07:00 = hour
12:30 = custom:lunch

[templates]
fiftyfive = Five minutes left! It's {time}.
hour = Attention! It's {time}. Colors are {color1}, {color2}, {color3} and {color4}.
custom_lunch = "Lunch time!"

[voice]
voice_id = en-US-JennyNeural
output_format = MP3

[extras]
ignored = yes
`

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadParsesSectionsCaseInsensitively(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "mon.ini", sampleDocument)

	loader := &config.Loader{Dir: dir}
	snap, resolved, err := loader.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved path %q, want %q", resolved, path)
	}
	if snap.Credentials.Server != "/var/lib/chime/colors.db" {
		t.Fatalf("unexpected server: %q", snap.Credentials.Server)
	}
	if snap.Credentials.Password != "hunter2" {
		t.Fatalf("expected quotes stripped, got %q", snap.Credentials.Password)
	}
	if got := snap.Schedule["06:55"]; got != ":55" {
		t.Fatalf("schedule entry: %q", got)
	}
	if got := snap.Schedule["12:30"]; got != "custom:lunch" {
		t.Fatalf("custom schedule entry: %q", got)
	}
	if got := snap.Templates["custom_lunch"]; got != "Lunch time!" {
		t.Fatalf("custom template: %q", got)
	}
	if snap.Voice.ID != "en-US-JennyNeural" {
		t.Fatalf("voice id: %q", snap.Voice.ID)
	}
	if snap.Voice.OutputFormat != "mp3" {
		t.Fatalf("output format should be lowercased, got %q", snap.Voice.OutputFormat)
	}
}

func TestLoadRejectsMissingCredentials(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.ini", `[credentials]
server = db
database = parkops
username = announcer

[voice]
voice_id = en-US-JennyNeural
`)

	loader := &config.Loader{Dir: dir}
	_, _, err := loader.Load(path)
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestLoadEmptyScheduleIsValid(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.ini", `[credentials]
server = db
database = parkops
username = announcer
password = pw

[voice]
voice_id = en-US-JennyNeural
`)

	loader := &config.Loader{Dir: dir}
	snap, _, err := loader.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(snap.Schedule) != 0 {
		t.Fatalf("expected empty schedule, got %v", snap.Schedule)
	}
}

func TestLoadFallsBackOnceToGenericFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.ini", `[credentials]
server = db
database = parkops
username = announcer
password = pw

[voice]
voice_id = en-US-JennyNeural
`)

	loader := &config.Loader{Dir: dir}
	_, resolved, err := loader.Load(filepath.Join(dir, "tue.ini"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if filepath.Base(resolved) != config.FallbackFile {
		t.Fatalf("expected fallback, resolved %q", resolved)
	}
}

func TestLoadFailsWhenFallbackAlsoMissing(t *testing.T) {
	loader := &config.Loader{Dir: t.TempDir()}
	_, _, err := loader.Load("")
	if !errors.Is(err, config.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadDerivesWeekdayFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "wed.ini", sampleDocument)

	// 2026-01-07 is a Wednesday.
	loader := &config.Loader{
		Dir: dir,
		Now: func() time.Time { return time.Date(2026, 1, 7, 9, 0, 0, 0, time.Local) },
	}
	_, resolved, err := loader.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if filepath.Base(resolved) != "wed.ini" {
		t.Fatalf("resolved %q, want wed.ini", resolved)
	}
}

type fakeMarker struct {
	content string
	present bool
	err     error
	taken   int
}

func (m *fakeMarker) Take() (string, bool, error) {
	m.taken++
	return m.content, m.present, m.err
}

func TestLoadMarkerOverridesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "mon.ini", sampleDocument)
	override := writeConfig(t, dir, "special.ini", sampleDocument)

	marker := &fakeMarker{content: override, present: true}
	loader := &config.Loader{Dir: dir, Marker: marker}
	_, resolved, err := loader.Load(filepath.Join(dir, "mon.ini"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != override {
		t.Fatalf("resolved %q, want marker override %q", resolved, override)
	}
	if marker.taken != 1 {
		t.Fatalf("marker taken %d times", marker.taken)
	}
}

func TestLoadMarkerWithBadTargetFallsBackToExplicit(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "mon.ini", sampleDocument)

	marker := &fakeMarker{content: filepath.Join(dir, "nope.ini"), present: true}
	loader := &config.Loader{Dir: dir, Marker: marker}
	_, resolved, err := loader.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved %q, want explicit %q", resolved, path)
	}
}

func TestDayFileTotalAndDistinct(t *testing.T) {
	seen := make(map[string]int)
	for day := 0; day < 7; day++ {
		name := config.DayFile(day)
		if name == "" || name == config.FallbackFile {
			t.Fatalf("day %d mapped to %q", day, name)
		}
		seen[name]++
	}
	if len(seen) != 7 {
		t.Fatalf("expected 7 distinct filenames, got %v", seen)
	}
	if config.DayFile(-1) != config.FallbackFile || config.DayFile(7) != config.FallbackFile {
		t.Fatal("out-of-range weekday must map to the fallback")
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	snap := config.New()
	snap.Credentials = config.Credentials{Server: "db", Database: "parkops", Username: "announcer", Password: "pw"}
	snap.Schedule["09:55"] = ":55"
	snap.Schedule["10:00"] = "hour"
	snap.Schedule["15:45"] = "custom:closing"
	snap.Templates["fiftyfive"] = "Five minutes! It's {time}."
	snap.Templates["hour"] = "It's {time}. Current colors: {color1} {color2} {color3} {color4}."
	snap.Templates["custom_closing"] = "The park closes soon."
	snap.Voice = config.Voice{ID: "en-US-JennyNeural", OutputFormat: "mp3"}

	path := filepath.Join(dir, "config.ini")
	if err := config.Write(path, snap); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	loader := &config.Loader{Dir: dir}
	got, _, err := loader.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if len(got.Schedule) != len(snap.Schedule) {
		t.Fatalf("schedule length mismatch: %v vs %v", got.Schedule, snap.Schedule)
	}
	for at, tag := range snap.Schedule {
		if got.Schedule[at] != tag {
			t.Fatalf("schedule[%s] = %q, want %q", at, got.Schedule[at], tag)
		}
	}
	for key, tpl := range snap.Templates {
		if got.Templates[key] != tpl {
			t.Fatalf("templates[%s] = %q, want %q", key, got.Templates[key], tpl)
		}
	}
	if got.Voice != snap.Voice {
		t.Fatalf("voice %+v, want %+v", got.Voice, snap.Voice)
	}
}
