package settings

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// DataDir holds the announcement INI files, the reload marker, and
	// transient audio artifacts.
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Logging contains log output configuration.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// TTS contains the speech synthesis endpoint configuration.
type TTS struct {
	Endpoint       string `toml:"endpoint"`
	APIKey         string `toml:"api_key"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Player contains audio playback configuration.
type Player struct {
	Binary string `toml:"binary"`
}

// Colors contains auxiliary color store tunables.
type Colors struct {
	PrinterGroup    int `toml:"printer_group"`
	RotationMinutes int `toml:"rotation_minutes"`
	BusyTimeout     int `toml:"busy_timeout"`
}

// Loop contains announcement loop timing, in seconds.
type Loop struct {
	LoadRetryInterval int    `toml:"load_retry_interval"`
	PollInterval      int    `toml:"poll_interval"`
	FetchLead         int    `toml:"fetch_lead"`
	RolloverTime      string `toml:"rollover_time"`
	PostAnnouncePause int    `toml:"post_announce_pause"`
}

// Settings encapsulates all daemon configuration values.
type Settings struct {
	Paths   Paths   `toml:"paths"`
	Logging Logging `toml:"logging"`
	TTS     TTS     `toml:"tts"`
	Player  Player  `toml:"player"`
	Colors  Colors  `toml:"colors"`
	Loop    Loop    `toml:"loop"`
}

// DefaultPath returns the default settings file location.
func DefaultPath() (string, error) {
	return expandPath("~/.config/chime/config.toml")
}

// Load locates, parses, and validates a settings file. A missing file yields
// defaults. Path fields come back expanded.
func Load(path string) (*Settings, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolvePath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open settings: %w", err)
		}
		defer file.Close()

		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse settings: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

// Validate checks field-level invariants.
func (s *Settings) Validate() error {
	if s.Paths.DataDir == "" {
		return errors.New("settings: data_dir must not be empty")
	}
	if s.Loop.LoadRetryInterval <= 0 || s.Loop.PollInterval <= 0 || s.Loop.FetchLead <= 0 {
		return errors.New("settings: loop intervals must be positive")
	}
	switch s.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("settings: unsupported log format %q", s.Logging.Format)
	}
	return nil
}

// EnsureDirectories creates the data and log directories.
func (s *Settings) EnsureDirectories() error {
	for _, dir := range []string{s.Paths.DataDir, s.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// WriteSample writes the embedded sample settings file to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("settings file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

func (s *Settings) normalize() error {
	var err error
	if s.Paths.DataDir, err = expandPath(s.Paths.DataDir); err != nil {
		return err
	}
	if s.Paths.LogDir, err = expandPath(s.Paths.LogDir); err != nil {
		return err
	}
	s.Logging.Format = strings.ToLower(strings.TrimSpace(s.Logging.Format))
	if s.Logging.Format == "" {
		s.Logging.Format = defaultLogFormat
	}
	if s.Loop.RolloverTime == "" {
		s.Loop.RolloverTime = defaultRolloverTime
	}
	return nil
}

func resolvePath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat settings: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
