package main

import (
	"log/slog"
	"path/filepath"
	"time"

	"chime/internal/announce"
	"chime/internal/colors"
	"chime/internal/config"
	"chime/internal/daemon"
	"chime/internal/playback"
	"chime/internal/reload"
	"chime/internal/settings"
	"chime/internal/speech"
)

// buildDaemon assembles the announcement pipeline from settings. Every
// component shares the one logger and the one reload coordinator.
func buildDaemon(cfg *settings.Settings, logger *slog.Logger) (*daemon.Daemon, error) {
	marker := reload.NewMarker(filepath.Join(cfg.Paths.DataDir, reload.MarkerFile))
	coord := reload.NewCoordinator(marker, logger)

	rollover, err := reload.NewRolloverTimer(coord, cfg.Loop.RolloverTime, logger)
	if err != nil {
		return nil, err
	}

	loader := &config.Loader{
		Dir:    cfg.Paths.DataDir,
		Marker: marker,
		Logger: logger,
	}

	source := &colors.SQLSource{
		PrinterGroup:    cfg.Colors.PrinterGroup,
		RotationMinutes: cfg.Colors.RotationMinutes,
		BusyTimeout:     time.Duration(cfg.Colors.BusyTimeout) * time.Second,
	}
	fetcher := colors.NewFetcher(source, logger)

	synth := speech.NewHTTPService(
		cfg.TTS.Endpoint,
		cfg.TTS.APIKey,
		cfg.Paths.DataDir,
		time.Duration(cfg.TTS.RequestTimeout)*time.Second,
		logger,
	)

	player := playback.NewMPG123(cfg.Player.Binary, logger)

	manager, err := announce.NewManager(announce.Params{
		Loader:            loader,
		Coordinator:       coord,
		Fetcher:           fetcher,
		Synthesizer:       synth,
		Player:            player,
		Logger:            logger,
		LoadRetryInterval: time.Duration(cfg.Loop.LoadRetryInterval) * time.Second,
		PollInterval:      time.Duration(cfg.Loop.PollInterval) * time.Second,
		FetchLead:         time.Duration(cfg.Loop.FetchLead) * time.Second,
		PostAnnouncePause: time.Duration(cfg.Loop.PostAnnouncePause) * time.Second,
	})
	if err != nil {
		return nil, err
	}

	return daemon.New(cfg, manager, rollover, logger)
}
