package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"chime/internal/logging"
	"chime/internal/settings"
)

func main() {
	configFlag := flag.String("config", "", "settings file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := settings.Load(*configFlag)
	if err != nil {
		log.Fatalf("load settings: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromSettings(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	d, err := buildDaemon(cfg, logger)
	if err != nil {
		logger.Error("create daemon", "error", err)
		os.Exit(1)
	}

	done, err := d.Start(ctx)
	if err != nil {
		logger.Error("start daemon", "error", err)
		os.Exit(1)
	}

	select {
	case <-ctx.Done():
		logger.Info("chimed shutting down")
	case <-done:
	}
	d.Stop()

	if err := d.Err(); err != nil {
		logger.Error("announcement loop failed", "error", err)
		os.Exit(1)
	}
}
