package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"chime/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Announcement configuration utilities",
	}

	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigPathCommand(ctx))

	return configCmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	var fileFlag string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the active announcement configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureSettings()
			if err != nil {
				return err
			}
			loader := &config.Loader{
				Dir:    cfg.Paths.DataDir,
				Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
			}
			snap, path, err := loader.Load(fileFlag)
			if err != nil {
				return fmt.Errorf("load announcement config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File: %s\n", path)
			fmt.Fprintf(out, "Database: %s on %s (user %s, password %s)\n",
				snap.Credentials.Database, snap.Credentials.Server,
				snap.Credentials.Username, maskSecret(snap.Credentials.Password))
			fmt.Fprintf(out, "Voice: %s (%s)\n", snap.Voice.ID, snap.Voice.OutputFormat)
			fmt.Fprintf(out, "Scheduled announcements: %d\n", len(snap.Schedule))

			if len(snap.Templates) > 0 {
				keys := make([]string, 0, len(snap.Templates))
				for key := range snap.Templates {
					keys = append(keys, key)
				}
				sort.Strings(keys)
				fmt.Fprintln(out, "Templates:")
				for _, key := range keys {
					fmt.Fprintf(out, "  %s = %s\n", key, snap.Templates[key])
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fileFlag, "file", "", "Announcement file to inspect instead of today's")
	return cmd
}

func newConfigPathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the announcement file the daemon would load right now",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureSettings()
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.Paths.DataDir, config.DayFileFor(time.Now()))
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func maskSecret(s string) string {
	if s == "" {
		return "(unset)"
	}
	return strings.Repeat("*", len(s))
}
