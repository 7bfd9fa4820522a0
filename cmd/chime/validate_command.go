package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"chime/internal/config"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var allFlag bool

	cmd := &cobra.Command{
		Use:   "validate [file...]",
		Short: "Validate announcement configuration files",
		Long: "Parses and validates the named announcement files. With no arguments the\n" +
			"current day's file is checked; --all checks every day file plus the\n" +
			"fallback, skipping the ones that do not exist.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureSettings()
			if err != nil {
				return err
			}

			targets := args
			if allFlag {
				for day := 0; day < 7; day++ {
					targets = append(targets, filepath.Join(cfg.Paths.DataDir, config.DayFile(day)))
				}
				targets = append(targets, filepath.Join(cfg.Paths.DataDir, config.FallbackFile))
			}

			loader := &config.Loader{
				Dir:    cfg.Paths.DataDir,
				Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
			}

			out := cmd.OutOrStdout()
			if len(targets) == 0 {
				snap, path, err := loader.Load("")
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: valid (%d announcements)\n", path, len(snap.Schedule))
				return nil
			}

			failed := 0
			for _, target := range targets {
				snap, path, err := loader.Load(target)
				if err != nil {
					if allFlag && errorIsNotFound(err) {
						continue
					}
					failed++
					fmt.Fprintf(out, "%s: %v\n", target, err)
					continue
				}
				fmt.Fprintf(out, "%s: valid (%d announcements)\n", path, len(snap.Schedule))
			}
			if failed > 0 {
				return fmt.Errorf("%d file(s) failed validation", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&allFlag, "all", false, "Validate every day file and the fallback")
	return cmd
}
