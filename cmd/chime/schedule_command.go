package main

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"chime/internal/config"
	"chime/internal/render"
	"chime/internal/schedule"
)

func newScheduleCommand(ctx *commandContext) *cobra.Command {
	var dayFlag string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show the announcement schedule for today",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureSettings()
			if err != nil {
				return err
			}

			// No marker store here: inspecting the schedule must not
			// consume a reload intended for the daemon.
			loader := &config.Loader{
				Dir:    cfg.Paths.DataDir,
				Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
			}
			snap, path, err := loader.Load(dayFlag)
			if err != nil {
				return fmt.Errorf("load announcement config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Schedule from %s\n", path)
			if len(snap.Schedule) == 0 {
				fmt.Fprintln(out, "No announcements scheduled")
				return nil
			}

			now := time.Now()
			next, hasNext := schedule.Next(snap.Schedule, now, loader.Logger)

			times := make([]string, 0, len(snap.Schedule))
			for at := range snap.Schedule {
				times = append(times, at)
			}
			sort.Strings(times)

			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(times))
			for _, at := range times {
				tag := snap.Schedule[at]
				display := at
				if hasNext && next.At.Format("15:04") == at {
					display = highlight(at, colorize)
				}
				rows = append(rows, []string{
					display,
					render.To12Hour(at),
					tag,
					render.TemplateKey(tag),
				})
			}

			fmt.Fprintln(out, renderTable([]string{"Time", "Clock", "Tag", "Template"}, rows))
			if hasNext {
				fmt.Fprintf(out, "Next announcement at %s\n", next.At.Format("3:04 PM"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dayFlag, "file", "", "Announcement file to inspect instead of today's")
	return cmd
}
