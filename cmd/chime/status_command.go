package main

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"chime/internal/daemon"
	"chime/internal/reload"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether the daemon is running and a reload is pending",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureSettings()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			lockPath := filepath.Join(cfg.Paths.LogDir, daemon.LockFileName)
			lock := flock.New(lockPath)
			acquired, err := lock.TryLock()
			switch {
			case err != nil:
				fmt.Fprintf(out, "Daemon: unknown (lock probe failed: %v)\n", err)
			case acquired:
				// We got the lock, so no daemon holds it.
				_ = lock.Unlock()
				fmt.Fprintln(out, "Daemon: not running")
			default:
				fmt.Fprintln(out, "Daemon: running")
			}

			marker := reload.NewMarker(filepath.Join(cfg.Paths.DataDir, reload.MarkerFile))
			if marker.Present() {
				fmt.Fprintln(out, "Reload: pending")
			} else {
				fmt.Fprintln(out, "Reload: none pending")
			}
			return nil
		},
	}
}
