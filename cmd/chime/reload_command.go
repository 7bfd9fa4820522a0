package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"chime/internal/reload"
)

func newReloadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reload [config-file]",
		Short: "Ask the running daemon to reload its announcement schedule",
		Long: "Deposits a reload marker in the data directory. The daemon consumes the\n" +
			"marker before its next announcement. An optional config-file argument\n" +
			"makes the daemon load that file instead of the current day's file.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureSettings()
			if err != nil {
				return err
			}
			target := ""
			if len(args) == 1 {
				target = args[0]
			}
			marker := reload.NewMarker(filepath.Join(cfg.Paths.DataDir, reload.MarkerFile))
			if err := marker.Deposit(target); err != nil {
				return fmt.Errorf("deposit reload marker: %w", err)
			}
			out := cmd.OutOrStdout()
			if target != "" {
				fmt.Fprintf(out, "Reload requested; daemon will switch to %s\n", target)
			} else {
				fmt.Fprintln(out, "Reload requested")
			}
			return nil
		},
	}
}
