package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"curriculum/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that configured paths are usable for an import",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cfg)
			colorize := shouldColorize(cmd.OutOrStdout())
			out := cmd.OutOrStdout()
			for _, result := range results {
				status, color := "ok", ""
				if !result.Passed {
					status, color = "FAIL", ansiRed
				}
				line := fmt.Sprintf("%-4s %-18s %s", status, result.Name, result.Detail)
				if colorize && color != "" {
					line = color + line + ansiReset
				}
				fmt.Fprintln(out, line)
			}
			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d check(s) failed", len(failed))
			}
			return nil
		},
	}
}
