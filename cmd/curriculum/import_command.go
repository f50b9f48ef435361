package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"curriculum/internal/catalog"
	"curriculum/internal/config"
	"curriculum/internal/curriculum"
	"curriculum/internal/importer"
	"curriculum/internal/logging"
	"curriculum/internal/resources"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var strict bool

	cmd := &cobra.Command{
		Use:   "import [root]",
		Short: "Import a content tree into the catalog",
		Long: "Import walks every track directory under root (default: paths.content_dir),\n" +
			"renders descriptions, stores referenced resources, resolves mission\n" +
			"prerequisites, and saves the result to the catalog.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root := cfg.Paths.ContentDir
			if len(args) == 1 {
				if root, err = config.ExpandPath(strings.TrimSpace(args[0])); err != nil {
					return fmt.Errorf("resolve root: %w", err)
				}
			}
			logger, err := ctx.logger()
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}

			return ctx.withCatalog(func(store *catalog.Store) error {
				unlock, err := importer.AcquireLock(cfg.LockPath())
				if err != nil {
					return err
				}
				defer unlock()

				run, err := store.BeginRun(cmd.Context(), root, dryRun)
				if err != nil {
					return err
				}
				runCtx := logging.WithRunID(cmd.Context(), run.ID)

				var repo curriculum.Repository = store
				opts := []importer.Option{
					importer.WithLogger(logger),
					importer.WithOutput(cmd.OutOrStdout()),
				}
				if dryRun {
					repo = &curriculum.MemoryRepository{}
					opts = append(opts, importer.WithStore(resources.NewStore(
						cfg.Paths.ResourceDir,
						cfg.Paths.ResourceURL,
						resources.WithDryRun(),
						resources.WithLogger(logger),
					)))
				}

				result, err := importer.New(cfg, repo, opts...).Run(runCtx, root)
				if err != nil {
					// Record the end of the run even when canceled.
					if finishErr := store.FinishRun(context.WithoutCancel(cmd.Context()), run); finishErr != nil {
						logger.Warn("finish import run failed", logging.Error(finishErr))
					}
					return err
				}

				run.Tracks = len(result.Tracks)
				run.Missions = len(result.Missions)
				run.Resources = result.Resources.Stored
				run.Errors = result.Errors()
				run.Warnings = result.Warnings()
				if err := store.FinishRun(cmd.Context(), run); err != nil {
					return err
				}

				renderDiagnostics(cmd.ErrOrStderr(), result.Diagnostics)
				fmt.Fprintln(cmd.OutOrStdout(), renderTotals(importTitle(dryRun), importTotals(run, result)))

				if strict && run.Errors > 0 {
					return fmt.Errorf("import finished with %d error(s)", run.Errors)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Build and validate without saving content or storing resources (the run is still recorded)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any error diagnostic was reported")
	return cmd
}

func importTitle(dryRun bool) string {
	if dryRun {
		return "Import (dry run)"
	}
	return "Import"
}

func importTotals(run *catalog.Run, result *importer.Result) [][2]string {
	stats := result.Resources
	return [][2]string{
		{"Run", run.ID},
		{"Tracks", strconv.Itoa(run.Tracks)},
		{"Missions", strconv.Itoa(run.Missions)},
		{"Resources stored", strconv.Itoa(stats.Stored)},
		{"References rewritten", strconv.Itoa(stats.Rewritten)},
		{"References untouched", strconv.Itoa(stats.Untouched)},
		{"References missing", strconv.Itoa(stats.Missing)},
		{"References rejected", strconv.Itoa(stats.Rejected)},
		{"Errors", strconv.Itoa(run.Errors)},
		{"Warnings", strconv.Itoa(run.Warnings)},
		{"Duration", result.Duration.Round(time.Millisecond).String()},
	}
}
