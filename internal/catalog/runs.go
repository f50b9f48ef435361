package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run records one invocation of the importer.
type Run struct {
	ID         string
	Root       string
	DryRun     bool
	StartedAt  time.Time
	FinishedAt *time.Time
	Tracks     int
	Missions   int
	Resources  int
	Errors     int
	Warnings   int
}

// BeginRun inserts a new run for root with a fresh UUID.
func (s *Store) BeginRun(ctx context.Context, root string, dryRun bool) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Root:      root,
		DryRun:    dryRun,
		StartedAt: time.Now().UTC(),
	}
	err := s.execWithRetry(ctx,
		`INSERT INTO import_runs (id, root, dry_run, started_at) VALUES (?, ?, ?, ?)`,
		run.ID,
		run.Root,
		boolToInt(run.DryRun),
		run.StartedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("begin run: %w", err)
	}
	return run, nil
}

// FinishRun stamps the run's completion time and stores its counters.
func (s *Store) FinishRun(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("run is nil")
	}
	finished := time.Now().UTC()
	run.FinishedAt = &finished
	err := s.execWithRetry(ctx,
		`UPDATE import_runs
         SET finished_at = ?, tracks = ?, missions = ?, resources = ?, errors = ?, warnings = ?
         WHERE id = ?`,
		nullableTime(run.FinishedAt),
		run.Tracks,
		run.Missions,
		run.Resources,
		run.Errors,
		run.Warnings,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns the most recent runs first. A non-positive limit returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT id, root, dry_run, started_at, finished_at, tracks, missions, resources, errors, warnings
        FROM import_runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var (
			run         Run
			dryRun      int
			startedRaw  string
			finishedRaw sql.NullString
		)
		if err := rows.Scan(
			&run.ID,
			&run.Root,
			&dryRun,
			&startedRaw,
			&finishedRaw,
			&run.Tracks,
			&run.Missions,
			&run.Resources,
			&run.Errors,
			&run.Warnings,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.DryRun = dryRun != 0
		if started, err := parseTimeString(startedRaw); err == nil {
			run.StartedAt = started
		}
		if finishedRaw.Valid {
			if finished, err := parseTimeString(finishedRaw.String); err == nil {
				run.FinishedAt = &finished
			}
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}
