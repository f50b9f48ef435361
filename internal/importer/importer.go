package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"curriculum/internal/config"
	"curriculum/internal/curriculum"
	"curriculum/internal/diag"
	"curriculum/internal/logging"
	"curriculum/internal/markdown"
	"curriculum/internal/resources"
)

// Layout file names.
const (
	TrackDescription   = "track.md"
	TrackConfig        = "track.ini"
	MissionDescription = "mission.md"
	MissionConfig      = "config.ini"
	MissionTests       = "tests.txt"
)

// Star labels attached when a mission sets a goal.
const (
	TimeStarLabel = "Fast solution"
	SizeStarLabel = "Short solution"
)

// ErrLocked reports that another import holds the catalog lock.
var ErrLocked = errors.New("another import is running")

// Option customizes an Importer.
type Option func(*Importer)

// WithLogger sets the logger used for progress and diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithStore overrides the resource store built from the config.
func WithStore(store *resources.Store) Option {
	return func(i *Importer) {
		i.store = store
	}
}

// WithLock makes Run hold an exclusive advisory lock on path.
func WithLock(path string) Option {
	return func(i *Importer) {
		i.lockPath = path
	}
}

// WithOutput streams per-mission summaries to w as they are saved.
func WithOutput(w io.Writer) Option {
	return func(i *Importer) {
		i.out = w
	}
}

// Importer runs imports against a repository.
type Importer struct {
	cfg      *config.Config
	repo     curriculum.Repository
	store    *resources.Store
	renderer *markdown.Renderer
	logger   *slog.Logger
	lockPath string
	out      io.Writer
}

// Result summarizes one run.
type Result struct {
	Root        string
	Tracks      []*curriculum.Track
	Missions    []*curriculum.Mission
	Summaries   []string
	Diagnostics []diag.Entry
	Resources   resources.Stats
	Duration    time.Duration
}

// Errors returns the number of error diagnostics.
func (r *Result) Errors() int {
	return countSeverity(r.Diagnostics, diag.SeverityError)
}

// Warnings returns the number of warning diagnostics.
func (r *Result) Warnings() int {
	return countSeverity(r.Diagnostics, diag.SeverityWarning)
}

func countSeverity(entries []diag.Entry, severity diag.Severity) int {
	n := 0
	for _, e := range entries {
		if e.Severity == severity {
			n++
		}
	}
	return n
}

// New constructs an importer writing to repo. Unless WithStore is given,
// resources go to the configured resource directory and URL.
func New(cfg *config.Config, repo curriculum.Repository, opts ...Option) *Importer {
	i := &Importer{
		cfg:      cfg,
		repo:     repo,
		renderer: markdown.NewRenderer(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.logger = logging.NewComponentLogger(i.logger, "importer")
	if i.store == nil {
		i.store = resources.NewStore(
			cfg.Paths.ResourceDir,
			cfg.Paths.ResourceURL,
			resources.WithLockPath(cfg.ResourceLockPath()),
			resources.WithLogger(i.logger),
		)
	}
	return i
}

// Run imports every track directory under root. An empty root selects the
// configured content directory.
func (i *Importer) Run(ctx context.Context, root string) (*Result, error) {
	if root == "" {
		root = i.cfg.Paths.ContentDir
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	if i.lockPath != "" {
		unlock, err := AcquireLock(i.lockPath)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read root: %w", err)
	}

	started := time.Now()
	logger := logging.WithContext(ctx, i.logger)
	logger.Info("import started", logging.String("root", root), logging.String("resources", i.store.Root()))

	state := &run{
		importer: i,
		diags:    diag.NewCollector(i.logger),
		result:   &Result{Root: root},
		tracks:   make(map[string]string),
	}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("import canceled: %w", err)
		}
		if !entry.IsDir() {
			continue
		}
		if err := state.importTrack(ctx, filepath.Join(root, entry.Name())); err != nil {
			return nil, err
		}
	}

	result := state.result
	result.Diagnostics = state.diags.Entries()
	result.Resources = i.store.Stats()
	result.Duration = time.Since(started)
	level := slog.LevelInfo
	if state.diags.HasErrors() {
		level = slog.LevelWarn
	}
	logger.Log(
		ctx,
		level,
		"import finished",
		logging.Int("tracks", len(result.Tracks)),
		logging.Int("missions", len(result.Missions)),
		logging.Int("errors", result.Errors()),
		logging.Int("warnings", result.Warnings()),
		logging.Duration("duration", result.Duration),
	)
	return result, nil
}

// AcquireLock takes the exclusive import lock at path without blocking. It
// returns an error wrapping ErrLocked when another import holds it.
func AcquireLock(path string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrLocked)
	}
	return func() {
		_ = lock.Unlock()
	}, nil
}

// run carries the state of a single Run call.
type run struct {
	importer *Importer
	diags    *diag.Collector
	result   *Result
	// tracks maps track IDs to the directory that claimed them.
	tracks map[string]string
}
