// Package logging assembles structured slog loggers and formatting helpers used
// across the importer.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so import code can automatically
// tag log lines with the run ID, track, and mission being processed. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
package logging
