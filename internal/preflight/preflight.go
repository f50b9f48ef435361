package preflight

import (
	"curriculum/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	return []Result{
		CheckContentRoot("Content directory", cfg.Paths.ContentDir),
		CheckWritableTarget("Resource store", cfg.Paths.ResourceDir),
		CheckWritableTarget("Catalog", cfg.Paths.Database),
		CheckWritableTarget("Log directory", cfg.Paths.LogDir),
		CheckImportLock("Import lock", cfg.LockPath()),
	}
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
