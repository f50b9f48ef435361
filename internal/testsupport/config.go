package testsupport

import (
	"path/filepath"
	"testing"

	"curriculum/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ContentDir = filepath.Join(base, "content")
	cfgVal.Paths.ResourceDir = filepath.Join(base, "public", "resources")
	cfgVal.Paths.Database = filepath.Join(base, "catalog.db")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithDefaultLanguages sets the configured fallback languages.
func WithDefaultLanguages(languages ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Import.DefaultLanguages = append([]string(nil), languages...)
	}
}

// WithDefaultReward overrides the configured fallback reward.
func WithDefaultReward(reward int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Import.DefaultReward = reward
	}
}

// WithContentTree writes files under the content directory. Keys are
// slash-separated paths relative to the content root.
func WithContentTree(files map[string]string) ConfigOption {
	return func(b *configBuilder) {
		WriteTree(b.t, b.cfg.Paths.ContentDir, files)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.ContentDir)
}
