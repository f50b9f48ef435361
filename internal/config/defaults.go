package config

const (
	defaultConfigPath  = "~/.config/curriculum/config.toml"
	projectConfigName  = "curriculum.toml"
	defaultContentDir  = "~/curriculum"
	defaultResourceDir = "~/.local/share/curriculum/public/resources"
	defaultResourceURL = "/static/resources"
	defaultDatabase    = "~/.local/share/curriculum/catalog.db"
	defaultLogDir      = "~/.local/share/curriculum/logs"
	defaultReward      = 10
	defaultStarWeight  = 1
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
	contentDirEnv      = "CURRICULUM_CONTENT_DIR"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ContentDir:  defaultContentDir,
			ResourceDir: defaultResourceDir,
			ResourceURL: defaultResourceURL,
			Database:    defaultDatabase,
			LogDir:      defaultLogDir,
		},
		Import: Import{
			DefaultReward:    defaultReward,
			DefaultLanguages: []string{},
			StarWeight:       defaultStarWeight,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
