package app

import "errors"

// Config holds everything the CLI hands to an App instance.
type Config struct {
	ConfigPath string   // shell configuration file (hcl)
	JarPaths   []string // explicit dependency archives from -j/--jar

	// Log overrides; empty means "use the config file's log block".
	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config before the App is built.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
