package config

// Default configuration values.
const (
	DefaultOutput     = "text"
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 28
)

// ConfigFileNames are searched in the working directory, in order, when
// no config file is given explicitly.
var ConfigFileNames = []string{"d2rq.yaml", "d2rq.yml", ".d2rq.yaml"}

// EnvFile is loaded into the process environment when present.
const EnvFile = ".env"

// EnvPrefix prefixes every configuration environment variable.
const EnvPrefix = "D2RQ_"

func defaults() map[string]any {
	return map[string]any{
		"output":           DefaultOutput,
		"verbose":          false,
		"log.level":        DefaultLogLevel,
		"log.format":       DefaultLogFormat,
		"log.max_size_mb":  DefaultMaxSizeMB,
		"log.max_backups":  DefaultMaxBackups,
		"log.max_age_days": DefaultMaxAgeDays,
	}
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		Output: DefaultOutput,
		Log: LogConfig{
			Level:      DefaultLogLevel,
			Format:     DefaultLogFormat,
			MaxSizeMB:  DefaultMaxSizeMB,
			MaxBackups: DefaultMaxBackups,
			MaxAgeDays: DefaultMaxAgeDays,
		},
	}
}
