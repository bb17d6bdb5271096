// Package config provides the configuration of the d2rq command line.
//
// Values are layered, lowest to highest precedence: built-in defaults,
// the config file (d2rq.yaml), a .env file, D2RQ_ environment variables
// and command line flags.
package config

// Config holds all CLI configuration options.
type Config struct {
	// Mapping is the path of the mapping file to operate on.
	Mapping string `koanf:"mapping"`

	// Drivers are preloaded into the driver registry so that connection
	// strings without an explicit driver can be matched.
	Drivers []string `koanf:"drivers"`

	Output  string    `koanf:"output" validate:"oneof=text json yaml"`
	Verbose bool      `koanf:"verbose"`
	Log     LogConfig `koanf:"log"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`

	// File, when set, receives log output instead of stderr and is rotated
	// by size.
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `koanf:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `koanf:"max_age_days" validate:"gte=0"`
	Compress   bool   `koanf:"compress"`
}
