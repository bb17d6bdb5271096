package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// InvalidConfigError reports a configuration value that failed validation.
type InvalidConfigError struct {
	Key   string
	Value any
	Rule  string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s=%v violates %q", e.Key, e.Value, e.Rule)
}

// Loaded is a configuration together with where it came from.
type Loaded struct {
	*Config
	// File is the config file that was read, empty if none.
	File string
}

// findConfigFile finds the config file to use.
// Priority: explicit path > d2rq.yaml > d2rq.yml > .d2rq.yaml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range ConfigFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// configKey maps a flat kebab or snake case name to a config key:
// "log-level" and "log_level" both become "log.level".
func configKey(name string) string {
	key := strings.ToLower(strings.ReplaceAll(name, "-", "_"))
	if rest, ok := strings.CutPrefix(key, "log_"); ok {
		return "log." + rest
	}
	return key
}

// Load loads configuration from defaults, file, environment and flags.
// Precedence (highest to lowest): flags > env vars > .env > config file > defaults
func Load(cfgFile string, flags *pflag.FlagSet) (*Loaded, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. .env never overrides variables already set in the environment.
	if _, err := os.Stat(EnvFile); err == nil {
		if err := godotenv.Load(EnvFile); err != nil {
			return nil, fmt.Errorf("error reading %s: %w", EnvFile, err)
		}
	}

	// 4. Environment variables: D2RQ_LOG_LEVEL -> log.level
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return configKey(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 5. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return configKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Loaded{Config: &cfg, File: used}, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &InvalidConfigError{Key: configKey(strings.TrimPrefix(fe.Namespace(), "Config.")), Value: fe.Value(), Rule: fe.Tag()}
	}
	return err
}
