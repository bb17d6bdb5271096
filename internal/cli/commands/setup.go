// Package commands implements the d2rq subcommands.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/inovexcorp/d2rq/internal/config"
	"github.com/inovexcorp/d2rq/internal/loader"
	"github.com/inovexcorp/d2rq/pkg/driver"
	"github.com/inovexcorp/d2rq/pkg/drivers/all"
	"github.com/inovexcorp/d2rq/pkg/mapping"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg     *config.Loaded
	Logger  *slog.Logger
	Drivers *driver.Registry
}

// NewCommandContext creates a CommandContext from the command's context.
// The driver registry is preloaded with the configured drivers, or with
// every bundled driver when none are configured.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	drivers := driver.NewRegistry(nil, logger)
	preload := cfg.Drivers
	if len(preload) == 0 {
		preload = all.Defaults
	}
	for _, name := range preload {
		drivers.RegisterIfPresent(name)
	}

	return &CommandContext{Cfg: cfg, Logger: logger, Drivers: drivers}
}

// LoadMapping loads the mapping named by args, or the configured mapping
// file when args is empty.
func (c *CommandContext) LoadMapping(args []string) (*mapping.Mapping, string, error) {
	path := c.Cfg.Mapping
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return nil, "", fmt.Errorf("no mapping file given\nHint: pass it as an argument, use --mapping, or set mapping in d2rq.yaml")
	}
	m, err := loader.New(c.Drivers, c.Logger).Load(path)
	if err != nil {
		return nil, path, err
	}
	return m, path, nil
}

// Format returns the output format, preferring a command-local flag.
func (c *CommandContext) Format(cmd *cobra.Command) string {
	if f := cmd.Flags().Lookup("format"); f != nil && f.Changed {
		return f.Value.String()
	}
	return c.Cfg.Output
}
