// Package cli provides the command-line interface for d2rq.
package cli

import (
	"fmt"
	"io"

	"github.com/inovexcorp/d2rq/internal/cli/commands"
	"github.com/inovexcorp/d2rq/internal/config"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// rootState is the per-invocation state shared by the root command hooks.
type rootState struct {
	cfgFile   string
	logCloser io.Closer
}

// closeLog closes the log file sink, if one was opened.
func (s *rootState) closeLog() error {
	if s.logCloser == nil {
		return nil
	}
	err := s.logCloser.Close()
	s.logCloser = nil
	return err
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	cmd, _ := newRootCmd()
	return cmd
}

func newRootCmd() (*cobra.Command, *rootState) {
	st := &rootState{}

	rootCmd := &cobra.Command{
		Use:   "d2rq",
		Short: "d2rq - relational to RDF mapping compiler",
		Long: `d2rq reads a mapping that describes how the rows of relational databases
are exposed as RDF resources, validates it, and compiles it into projection
rules that are checked against the database catalog.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(st.cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			logger, closer, err := config.NewLogger(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			st.logCloser = closer

			ctx := config.WithConfig(cmd.Context(), cfg)
			ctx = config.WithLogger(ctx, logger)
			cmd.SetContext(ctx)

			if cfg.Verbose && cfg.File != "" {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", cfg.File)
			}
			logger.Debug("configuration loaded",
				"file", cfg.File,
				"mapping", cfg.Mapping,
				"drivers", cfg.Drivers)
			return nil
		},
		// Not run when a command fails; execute closes the log then.
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return st.closeLog()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&st.cfgFile, "config", "", "config file (default: ./d2rq.yaml)")
	rootCmd.PersistentFlags().StringP("mapping", "m", "", "Path to the mapping file")
	rootCmd.PersistentFlags().StringSlice("drivers", nil, "Drivers to preload (default: all bundled drivers)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (text|json|yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text|json)")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to a rotating file instead of stderr")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewRulesCommand())
	rootCmd.AddCommand(commands.NewDriversCommand())

	return rootCmd, st
}

// Execute runs the root command.
func Execute() error {
	rootCmd, st := newRootCmd()
	return execute(rootCmd, st)
}

// execute runs rootCmd and closes its log file on every path.
func execute(rootCmd *cobra.Command, st *rootState) error {
	err := rootCmd.Execute()
	if cerr := st.closeLog(); cerr != nil && err == nil {
		err = fmt.Errorf("failed to close log file: %w", cerr)
	}
	if err != nil {
		_, _ = fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}
