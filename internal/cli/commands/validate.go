package commands

import (
	"fmt"

	"github.com/inovexcorp/d2rq/pkg/core"
	"github.com/spf13/cobra"
)

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	Compile bool   // Also compile the rules and check columns
	Format  string // Output format
}

// validationReport is the structured result of the validate command.
type validationReport struct {
	Mapping           string `json:"mapping" yaml:"mapping"`
	File              string `json:"file" yaml:"file"`
	Valid             bool   `json:"valid" yaml:"valid"`
	Kind              string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Error             string `json:"error,omitempty" yaml:"error,omitempty"`
	Databases         int    `json:"databases" yaml:"databases"`
	ClassMaps         int    `json:"class_maps" yaml:"class_maps"`
	TranslationTables int    `json:"translation_tables" yaml:"translation_tables"`
	Rules             int    `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}
	cmd := &cobra.Command{
		Use:   "validate [mapping-file]",
		Short: "Validate a mapping file",
		Long: `Validate the databases, translation tables and class maps of a mapping.

With --compile the class maps are also compiled into projection rules and
every column they read is checked against the database. This connects to
each database whose columns are not all declared in the mapping.`,
		Example: `  # Validate the mapping configured in d2rq.yaml
  d2rq validate

  # Validate and type-check a mapping file
  d2rq validate shop.yaml --compile`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Compile, "compile", false, "Compile rules and check column types")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, yaml")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string, opts *ValidateOptions) error {
	cc := NewCommandContext(cmd)
	m, path, err := cc.LoadMapping(args)
	if err != nil {
		return err
	}
	defer closeConnections(m)

	report := validationReport{
		Mapping:           string(m.Resource()),
		File:              path,
		Databases:         len(m.Databases()),
		ClassMaps:         len(m.ClassMapResources()),
		TranslationTables: len(m.TranslationTables()),
	}

	err = m.Validate()
	if err == nil && opts.Compile {
		rs, cerr := m.CompiledRules(cmd.Context())
		if cerr == nil {
			report.Rules = rs.Len()
		}
		err = cerr
	}
	report.Valid = err == nil
	if err != nil {
		report.Kind = core.KindOf(err).String()
		report.Error = err.Error()
	}

	w := cmd.OutOrStdout()
	if format := cc.Format(cmd); format != FormatText {
		if werr := writeStructured(w, format, report); werr != nil {
			return werr
		}
	} else if report.Valid {
		_, _ = fmt.Fprintf(w, "%s is valid\n", path)
		_, _ = fmt.Fprintf(w, "  databases:          %d\n", report.Databases)
		_, _ = fmt.Fprintf(w, "  translation tables: %d\n", report.TranslationTables)
		_, _ = fmt.Fprintf(w, "  class maps:         %d\n", report.ClassMaps)
		if opts.Compile {
			_, _ = fmt.Fprintf(w, "  rules:              %d\n", report.Rules)
		}
	}

	if err != nil {
		cc.Logger.Debug("mapping is invalid", "file", path, "kind", report.Kind)
		return fmt.Errorf("%s is invalid (%s): %w", path, report.Kind, err)
	}
	return nil
}
