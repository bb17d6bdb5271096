package commands

import (
	"fmt"
	"strings"

	"github.com/inovexcorp/d2rq/internal/loader"
	"github.com/inovexcorp/d2rq/pkg/mapping"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	ClassMap string // Filter by class map
	Format   string // Output format
}

// ruleInfo is the printable form of a compiled rule.
type ruleInfo struct {
	ClassMap    string   `json:"class_map" yaml:"class_map"`
	Subject     string   `json:"subject" yaml:"subject"`
	Property    string   `json:"property" yaml:"property"`
	Object      string   `json:"object" yaml:"object"`
	Translation string   `json:"translation,omitempty" yaml:"translation,omitempty"`
	Database    string   `json:"database" yaml:"database"`
	Attributes  []string `json:"attributes" yaml:"attributes"`

	Translations []loader.Translation `json:"translations,omitempty" yaml:"translations,omitempty"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [mapping-file]",
		Short: "List the compiled projection rules of a mapping",
		Long: `Compile a mapping and list its projection rules.

Each rule produces one property of the resources of a class map. Compiling
checks every column a rule reads against the database, so the command fails
on the first unknown column.`,
		Example: `  # List all rules
  d2rq rules shop.yaml

  # Rules of one class map, as JSON
  d2rq rules shop.yaml --class-map http://example.org/Order -f json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRules(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ClassMap, "class-map", "c", "", "Filter by class map (prefixed names allowed)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, yaml")

	return cmd
}

func listRules(cmd *cobra.Command, args []string, opts *RulesOptions) error {
	cc := NewCommandContext(cmd)
	m, path, err := cc.LoadMapping(args)
	if err != nil {
		return err
	}
	defer closeConnections(m)

	if err := m.Validate(); err != nil {
		return fmt.Errorf("%s is invalid: %w", path, err)
	}
	rs, err := m.CompiledRules(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to compile %s: %w", path, err)
	}

	filter := ""
	if opts.ClassMap != "" {
		filter = m.Prefixes().Expand(opts.ClassMap)
	}

	infos := make([]ruleInfo, 0, rs.Len())
	for _, r := range rs.Rules() {
		info := describeRule(m, r)
		if filter != "" && info.ClassMap != filter {
			continue
		}
		infos = append(infos, info)
	}

	format := cc.Format(cmd)
	if format != FormatText {
		return writeStructured(cmd.OutOrStdout(), format, infos)
	}

	w := cmd.OutOrStdout()
	t := newTable(w, table.Row{"Class Map", "Subject", "Property", "Object", "Columns"})
	for _, info := range infos {
		object := info.Object
		if info.Translation != "" {
			object += " via " + m.Prefixes().Shorten(info.Translation)
		}
		t.AppendRow(table.Row{
			m.Prefixes().Shorten(info.ClassMap),
			m.Prefixes().Shorten(info.Subject),
			m.Prefixes().Shorten(info.Property),
			object,
			strings.Join(info.Attributes, ", "),
		})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rules)\n", len(infos))
	return nil
}

func describeRule(m *mapping.Mapping, r mapping.ProjectionRule) ruleInfo {
	info := ruleInfo{}
	if db := r.Database(); db != nil {
		info.Database = string(db.Resource())
	}
	for _, a := range r.RequiredAttributes() {
		info.Attributes = append(info.Attributes, a.String())
	}

	rule, ok := r.(*loader.Rule)
	if !ok {
		info.Object = fmt.Sprintf("%v", r)
		return info
	}
	b := rule.Bridge()
	info.ClassMap = string(rule.ClassMap())
	info.Subject = rule.Subject().String()
	info.Property = b.Property
	switch {
	case b.Column != nil:
		info.Object = b.Column.String()
	case b.Pattern != nil:
		info.Object = b.Pattern.String()
	default:
		info.Object = m.Prefixes().Shorten(b.Value)
	}
	if b.Translation != nil {
		info.Translation = string(b.Translation.Resource())
		info.Translations = b.Translation.Translations()
	}
	return info
}

// closeConnections closes the handles the command created. Databases it
// never connected to are left alone.
func closeConnections(m *mapping.Mapping) {
	for _, db := range m.Databases() {
		if conn, ok := db.OpenedConnection(); ok {
			_ = conn.Close()
		}
	}
}
