package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/inovexcorp/d2rq/pkg/driver"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// DriversOptions holds options for the drivers command.
type DriversOptions struct {
	URL    string // Guess the driver for a connection string
	Format string // Output format
}

// driverInfo is the printable form of a driver.
type driverInfo struct {
	Name       string   `json:"name" yaml:"name"`
	Aliases    []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Dialect    string   `json:"dialect" yaml:"dialect"`
	URLs       []string `json:"url_prefixes" yaml:"url_prefixes"`
	Registered bool     `json:"registered" yaml:"registered"`
}

// NewDriversCommand creates the drivers command.
func NewDriversCommand() *cobra.Command {
	opts := &DriversOptions{}
	cmd := &cobra.Command{
		Use:   "drivers",
		Short: "List available database drivers",
		Long: `List the database drivers compiled into d2rq.

Registered drivers are the ones preloaded from the configuration; only those
are considered when a database gives a connection string but no driver.`,
		Example: `  # List drivers
  d2rq drivers

  # Which driver would handle this connection string?
  d2rq drivers --url jdbc:postgresql://localhost/shop`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listDrivers(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.URL, "url", "", "Guess the driver for a connection string")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, yaml")

	return cmd
}

func listDrivers(cmd *cobra.Command, opts *DriversOptions) error {
	cc := NewCommandContext(cmd)
	w := cmd.OutOrStdout()

	if opts.URL != "" {
		name, ok := cc.Drivers.GuessDriver(opts.URL)
		if !ok {
			return fmt.Errorf("no registered driver handles %s", opts.URL)
		}
		_, _ = fmt.Fprintln(w, name)
		return nil
	}

	registered := make(map[string]bool)
	for _, name := range cc.Drivers.Registered() {
		registered[name] = true
	}

	catalog := driver.Available()
	infos := make([]driverInfo, 0)
	for _, name := range catalog.Names() {
		d, _ := catalog.Lookup(name)
		aliases := append([]string(nil), d.Aliases...)
		sort.Strings(aliases)
		infos = append(infos, driverInfo{
			Name:       d.Name,
			Aliases:    aliases,
			Dialect:    d.Dialect,
			URLs:       d.URLPrefixes,
			Registered: registered[d.Name],
		})
	}

	if format := cc.Format(cmd); format != FormatText {
		return writeStructured(w, format, infos)
	}

	t := newTable(w, table.Row{"Driver", "Aliases", "Dialect", "URL Prefixes", "Registered"})
	for _, info := range infos {
		mark := ""
		if info.Registered {
			mark = "yes"
		}
		t.AppendRow(table.Row{info.Name, strings.Join(info.Aliases, ", "), info.Dialect, strings.Join(info.URLs, ", "), mark})
	}
	t.Render()
	return nil
}
