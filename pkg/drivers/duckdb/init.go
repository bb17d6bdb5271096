// Package duckdb provides the DuckDB driver for d2rq.
//
// Import this package with a blank identifier to make the driver available:
//
//	import _ "github.com/inovexcorp/d2rq/pkg/drivers/duckdb"
package duckdb

import (
	"strings"

	"github.com/inovexcorp/d2rq/pkg/driver"

	_ "github.com/marcboeker/go-duckdb" // registers "duckdb" with database/sql
)

// Driver is the DuckDB driver description.
var Driver = &driver.Driver{
	Name:        "duckdb",
	Aliases:     []string{"org.duckdb.DuckDBDriver"},
	SQLName:     "duckdb",
	Dialect:     "duckdb",
	URLPrefixes: []string{"jdbc:duckdb:", "duckdb:"},
	DataSource:  dataSource,
}

func init() {
	driver.Provide(Driver)
}

// dataSource strips the URL prefix; an empty path opens an in-memory database.
func dataSource(raw, _, _ string) (string, error) {
	for _, prefix := range []string{"jdbc:duckdb:", "duckdb:"} {
		if len(raw) >= len(prefix) && strings.EqualFold(raw[:len(prefix)], prefix) {
			path := raw[len(prefix):]
			if path == ":memory:" {
				return "", nil
			}
			return path, nil
		}
	}
	return raw, nil
}
