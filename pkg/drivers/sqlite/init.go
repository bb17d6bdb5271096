// Package sqlite provides the SQLite driver for d2rq, backed by modernc.org/sqlite.
//
// Import this package with a blank identifier to make the driver available:
//
//	import _ "github.com/inovexcorp/d2rq/pkg/drivers/sqlite"
package sqlite

import (
	"strings"

	"github.com/inovexcorp/d2rq/pkg/driver"

	_ "modernc.org/sqlite" // registers "sqlite" with database/sql
)

// Driver is the SQLite driver description.
var Driver = &driver.Driver{
	Name:        "sqlite",
	Aliases:     []string{"sqlite3", "org.sqlite.JDBC"},
	SQLName:     "sqlite",
	Dialect:     "sqlite",
	URLPrefixes: []string{"jdbc:sqlite:", "sqlite:", "file:"},
	DataSource:  dataSource,
}

func init() {
	driver.Provide(Driver)
}

// dataSource strips the jdbc:sqlite: or sqlite: prefix. SQLite has no
// notion of credentials, so they are ignored.
func dataSource(raw, _, _ string) (string, error) {
	for _, prefix := range []string{"jdbc:sqlite:", "sqlite:"} {
		if len(raw) >= len(prefix) && strings.EqualFold(raw[:len(prefix)], prefix) {
			path := raw[len(prefix):]
			if path == "" {
				return ":memory:", nil
			}
			return path, nil
		}
	}
	return raw, nil
}
