// Package driver manages the database drivers a mapping can connect through.
//
// Two layers are involved. The Catalog is the process-wide set of drivers
// compiled into the binary; driver packages under pkg/drivers/ add
// themselves to it from init(). A Registry is an explicit, append-only set
// of drivers that have been registered for use, constructed once per
// process (or per test) and injected into the databases that need it.
//
// Import driver packages with a blank identifier to make them available:
//
//	import _ "github.com/inovexcorp/d2rq/pkg/drivers/all"
package driver

import "strings"

// ODBC bridging. A database configured with an ODBC data source name
// connects through the driver registered under ODBCBridge, using a
// connection string of the form ODBCURLPrefix + dsn.
const (
	ODBCBridge    = "odbc"
	ODBCURLPrefix = "odbc:"
)

// Driver describes a loadable database driver.
type Driver struct {
	// Name is the primary driver name (e.g. "pgx", "mysql").
	Name string

	// Aliases are alternative names, typically the JDBC driver class names
	// found in existing mapping files (e.g. "org.postgresql.Driver").
	Aliases []string

	// SQLName is the name the driver is registered under in database/sql.
	SQLName string

	// Dialect names the default expression dialect for this driver.
	Dialect string

	// URLPrefixes are the connection string prefixes this driver claims.
	URLPrefixes []string

	// DataSource converts a connection string and credentials into the
	// data source name understood by the database/sql driver.
	// A nil DataSource passes the connection string through unchanged.
	DataSource func(url, username, password string) (string, error)
}

// Claims reports whether the driver handles the given connection string.
func (d *Driver) Claims(url string) bool {
	lower := strings.ToLower(url)
	for _, prefix := range d.URLPrefixes {
		if strings.HasPrefix(lower, strings.ToLower(prefix)) {
			return true
		}
	}
	return false
}

// DataSourceName returns the database/sql data source name for url.
func (d *Driver) DataSourceName(url, username, password string) (string, error) {
	if d.DataSource == nil {
		return url, nil
	}
	return d.DataSource(url, username, password)
}

// names returns the primary name followed by all aliases.
func (d *Driver) names() []string {
	return append([]string{d.Name}, d.Aliases...)
}
