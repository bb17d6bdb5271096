// Package postgres provides the PostgreSQL driver for d2rq, backed by pgx.
//
// Import this package with a blank identifier to make the driver available:
//
//	import _ "github.com/inovexcorp/d2rq/pkg/drivers/postgres"
package postgres

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/inovexcorp/d2rq/pkg/driver"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" with database/sql
)

// Driver is the PostgreSQL driver description.
var Driver = &driver.Driver{
	Name:        "pgx",
	Aliases:     []string{"postgres", "postgresql", "org.postgresql.Driver"},
	SQLName:     "pgx",
	Dialect:     "postgres",
	URLPrefixes: []string{"jdbc:postgresql:", "postgres://", "postgresql://"},
	DataSource:  dataSource,
}

func init() {
	driver.Provide(Driver)
}

// dataSource converts a JDBC or libpq style URL into a pgx connection URL,
// merging in credentials that are not already part of the URL.
func dataSource(raw, username, password string) (string, error) {
	s := raw
	if len(s) >= 5 && strings.EqualFold(s[:5], "jdbc:") {
		s = s[5:]
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid postgres connection string %q: %w", raw, err)
	}
	u.Scheme = "postgres"

	// jdbc:postgresql:dbname has no authority part.
	if u.Opaque != "" {
		u.Path = "/" + u.Opaque
		u.Opaque = ""
		u.Host = "localhost"
	}

	// JDBC carries credentials as query parameters.
	q := u.Query()
	if username == "" {
		username = q.Get("user")
	}
	if password == "" {
		password = q.Get("password")
	}
	q.Del("user")
	q.Del("password")
	u.RawQuery = q.Encode()

	if u.User == nil && username != "" {
		if password != "" {
			u.User = url.UserPassword(username, password)
		} else {
			u.User = url.User(username)
		}
	}
	return u.String(), nil
}
