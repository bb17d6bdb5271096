// Package mysql provides the MySQL driver for d2rq, backed by go-sql-driver/mysql.
//
// Import this package with a blank identifier to make the driver available:
//
//	import _ "github.com/inovexcorp/d2rq/pkg/drivers/mysql"
package mysql

import (
	"fmt"
	"net/url"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/inovexcorp/d2rq/pkg/driver"
)

// Driver is the MySQL driver description.
var Driver = &driver.Driver{
	Name:        "mysql",
	Aliases:     []string{"com.mysql.jdbc.Driver", "com.mysql.cj.jdbc.Driver", "org.mariadb.jdbc.Driver"},
	SQLName:     "mysql",
	Dialect:     "mysql",
	URLPrefixes: []string{"jdbc:mysql:", "jdbc:mariadb:", "mysql://"},
	DataSource:  dataSource,
}

func init() {
	driver.Provide(Driver)
}

// dataSource converts jdbc:mysql://host:port/db?params into the
// go-sql-driver DSN format user:pass@tcp(host:port)/db?params.
func dataSource(raw, username, password string) (string, error) {
	s := raw
	if len(s) >= 5 && strings.EqualFold(s[:5], "jdbc:") {
		s = s[5:]
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid mysql connection string %q: %w", raw, err)
	}

	cfg := gomysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if cfg.Addr == "" {
		cfg.Addr = "localhost:3306"
	} else if u.Port() == "" {
		cfg.Addr += ":3306"
	}
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	cfg.User = username
	cfg.Passwd = password

	q := u.Query()
	if cfg.User == "" {
		cfg.User = q.Get("user")
	}
	if cfg.Passwd == "" {
		cfg.Passwd = q.Get("password")
	}
	for key, values := range q {
		if key == "user" || key == "password" || len(values) == 0 {
			continue
		}
		if cfg.Params == nil {
			cfg.Params = make(map[string]string)
		}
		cfg.Params[key] = values[0]
	}
	return cfg.FormatDSN(), nil
}
