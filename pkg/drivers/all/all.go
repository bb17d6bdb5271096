// Package all makes every bundled database driver available.
//
//	import _ "github.com/inovexcorp/d2rq/pkg/drivers/all"
package all

import (
	_ "github.com/inovexcorp/d2rq/pkg/drivers/duckdb"   // DuckDB
	_ "github.com/inovexcorp/d2rq/pkg/drivers/mysql"    // MySQL / MariaDB
	_ "github.com/inovexcorp/d2rq/pkg/drivers/postgres" // PostgreSQL
	_ "github.com/inovexcorp/d2rq/pkg/drivers/sqlite"   // SQLite
)

// Defaults lists the drivers an application preloads on startup, so that
// connection-string based driver guessing has something to match against.
var Defaults = []string{"pgx", "mysql", "sqlite", "duckdb"}
