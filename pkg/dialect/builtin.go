package dialect

import "github.com/inovexcorp/d2rq/pkg/core"

var commonReserved = []string{
	"select", "from", "where", "group", "order", "by", "table", "user",
	"index", "join", "on", "as", "and", "or", "not", "null", "limit",
}

// builtinANSI is the portable fallback dialect.
var builtinANSI = NewDialect("ansi").
	ReservedWords(commonReserved...).
	Build()

var builtinPostgres = NewDialect("postgres").
	DefaultSchema("public").
	Placeholder(core.PlaceholderDollar).
	ReservedWords(commonReserved...).
	ReservedWords("offset", "window", "user").
	Build()

var builtinMySQL = NewDialect("mysql").
	Identifiers("`", "`", "``", core.NormCaseSensitive).
	ReservedWords(commonReserved...).
	ReservedWords("key", "keys", "interval").
	Build()

var builtinSQLite = NewDialect("sqlite").
	DefaultSchema("main").
	ReservedWords(commonReserved...).
	Build()

var builtinDuckDB = NewDialect("duckdb").
	Identifiers(`"`, `"`, `""`, core.NormCaseInsensitive).
	DefaultSchema("main").
	ReservedWords(commonReserved...).
	ReservedWords("qualify", "pivot", "unpivot").
	Build()

func init() {
	for _, d := range []*Dialect{builtinANSI, builtinPostgres, builtinMySQL, builtinSQLite, builtinDuckDB} {
		Register(d)
	}
	SetDefault(builtinANSI)
}
