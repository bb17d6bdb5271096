package testutil

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

// CatalogColumns is the row layout of the column metadata queries.
var CatalogColumns = []string{"column_name", "data_type", "is_nullable", "ordinal_position"}

// NewMockDB registers a sqlmock connection under the test's name and
// returns that name as the DSN. Opening "sqlmock" with the DSN yields the
// mocked connection. The mock is closed when the test ends.
func NewMockDB(t testing.TB) (string, sqlmock.Sqlmock) {
	t.Helper()
	dsn := t.Name()
	db, mock, err := sqlmock.NewWithDSN(dsn)
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return dsn, mock
}

// CatalogRows builds column metadata rows from name/type pairs. All
// columns are nullable.
func CatalogRows(nameTypes ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows(CatalogColumns)
	for i := 0; i+1 < len(nameTypes); i += 2 {
		rows.AddRow(nameTypes[i], nameTypes[i+1], "YES", i/2+1)
	}
	return rows
}
