package connection

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/inovexcorp/d2rq/internal/testutil"
	"github.com/inovexcorp/d2rq/pkg/core"
	"github.com/inovexcorp/d2rq/pkg/dialect"
	"github.com/inovexcorp/d2rq/pkg/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDriver routes a handle to a sqlmock connection registered under dsn.
func mockDriver(dsn string) *driver.Driver {
	return &driver.Driver{
		Name:    "mock",
		SQLName: "sqlmock",
		DataSource: func(string, string, string) (string, error) {
			return dsn, nil
		},
	}
}

func newMockHandle(t *testing.T, cfg Config, dialectName string) (*Handle, sqlmock.Sqlmock) {
	t.Helper()
	dsn, mock := testutil.NewMockDB(t)

	d, ok := dialect.Get(dialectName)
	require.True(t, ok)
	return New(cfg, mockDriver(dsn), d, testutil.NewTestLogger(t)), mock
}

func TestHandle_ColumnTypeOverrides(t *testing.T) {
	h := New(Config{
		URL:            "jdbc:test://host/db",
		TextColumns:    []string{"orders.note"},
		NumericColumns: []string{"orders.total"},
		DateColumns:    []string{"shop.orders.placed"},
	}, nil, nil, nil)

	tests := []struct {
		attr string
		want core.ColumnType
	}{
		{"orders.note", core.ColumnText},
		{"orders.total", core.ColumnNumeric},
		{"shop.orders.total", core.ColumnNumeric},
		{"shop.orders.placed", core.ColumnDate},
	}

	for _, tt := range tests {
		t.Run(tt.attr, func(t *testing.T) {
			got, err := h.ColumnType(context.Background(), core.MustParseAttribute(tt.attr))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	// Overrides never touch the database.
	assert.False(t, h.IsConnected())
}

func TestHandle_ColumnTypeWithoutDriver(t *testing.T) {
	h := New(Config{URL: "jdbc:nowhere://host/db"}, nil, nil, nil)

	_, err := h.ColumnType(context.Background(), core.MustParseAttribute("orders.total"))
	require.Error(t, err)
	assert.Equal(t, core.KindUnknownColumn, core.KindOf(err))
	assert.ErrorIs(t, err, &core.Error{Kind: core.KindDriverNotFound})
}

func TestHandle_ColumnTypeFromCatalog(t *testing.T) {
	h, mock := newMockHandle(t, Config{URL: "jdbc:test://host/db"}, "postgres")

	mock.ExpectQuery("information_schema.columns").
		WithArgs("public", "orders").
		WillReturnRows(sqlmock.NewRows(testutil.CatalogColumns).
			AddRow("id", "integer", "NO", 1).
			AddRow("total", "numeric(10,2)", "YES", 2).
			AddRow("placed_at", "timestamp with time zone", "NO", 3).
			AddRow("note", "character varying", "YES", 4))

	ctx := context.Background()
	tests := []struct {
		column string
		want   core.ColumnType
	}{
		{"id", core.ColumnNumeric},
		{"total", core.ColumnNumeric},
		{"placed_at", core.ColumnDate},
		{"NOTE", core.ColumnText},
	}
	for _, tt := range tests {
		got, err := h.ColumnType(ctx, core.Attribute{Table: "orders", Column: tt.column})
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.column)
	}

	// Metadata is cached: a single catalog query served every lookup.
	require.NoError(t, mock.ExpectationsWereMet())

	_, err := h.ColumnType(ctx, core.Attribute{Table: "orders", Column: "missing"})
	require.Error(t, err)
	assert.Equal(t, core.KindUnknownColumn, core.KindOf(err))
}

func TestHandle_ColumnTypeCancelled(t *testing.T) {
	h, _ := newMockHandle(t, Config{URL: "jdbc:test://host/db"}, "postgres")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.ColumnType(ctx, core.MustParseAttribute("orders.total"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, core.KindUnknown, core.KindOf(err))
}

func TestHandle_UnknownTable(t *testing.T) {
	h, mock := newMockHandle(t, Config{URL: "jdbc:test://host/db"}, "duckdb")

	mock.ExpectQuery("information_schema.columns").
		WithArgs("main", "orders").
		WillReturnRows(sqlmock.NewRows(testutil.CatalogColumns))

	_, err := h.ColumnType(context.Background(), core.MustParseAttribute("orders.total"))
	require.Error(t, err)

	var cerr *core.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, core.KindUnknownColumn, cerr.Kind)
	assert.Equal(t, "orders.total", cerr.Subject)
}

func TestHandle_ColumnsQueryWithoutDefaultSchema(t *testing.T) {
	h, mock := newMockHandle(t, Config{URL: "jdbc:mysql://host/db"}, "mysql")

	mock.ExpectQuery("WHERE table_name = \\?").
		WithArgs("orders").
		WillReturnRows(sqlmock.NewRows(testutil.CatalogColumns).
			AddRow("total", "decimal", "YES", 1))

	got, err := h.ColumnType(context.Background(), core.MustParseAttribute("orders.total"))
	require.NoError(t, err)
	assert.Equal(t, core.ColumnNumeric, got)
}

func TestHandle_Exec(t *testing.T) {
	h, mock := newMockHandle(t, Config{URL: "jdbc:test://host/db"}, "ansi")

	mock.ExpectExec("CREATE TABLE orders").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INVALID SQL").WillReturnError(assert.AnError)

	ctx := context.Background()
	require.NoError(t, h.Exec(ctx, "CREATE TABLE orders (id INT)"))

	err := h.Exec(ctx, "INVALID SQL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute SQL")
	assert.True(t, h.IsConnected())
}

func TestHandle_Query(t *testing.T) {
	h, mock := newMockHandle(t, Config{URL: "jdbc:test://host/db"}, "ansi")

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))

	rows, err := h.Query(context.Background(), "SELECT id FROM orders")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	n := 0
	for rows.Next() {
		n++
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, 2, n)
}

func TestHandle_AllowDistinct(t *testing.T) {
	nodistinct := dialect.NewDialect("nodistinct").Distinct(false).Build()

	assert.True(t, New(Config{AllowDistinct: true}, nil, nil, nil).AllowDistinct())
	assert.False(t, New(Config{AllowDistinct: false}, nil, nil, nil).AllowDistinct())
	assert.False(t, New(Config{AllowDistinct: true}, nil, nodistinct, nil).AllowDistinct())
}

func TestHandle_CloseWithoutConnection(t *testing.T) {
	h := New(Config{}, nil, nil, nil)
	assert.NoError(t, h.Close())
	assert.Equal(t, "ansi", h.Dialect().Name)
}

func TestClassifySQLType(t *testing.T) {
	tests := []struct {
		in   string
		want core.ColumnType
	}{
		{"INTEGER", core.ColumnNumeric},
		{"bigint", core.ColumnNumeric},
		{"numeric(10,2)", core.ColumnNumeric},
		{"double precision", core.ColumnNumeric},
		{"int unsigned", core.ColumnNumeric},
		{"date", core.ColumnDate},
		{"timestamp without time zone", core.ColumnDate},
		{"TIMESTAMPTZ", core.ColumnDate},
		{"time", core.ColumnDate},
		{"datetime", core.ColumnDate},
		{"varchar(255)", core.ColumnText},
		{"text", core.ColumnText},
		{"uuid", core.ColumnText},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifySQLType(tt.in))
		})
	}
}
