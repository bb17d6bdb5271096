package mapping

import (
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/inovexcorp/d2rq/internal/testutil"
	"github.com/inovexcorp/d2rq/pkg/connection"
	"github.com/inovexcorp/d2rq/pkg/core"
	"github.com/inovexcorp/d2rq/pkg/dialect"
	"github.com/inovexcorp/d2rq/pkg/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestDatabase_DuplicateField(t *testing.T) {
	setters := []struct {
		name string
		set  func(*Database, string) error
	}{
		{"odbcDSN", (*Database).SetODBCDSN},
		{"jdbcDSN", (*Database).SetJDBCDSN},
		{"jdbcDriver", (*Database).SetJDBCDriver},
		{"username", (*Database).SetUsername},
		{"password", (*Database).SetPassword},
	}

	for _, s := range setters {
		t.Run(s.name, func(t *testing.T) {
			db := NewDatabase("http://example.org/db", nil)
			require.NoError(t, s.set(db, "first"))

			err := s.set(db, "second")
			require.Error(t, err)
			assert.Equal(t, core.KindDuplicateField, core.KindOf(err))
			assert.ErrorIs(t, err, &core.Error{Kind: core.KindDuplicateField, Subject: s.name})
		})
	}
}

func TestDatabase_DistinctFieldsNeverConflict(t *testing.T) {
	db := NewDatabase("http://example.org/db", nil)
	require.NoError(t, db.SetJDBCDSN("jdbc:test://host/db"))
	require.NoError(t, db.SetJDBCDriver("test.Driver"))
	require.NoError(t, db.SetUsername("alice"))
	require.NoError(t, db.SetPassword("secret"))
	require.NoError(t, db.SetODBCDSN("DSN1"))

	dsn, ok := db.JDBCDSN()
	assert.True(t, ok)
	assert.Equal(t, "jdbc:test://host/db", dsn)
	user, ok := db.Username()
	assert.True(t, ok)
	assert.Equal(t, "alice", user)
}

func TestDatabase_LastWriteWins(t *testing.T) {
	db := NewDatabase("http://example.org/db", nil)
	assert.True(t, db.AllowDistinct(), "DISTINCT is allowed by default")

	db.SetExpressionTranslator("mysql")
	db.SetExpressionTranslator("postgres")
	db.SetAllowDistinct(false)
	db.SetAllowDistinct(true)
	db.SetAllowDistinct(false)

	assert.Equal(t, "postgres", db.ExpressionTranslator())
	assert.False(t, db.AllowDistinct())
}

func TestDatabase_ColumnsIdempotent(t *testing.T) {
	db := NewDatabase("http://example.org/db", nil)
	db.AddTextColumn("orders.note")
	db.AddTextColumn("orders.note")
	db.AddNumericColumn("orders.total")
	db.AddDateColumn("orders.placed")

	assert.Equal(t, []string{"orders.note"}, db.TextColumns())
	assert.Equal(t, []string{"orders.total"}, db.NumericColumns())
	assert.Equal(t, []string{"orders.placed"}, db.DateColumns())
	assert.NoError(t, db.Validate())
}

func TestDatabase_Validate(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, db *Database)
		wantKind core.Kind
	}{
		{
			name: "jdbc with driver",
			setup: func(t *testing.T, db *Database) {
				require.NoError(t, db.SetJDBCDSN("jdbc:test://host/db"))
				require.NoError(t, db.SetJDBCDriver("test.Driver"))
			},
		},
		{
			name: "odbc only",
			setup: func(t *testing.T, db *Database) {
				require.NoError(t, db.SetODBCDSN("DSN1"))
			},
		},
		{
			name:  "nothing configured",
			setup: func(*testing.T, *Database) {},
		},
		{
			name: "odbc and jdbc",
			setup: func(t *testing.T, db *Database) {
				require.NoError(t, db.SetJDBCDSN("jdbc:test://host/db"))
				require.NoError(t, db.SetJDBCDriver("test.Driver"))
				require.NoError(t, db.SetODBCDSN("DSN1"))
			},
			wantKind: core.KindConflictingConnectionMode,
		},
		{
			name: "odbc and jdbc without driver",
			setup: func(t *testing.T, db *Database) {
				require.NoError(t, db.SetJDBCDSN("jdbc:test://host/db"))
				require.NoError(t, db.SetODBCDSN("DSN1"))
			},
			wantKind: core.KindConflictingConnectionMode,
		},
		{
			name: "jdbc without driver",
			setup: func(t *testing.T, db *Database) {
				require.NoError(t, db.SetJDBCDSN("jdbc:test://host/db"))
			},
			wantKind: core.KindMissingDriver,
		},
		{
			name: "odbc with jdbc driver",
			setup: func(t *testing.T, db *Database) {
				require.NoError(t, db.SetODBCDSN("DSN1"))
				require.NoError(t, db.SetJDBCDriver("test.Driver"))
			},
			wantKind: core.KindDriverModeConflict,
		},
		{
			name: "column in two classification sets",
			setup: func(t *testing.T, db *Database) {
				require.NoError(t, db.SetODBCDSN("DSN1"))
				db.AddTextColumn("orders.total")
				db.AddDateColumn("orders.total")
			},
			wantKind: core.KindConflictingColumnType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := NewDatabase("http://example.org/db", nil)
			tt.setup(t, db)

			err := db.Validate()
			if tt.wantKind == core.KindUnknown {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, core.KindOf(err))

			// Validation is a pure check.
			assert.Equal(t, tt.wantKind, core.KindOf(db.Validate()))
		})
	}
}

func TestDatabase_ValidateScenario(t *testing.T) {
	db := NewDatabase("http://example.org/db", nil)
	require.NoError(t, db.SetJDBCDSN("jdbc:test://host/db"))
	require.NoError(t, db.SetJDBCDriver("test.Driver"))
	require.NoError(t, db.Validate())

	require.NoError(t, db.SetODBCDSN("DSN1"))
	err := db.Validate()
	require.Error(t, err)
	assert.Equal(t, core.KindConflictingConnectionMode, core.KindOf(err))
}

func TestDatabase_Connection(t *testing.T) {
	db := NewDatabase("http://example.org/db", testDrivers(t.Name()), WithDatabaseLogger(testutil.NewTestLogger(t)))
	require.NoError(t, db.SetJDBCDSN("jdbc:test://host/db"))
	require.NoError(t, db.SetJDBCDriver("test.Driver"))
	require.NoError(t, db.SetUsername("alice"))
	db.SetAllowDistinct(false)

	_, ok := db.OpenedConnection()
	assert.False(t, ok, "OpenedConnection never creates a handle")

	conn, err := db.Connection()
	require.NoError(t, err)
	assert.Equal(t, "jdbc:test://host/db", conn.URL())
	assert.Equal(t, "alice", conn.Username())
	assert.Equal(t, "test", conn.Driver().Name)
	assert.Equal(t, "postgres", conn.Dialect().Name)
	assert.False(t, conn.AllowDistinct())
	assert.False(t, conn.IsConnected(), "handle creation must not open the database")

	again, err := db.Connection()
	require.NoError(t, err)
	assert.Same(t, conn, again)

	opened, ok := db.OpenedConnection()
	require.True(t, ok)
	assert.Same(t, conn, opened)
}

func TestDatabase_ConnectionConcurrentFirstAccess(t *testing.T) {
	db := NewDatabase("http://example.org/db", testDrivers(t.Name()))
	require.NoError(t, db.SetJDBCDSN("jdbc:test://host/db"))
	require.NoError(t, db.SetJDBCDriver("test.Driver"))

	var constructed atomic.Int32
	db.newHandle = func(cfg connection.Config, drv *driver.Driver, d *dialect.Dialect, l *slog.Logger) *connection.Handle {
		constructed.Add(1)
		return connection.New(cfg, drv, d, l)
	}

	const callers = 64
	handles := make([]*connection.Handle, callers)
	var g errgroup.Group
	for i := 0; i < callers; i++ {
		g.Go(func() error {
			h, err := db.Connection()
			handles[i] = h
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), constructed.Load())
	for _, h := range handles {
		assert.Same(t, handles[0], h)
	}
}

func TestDatabase_ConnectionODBC(t *testing.T) {
	// The bundled catalog has no ODBC bridge.
	db := NewDatabase("http://example.org/db", driver.NewRegistry(driver.NewCatalog(), nil))
	require.NoError(t, db.SetODBCDSN("DSN1"))

	_, err := db.Connection()
	require.Error(t, err)
	assert.ErrorIs(t, err, &core.Error{Kind: core.KindDriverNotFound, Subject: driver.ODBCBridge})

	// An application that provides a bridge gets a synthesized URL.
	c := driver.NewCatalog()
	c.Add(&driver.Driver{Name: driver.ODBCBridge, SQLName: "odbc", URLPrefixes: []string{driver.ODBCURLPrefix}})
	db = NewDatabase("http://example.org/db", driver.NewRegistry(c, nil))
	require.NoError(t, db.SetODBCDSN("DSN1"))

	conn, err := db.Connection()
	require.NoError(t, err)
	assert.Equal(t, "odbc:DSN1", conn.URL())
	assert.Equal(t, driver.ODBCBridge, conn.Driver().Name)
}

func TestDatabase_ConnectionFailures(t *testing.T) {
	t.Run("no connection parameters", func(t *testing.T) {
		db := NewDatabase("http://example.org/db", testDrivers(t.Name()))
		_, err := db.Connection()
		assert.Equal(t, core.KindMissingConnection, core.KindOf(err))
	})

	t.Run("unknown driver", func(t *testing.T) {
		db := NewDatabase("http://example.org/db", testDrivers(t.Name()))
		require.NoError(t, db.SetJDBCDSN("jdbc:test://host/db"))
		require.NoError(t, db.SetJDBCDriver("com.example.Missing"))

		_, err := db.Connection()
		assert.Equal(t, core.KindDriverNotFound, core.KindOf(err))
	})

	t.Run("unknown expression translator", func(t *testing.T) {
		db := NewDatabase("http://example.org/db", testDrivers(t.Name()))
		require.NoError(t, db.SetJDBCDSN("jdbc:test://host/db"))
		require.NoError(t, db.SetJDBCDriver("test.Driver"))
		db.SetExpressionTranslator("com.example.OracleTranslator")

		_, err := db.Connection()
		assert.Equal(t, core.KindUnknownExpressionTranslator, core.KindOf(err))

		// Not cached: fixing the configuration makes the next call succeed.
		db.SetExpressionTranslator("mysql")
		conn, err := db.Connection()
		require.NoError(t, err)
		assert.Equal(t, "mysql", conn.Dialect().Name)
	})
}

func TestDatabase_ConnectionGuessesDriver(t *testing.T) {
	drivers := testDrivers(t.Name())
	drivers.RegisterIfPresent("test")

	db := NewDatabase("http://example.org/db", drivers)
	require.NoError(t, db.SetJDBCDSN("jdbc:test://host/db"))

	conn, err := db.Connection()
	require.NoError(t, err)
	require.NotNil(t, conn.Driver())
	assert.Equal(t, "test", conn.Driver().Name)
}
