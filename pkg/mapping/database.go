package mapping

import (
	"log/slog"
	"sync"

	"github.com/inovexcorp/d2rq/pkg/connection"
	"github.com/inovexcorp/d2rq/pkg/core"
	"github.com/inovexcorp/d2rq/pkg/dialect"
	"github.com/inovexcorp/d2rq/pkg/driver"
)

// field is a scalar configuration value that may be assigned only once.
type field struct {
	value string
	set   bool
}

// columnSet is an insertion-ordered set of column names.
type columnSet struct {
	order   []string
	members map[string]struct{}
}

func (s *columnSet) add(column string) {
	if s.members == nil {
		s.members = make(map[string]struct{})
	}
	if _, ok := s.members[column]; ok {
		return
	}
	s.members[column] = struct{}{}
	s.order = append(s.order, column)
}

func (s *columnSet) has(column string) bool {
	_, ok := s.members[column]
	return ok
}

func (s *columnSet) list() []string {
	return append([]string(nil), s.order...)
}

// Database describes one relational source of a mapping: how to connect
// to it and how its columns are classified. It owns the connection handle
// created from that description.
//
// Connection parameters and credentials may each be set once; setting one
// twice is a configuration error. The expression translator and DISTINCT
// capability are plain overwrites.
type Database struct {
	resource core.Resource
	drivers  *driver.Registry
	logger   *slog.Logger

	odbcDSN    field
	jdbcDSN    field
	jdbcDriver field
	username   field
	password   field

	textColumns    columnSet
	numericColumns columnSet
	dateColumns    columnSet

	expressionTranslator string
	allowDistinct        bool

	connMu    sync.Mutex
	conn      *connection.Handle
	newHandle func(connection.Config, *driver.Driver, *dialect.Dialect, *slog.Logger) *connection.Handle
}

// DatabaseOption configures a Database.
type DatabaseOption func(*Database)

// WithDatabaseLogger sets the logger used by the database and its connection.
func WithDatabaseLogger(logger *slog.Logger) DatabaseOption {
	return func(d *Database) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDatabase creates a database description. Drivers are registered
// through drivers when the connection is first requested; a nil registry
// gets a private one backed by the process-wide driver catalog.
func NewDatabase(resource core.Resource, drivers *driver.Registry, opts ...DatabaseOption) *Database {
	d := &Database{
		resource:      resource,
		drivers:       drivers,
		logger:        slog.New(slog.DiscardHandler),
		allowDistinct: true,
		newHandle:     connection.New,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.drivers == nil {
		d.drivers = driver.NewRegistry(nil, d.logger)
	}
	return d
}

// Resource returns the identity of the database.
func (d *Database) Resource() core.Resource { return d.resource }

func (d *Database) assign(f *field, name, value string) error {
	if f.set {
		return core.Errorf(core.KindDuplicateField, name, "duplicate d2rq:%s on %s", name, d)
	}
	f.value = value
	f.set = true
	return nil
}

// SetODBCDSN sets the ODBC data source name.
func (d *Database) SetODBCDSN(dsn string) error { return d.assign(&d.odbcDSN, "odbcDSN", dsn) }

// SetJDBCDSN sets the JDBC-style connection string.
func (d *Database) SetJDBCDSN(dsn string) error { return d.assign(&d.jdbcDSN, "jdbcDSN", dsn) }

// SetJDBCDriver sets the name of the driver for the connection string.
func (d *Database) SetJDBCDriver(name string) error {
	return d.assign(&d.jdbcDriver, "jdbcDriver", name)
}

// SetUsername sets the database user.
func (d *Database) SetUsername(username string) error {
	return d.assign(&d.username, "username", username)
}

// SetPassword sets the database password.
func (d *Database) SetPassword(password string) error {
	return d.assign(&d.password, "password", password)
}

// AddTextColumn classifies a column as text.
func (d *Database) AddTextColumn(column string) { d.textColumns.add(column) }

// AddNumericColumn classifies a column as numeric.
func (d *Database) AddNumericColumn(column string) { d.numericColumns.add(column) }

// AddDateColumn classifies a column as a date.
func (d *Database) AddDateColumn(column string) { d.dateColumns.add(column) }

// SetExpressionTranslator overrides the SQL expression dialect by name.
func (d *Database) SetExpressionTranslator(name string) { d.expressionTranslator = name }

// SetAllowDistinct sets whether SELECT DISTINCT may be used. Defaults to true.
func (d *Database) SetAllowDistinct(allow bool) { d.allowDistinct = allow }

// ODBCDSN returns the ODBC data source name, if set.
func (d *Database) ODBCDSN() (string, bool) { return d.odbcDSN.value, d.odbcDSN.set }

// JDBCDSN returns the connection string, if set.
func (d *Database) JDBCDSN() (string, bool) { return d.jdbcDSN.value, d.jdbcDSN.set }

// JDBCDriver returns the driver name, if set.
func (d *Database) JDBCDriver() (string, bool) { return d.jdbcDriver.value, d.jdbcDriver.set }

// Username returns the database user, if set.
func (d *Database) Username() (string, bool) { return d.username.value, d.username.set }

// ExpressionTranslator returns the dialect override, or "".
func (d *Database) ExpressionTranslator() string { return d.expressionTranslator }

// AllowDistinct reports the configured DISTINCT capability.
func (d *Database) AllowDistinct() bool { return d.allowDistinct }

// TextColumns returns the columns classified as text.
func (d *Database) TextColumns() []string { return d.textColumns.list() }

// NumericColumns returns the columns classified as numeric.
func (d *Database) NumericColumns() []string { return d.numericColumns.list() }

// DateColumns returns the columns classified as dates.
func (d *Database) DateColumns() []string { return d.dateColumns.list() }

func (d *Database) String() string {
	return "d2rq:Database " + d.resource.String()
}

// Validate checks the connection configuration. It has no side effects.
func (d *Database) Validate() error {
	if d.jdbcDSN.set && d.odbcDSN.set {
		return core.Errorf(core.KindConflictingConnectionMode, string(d.resource),
			"can't combine d2rq:odbcDSN with d2rq:jdbcDSN on %s", d)
	}
	if d.jdbcDSN.set && !d.jdbcDriver.set {
		return core.Errorf(core.KindMissingDriver, string(d.resource),
			"missing d2rq:jdbcDriver on %s", d)
	}
	if d.odbcDSN.set && d.jdbcDriver.set {
		return core.Errorf(core.KindDriverModeConflict, string(d.resource),
			"can't use d2rq:jdbcDriver with d2rq:odbcDSN on %s", d)
	}
	return d.validateColumnTypes()
}

// validateColumnTypes rejects columns classified into more than one set.
func (d *Database) validateColumnTypes() error {
	sets := []struct {
		name string
		set  *columnSet
	}{
		{"text", &d.textColumns},
		{"numeric", &d.numericColumns},
		{"date", &d.dateColumns},
	}
	for i, a := range sets {
		for _, column := range a.set.order {
			for _, b := range sets[i+1:] {
				if b.set.has(column) {
					return core.Errorf(core.KindConflictingColumnType, column,
						"column %s is declared both %s and %s on %s", column, a.name, b.name, d)
				}
			}
		}
	}
	return nil
}

// Connection returns the connection handle of the database, creating it
// on first use. Concurrent first callers wait for the single construction
// and all receive the same handle. A failed construction is not cached.
func (d *Database) Connection() (*connection.Handle, error) {
	d.connMu.Lock()
	defer d.connMu.Unlock()

	if d.conn != nil {
		return d.conn, nil
	}

	var url, driverName string
	switch {
	case d.odbcDSN.set:
		driverName = driver.ODBCBridge
		url = driver.ODBCURLPrefix + d.odbcDSN.value
	case d.jdbcDSN.set:
		driverName = d.jdbcDriver.value
		url = d.jdbcDSN.value
	default:
		return nil, core.Errorf(core.KindMissingConnection, string(d.resource),
			"neither d2rq:odbcDSN nor d2rq:jdbcDSN set on %s", d)
	}

	var drv *driver.Driver
	if driverName != "" {
		if err := d.drivers.Register(driverName); err != nil {
			return nil, err
		}
		drv, _ = d.drivers.Get(driverName)
	} else if guessed, ok := d.drivers.GuessDriver(url); ok {
		drv, _ = d.drivers.Get(guessed)
	}

	dia, err := d.resolveDialect(drv)
	if err != nil {
		return nil, err
	}

	d.conn = d.newHandle(connection.Config{
		URL:                  url,
		Username:             d.username.value,
		Password:             d.password.value,
		ExpressionTranslator: d.expressionTranslator,
		AllowDistinct:        d.allowDistinct,
		TextColumns:          d.textColumns.list(),
		NumericColumns:       d.numericColumns.list(),
		DateColumns:          d.dateColumns.list(),
	}, drv, dia, d.logger.With(slog.String("database", string(d.resource))))

	d.logger.Debug("created connection handle", slog.String("database", string(d.resource)), slog.String("url", url))
	return d.conn, nil
}

// OpenedConnection returns the connection handle if Connection has
// already created it. It never creates one.
func (d *Database) OpenedConnection() (*connection.Handle, bool) {
	d.connMu.Lock()
	defer d.connMu.Unlock()
	return d.conn, d.conn != nil
}

func (d *Database) resolveDialect(drv *driver.Driver) (*dialect.Dialect, error) {
	if d.expressionTranslator != "" {
		dia, ok := dialect.Get(d.expressionTranslator)
		if !ok {
			return nil, core.Errorf(core.KindUnknownExpressionTranslator, d.expressionTranslator,
				"unknown d2rq:expressionTranslator %q on %s (available: %v)", d.expressionTranslator, d, dialect.List())
		}
		return dia, nil
	}
	if drv != nil && drv.Dialect != "" {
		if dia, ok := dialect.Get(drv.Dialect); ok {
			return dia, nil
		}
	}
	return dialect.Default(), nil
}
