// Package connection provides the live connection handle built from a
// database description of a mapping.
//
// A Handle is created without any I/O. The underlying *sql.DB is opened
// on first use and shared by every caller afterwards. Column type lookups
// consult the classification hints from the mapping first and fall back to
// the database catalog.
package connection

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/inovexcorp/d2rq/pkg/core"
	"github.com/inovexcorp/d2rq/pkg/dialect"
	"github.com/inovexcorp/d2rq/pkg/driver"
)

// Config holds the parameters a Handle is built from.
type Config struct {
	URL      string
	Username string
	Password string

	// ExpressionTranslator is the dialect override from the mapping,
	// empty when the driver's dialect is used.
	ExpressionTranslator string
	AllowDistinct        bool

	// Column classification hints, as "table.column" or "schema.table.column".
	TextColumns    []string
	NumericColumns []string
	DateColumns    []string
}

// Handle is a reusable connection to one relational source.
type Handle struct {
	cfg     Config
	drv     *driver.Driver
	dialect *dialect.Dialect
	logger  *slog.Logger

	overrides map[string]core.ColumnType

	mu sync.Mutex
	db *sql.DB

	metaMu sync.Mutex
	meta   map[string]*core.TableMetadata
}

// New creates a handle. drv may be nil when no driver could be determined;
// opening the database then fails with KindDriverNotFound. A nil dialect
// falls back to dialect.Default().
func New(cfg Config, drv *driver.Driver, d *dialect.Dialect, logger *slog.Logger) *Handle {
	if d == nil {
		d = dialect.Default()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &Handle{
		cfg:       cfg,
		drv:       drv,
		dialect:   d,
		logger:    logger,
		overrides: make(map[string]core.ColumnType),
		meta:      make(map[string]*core.TableMetadata),
	}
	for _, c := range cfg.TextColumns {
		h.overrides[c] = core.ColumnText
	}
	for _, c := range cfg.NumericColumns {
		h.overrides[c] = core.ColumnNumeric
	}
	for _, c := range cfg.DateColumns {
		h.overrides[c] = core.ColumnDate
	}
	return h
}

// URL returns the connection string.
func (h *Handle) URL() string { return h.cfg.URL }

// Username returns the configured user, if any.
func (h *Handle) Username() string { return h.cfg.Username }

// Driver returns the driver used to open the database, or nil.
func (h *Handle) Driver() *driver.Driver { return h.drv }

// Dialect returns the expression dialect of this connection.
func (h *Handle) Dialect() *dialect.Dialect { return h.dialect }

// AllowDistinct reports whether SELECT DISTINCT may be used against this
// source. Both the mapping and the dialect have to allow it.
func (h *Handle) AllowDistinct() bool {
	return h.cfg.AllowDistinct && h.dialect.SupportsDistinct
}

// DB returns the underlying database, opening it on first use.
func (h *Handle) DB(ctx context.Context) (*sql.DB, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.db != nil {
		return h.db, nil
	}
	if h.drv == nil {
		return nil, core.Errorf(core.KindDriverNotFound, h.cfg.URL, "no registered driver handles connection string %s", h.cfg.URL)
	}

	dsn, err := h.drv.DataSourceName(h.cfg.URL, h.cfg.Username, h.cfg.Password)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("opening database connection", slog.String("driver", h.drv.Name), slog.String("url", h.cfg.URL))

	db, err := sql.Open(h.drv.SQLName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", h.drv.Name, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", h.drv.Name, err)
	}

	h.db = db
	return db, nil
}

// IsConnected returns true if the database connection is established.
func (h *Handle) IsConnected() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.db != nil
}

// Close closes the database connection, if open.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.db == nil {
		return nil
	}
	h.logger.Debug("closing database connection", slog.String("url", h.cfg.URL))
	err := h.db.Close()
	h.db = nil
	return err
}

// Exec executes a SQL statement that doesn't return rows.
func (h *Handle) Exec(ctx context.Context, sqlStr string, args ...any) error {
	db, err := h.DB(ctx)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Query executes a SQL statement that returns rows.
func (h *Handle) Query(ctx context.Context, sqlStr string, args ...any) (*sql.Rows, error) {
	db, err := h.DB(ctx)
	if err != nil {
		return nil, err
	}
	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	rows, err := db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return rows, nil
}
