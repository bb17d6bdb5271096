package connection

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/inovexcorp/d2rq/pkg/core"
)

// ColumnType returns the classification of a column. Hints from the
// mapping take precedence; otherwise the database catalog is consulted.
// A column that cannot be resolved fails with KindUnknownColumn; a
// cancelled or expired ctx is returned as is, unclassified.
func (h *Handle) ColumnType(ctx context.Context, a core.Attribute) (core.ColumnType, error) {
	if t, ok := h.overrides[a.String()]; ok {
		return t, nil
	}
	if a.Schema != "" {
		if t, ok := h.overrides[a.Table+"."+a.Column]; ok {
			return t, nil
		}
	}

	meta, err := h.TableMetadata(ctx, a.TableName())
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return core.ColumnUnknown, fmt.Errorf("resolving column %s: %w", a, cerr)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return core.ColumnUnknown, err
		}
		return core.ColumnUnknown, core.Wrap(core.KindUnknownColumn, a.String(), err, "cannot determine type of column %s", a)
	}
	for _, col := range meta.Columns {
		if h.dialect.NormalizeName(col.Name) == h.dialect.NormalizeName(a.Column) {
			return ClassifySQLType(col.Type), nil
		}
	}
	return core.ColumnUnknown, core.Errorf(core.KindUnknownColumn, a.String(), "column %s not found in database %s", a, h.cfg.URL)
}

// TableMetadata returns the catalog columns of a table. Results are cached
// for the lifetime of the handle. An unknown table yields metadata with
// no columns.
func (h *Handle) TableMetadata(ctx context.Context, table string) (*core.TableMetadata, error) {
	h.metaMu.Lock()
	defer h.metaMu.Unlock()

	if m, ok := h.meta[table]; ok {
		return m, nil
	}

	db, err := h.DB(ctx)
	if err != nil {
		return nil, err
	}

	schema, name := h.parseQualifiedName(table)
	query, args := h.columnsQuery(schema, name)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []core.Column
	for rows.Next() {
		var col core.Column
		var nullable string
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &col.Position); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Nullable = nullable == "YES"
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}

	m := &core.TableMetadata{Schema: schema, Name: name, Columns: columns}
	h.meta[table] = m
	return m, nil
}

// parseQualifiedName splits a table reference into schema and name.
// Uses the dialect's default schema if not specified.
func (h *Handle) parseQualifiedName(table string) (schema, name string) {
	if s, n, ok := strings.Cut(table, "."); ok {
		return s, n
	}
	return h.dialect.DefaultSchema, table
}

// columnsQuery builds the catalog query for a table. SQLite has no
// information_schema and is read through pragma_table_info instead.
func (h *Handle) columnsQuery(schema, table string) (string, []any) {
	d := h.dialect
	if d.Name == "sqlite" {
		return `SELECT name, type, CASE WHEN "notnull" = 0 THEN 'YES' ELSE 'NO' END, cid + 1 FROM pragma_table_info(?)`, []any{table}
	}
	if schema == "" {
		//nolint:gosec // Placeholders are safe - they come from dialect.FormatPlaceholder
		return fmt.Sprintf(`SELECT column_name, data_type, is_nullable, ordinal_position
		FROM information_schema.columns
		WHERE table_name = %s
		ORDER BY ordinal_position`, d.FormatPlaceholder(1)), []any{table}
	}
	//nolint:gosec // Placeholders are safe - they come from dialect.FormatPlaceholder
	return fmt.Sprintf(`SELECT column_name, data_type, is_nullable, ordinal_position
		FROM information_schema.columns
		WHERE table_schema = %s AND table_name = %s
		ORDER BY ordinal_position`, d.FormatPlaceholder(1), d.FormatPlaceholder(2)), []any{schema, table}
}

var numericTypes = map[string]struct{}{
	"INT": {}, "INTEGER": {}, "SMALLINT": {}, "BIGINT": {}, "TINYINT": {}, "MEDIUMINT": {},
	"HUGEINT": {}, "UBIGINT": {}, "UINTEGER": {}, "USMALLINT": {}, "UTINYINT": {},
	"INT2": {}, "INT4": {}, "INT8": {}, "SERIAL": {}, "BIGSERIAL": {}, "SMALLSERIAL": {},
	"DECIMAL": {}, "NUMERIC": {}, "DEC": {}, "REAL": {}, "FLOAT": {}, "FLOAT4": {},
	"FLOAT8": {}, "DOUBLE": {}, "DOUBLE PRECISION": {}, "MONEY": {}, "BIT": {},
}

// ClassifySQLType maps a catalog type name to a column classification.
// Anything that is neither numeric nor temporal is treated as text.
func ClassifySQLType(sqlType string) core.ColumnType {
	t := strings.ToUpper(strings.TrimSpace(sqlType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	t = strings.TrimSpace(strings.TrimSuffix(t, " UNSIGNED"))

	if _, ok := numericTypes[t]; ok {
		return core.ColumnNumeric
	}
	switch {
	case t == "DATE", t == "DATETIME", strings.HasPrefix(t, "TIMESTAMP"), strings.HasPrefix(t, "TIME"):
		return core.ColumnDate
	default:
		return core.ColumnText
	}
}
