package core

import (
	"fmt"
	"strings"
)

// Attribute identifies a column of a relational table.
// Schema is optional; Table may be an alias that has to be resolved
// through an AliasMap before the database is consulted.
type Attribute struct {
	Schema string
	Table  string
	Column string
}

// ParseAttribute parses "table.column" or "schema.table.column".
func ParseAttribute(s string) (Attribute, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	for _, p := range parts {
		if p == "" {
			return Attribute{}, fmt.Errorf("invalid attribute %q: empty name component", s)
		}
	}
	switch len(parts) {
	case 2:
		return Attribute{Table: parts[0], Column: parts[1]}, nil
	case 3:
		return Attribute{Schema: parts[0], Table: parts[1], Column: parts[2]}, nil
	default:
		return Attribute{}, fmt.Errorf("invalid attribute %q: expected table.column or schema.table.column", s)
	}
}

// MustParseAttribute is like ParseAttribute but panics on malformed input.
// Intended for tests and static tables.
func MustParseAttribute(s string) Attribute {
	a, err := ParseAttribute(s)
	if err != nil {
		panic(err)
	}
	return a
}

// TableName returns the (optionally schema-qualified) table part.
func (a Attribute) TableName() string {
	if a.Schema == "" {
		return a.Table
	}
	return a.Schema + "." + a.Table
}

// String returns the qualified attribute name, e.g. "orders.total".
func (a Attribute) String() string {
	return a.TableName() + "." + a.Column
}

// AliasMap maps table aliases to the tables they stand for.
// A nil AliasMap is the identity mapping.
type AliasMap map[string]string

// OriginalOf resolves an attribute expressed through an alias to the
// attribute of the underlying table. Unaliased attributes are returned
// unchanged.
func (m AliasMap) OriginalOf(a Attribute) Attribute {
	original, ok := m[a.TableName()]
	if !ok {
		return a
	}
	// The original may itself be schema-qualified.
	if schema, table, found := strings.Cut(original, "."); found {
		return Attribute{Schema: schema, Table: table, Column: a.Column}
	}
	return Attribute{Table: original, Column: a.Column}
}

// IsAlias reports whether name is a registered alias.
func (m AliasMap) IsAlias(name string) bool {
	_, ok := m[name]
	return ok
}
