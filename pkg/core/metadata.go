package core

// Column describes a column reported by a database's schema metadata.
type Column struct {
	Name     string
	Type     string
	Nullable bool
	Position int
}

// TableMetadata holds the columns of one database table.
type TableMetadata struct {
	Schema  string
	Name    string
	Columns []Column
}

// Column returns the named column, if present.
func (m *TableMetadata) Column(name string) (Column, bool) {
	for _, c := range m.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}
