package core

// ColumnType classifies a column for expression translation.
type ColumnType int

const (
	// ColumnUnknown is the zero value and never returned for a resolved column.
	ColumnUnknown ColumnType = iota
	// ColumnText is a character column.
	ColumnText
	// ColumnNumeric is an integer, decimal or floating point column.
	ColumnNumeric
	// ColumnDate is a date, time or timestamp column.
	ColumnDate
)

// String returns the string representation of ColumnType.
func (t ColumnType) String() string {
	switch t {
	case ColumnText:
		return "text"
	case ColumnNumeric:
		return "numeric"
	case ColumnDate:
		return "date"
	default:
		return "unknown"
	}
}
