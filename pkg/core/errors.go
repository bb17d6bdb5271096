package core

import (
	"errors"
	"fmt"
)

// Kind classifies a mapping error so callers can branch on the failure
// category without matching message text.
type Kind int

const (
	// KindUnknown is reported by KindOf for errors that carry no kind.
	KindUnknown Kind = iota
	// KindDuplicateField means a scalar connection field was set twice.
	KindDuplicateField
	// KindConflictingConnectionMode means ODBC and JDBC parameters were combined.
	KindConflictingConnectionMode
	// KindMissingDriver means a JDBC connection string has no driver.
	KindMissingDriver
	// KindDriverModeConflict means a JDBC driver was given for an ODBC source.
	KindDriverModeConflict
	// KindDriverNotFound means strict driver registration found no such driver.
	KindDriverNotFound
	// KindNoConnectionDescriptor means a mapping has no database.
	KindNoConnectionDescriptor
	// KindUnknownColumn means a compiled rule reads a column the database does not know.
	KindUnknownColumn
	// KindConflictingColumnType means a column was classified into more than one type set.
	KindConflictingColumnType
	// KindMissingConnection means neither ODBC nor JDBC parameters were configured.
	KindMissingConnection
	// KindUnknownExpressionTranslator means the translator override names no dialect.
	KindUnknownExpressionTranslator
	// KindInvalidMapping is a structural error reported by a class map or translation table.
	KindInvalidMapping
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindDuplicateField:
		return "DuplicateField"
	case KindConflictingConnectionMode:
		return "ConflictingConnectionMode"
	case KindMissingDriver:
		return "MissingDriver"
	case KindDriverModeConflict:
		return "DriverModeConflict"
	case KindDriverNotFound:
		return "DriverNotFound"
	case KindNoConnectionDescriptor:
		return "NoConnectionDescriptor"
	case KindUnknownColumn:
		return "UnknownColumn"
	case KindConflictingColumnType:
		return "ConflictingColumnType"
	case KindMissingConnection:
		return "MissingConnection"
	case KindUnknownExpressionTranslator:
		return "UnknownExpressionTranslator"
	case KindInvalidMapping:
		return "InvalidMapping"
	default:
		return "Unknown"
	}
}

// Error is a classified mapping error.
type Error struct {
	Kind Kind
	// Subject names the offending object or value: a resource, a field
	// name, a driver name or an attribute.
	Subject string
	Msg     string
	Err     error
}

// Errorf builds a classified error.
func Errorf(kind Kind, subject string, format string, args ...any) *Error {
	return &Error{Kind: kind, Subject: subject, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds a classified error around a cause.
func Wrap(kind Kind, subject string, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Subject: subject, Msg: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so that
// errors.Is(err, &core.Error{Kind: core.KindUnknownColumn}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Subject == "" || t.Subject == e.Subject)
}

// KindOf returns the kind of the first classified error in err's chain,
// or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
