// Package dialect provides the SQL expression dialects ("expression
// translators") a database connection can be configured with.
//
// A dialect is pure configuration: identifier quoting and normalization,
// parameter placeholder style, default schema and DISTINCT capability.
// Dialects are registered by name; a database's expression translator
// override is resolved against this registry.
package dialect

import (
	"strconv"
	"strings"

	"github.com/inovexcorp/d2rq/pkg/core"
)

// Dialect represents a SQL expression dialect.
type Dialect struct {
	core.DialectConfig

	// reservedWords are identifiers that must always be quoted.
	reservedWords map[string]struct{}
}

// Builder constructs a Dialect.
type Builder struct {
	d *Dialect
}

// NewDialect starts building a dialect with ANSI defaults.
func NewDialect(name string) *Builder {
	return &Builder{d: &Dialect{
		DialectConfig: core.DialectConfig{
			Name: name,
			Identifiers: core.IdentifierConfig{
				Quote:         `"`,
				QuoteEnd:      `"`,
				Escape:        `""`,
				Normalization: core.NormLowercase,
			},
			Placeholder:      core.PlaceholderQuestion,
			SupportsDistinct: true,
		},
		reservedWords: make(map[string]struct{}),
	}}
}

// Identifiers sets quoting and normalization rules.
func (b *Builder) Identifiers(quote, quoteEnd, escape string, norm core.NormalizationStrategy) *Builder {
	b.d.Identifiers = core.IdentifierConfig{
		Quote:         quote,
		QuoteEnd:      quoteEnd,
		Escape:        escape,
		Normalization: norm,
	}
	return b
}

// DefaultSchema sets the schema assumed for unqualified tables.
func (b *Builder) DefaultSchema(schema string) *Builder {
	b.d.DefaultSchema = schema
	return b
}

// Placeholder sets the parameter placeholder style.
func (b *Builder) Placeholder(style core.PlaceholderStyle) *Builder {
	b.d.Placeholder = style
	return b
}

// Distinct sets whether SELECT DISTINCT is supported.
func (b *Builder) Distinct(supported bool) *Builder {
	b.d.SupportsDistinct = supported
	return b
}

// ReservedWords adds words that must be quoted when used as identifiers.
func (b *Builder) ReservedWords(words ...string) *Builder {
	for _, w := range words {
		b.d.reservedWords[strings.ToLower(w)] = struct{}{}
	}
	return b
}

// Build returns the configured dialect.
func (b *Builder) Build() *Dialect {
	return b.d
}

// NormalizeName normalizes an identifier according to dialect rules.
func (d *Dialect) NormalizeName(name string) string {
	switch d.Identifiers.Normalization {
	case core.NormUppercase:
		return strings.ToUpper(name)
	case core.NormLowercase, core.NormCaseInsensitive:
		return strings.ToLower(name)
	default: // NormCaseSensitive
		return name
	}
}

// FormatPlaceholder returns a placeholder for the given parameter index (1-based).
// Returns "?" for PlaceholderQuestion style, "$1", "$2" etc. for PlaceholderDollar style.
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.Placeholder {
	case core.PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	default: // PlaceholderQuestion
		return "?"
	}
}

// IsReservedWord returns true if the word needs quoting when used as an identifier.
func (d *Dialect) IsReservedWord(word string) bool {
	_, ok := d.reservedWords[strings.ToLower(word)]
	return ok
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	// Escape any existing quote end characters in the name (e.g., ] -> ]])
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// QuoteIdentifierIfNeeded quotes an identifier only if it's a reserved word.
func (d *Dialect) QuoteIdentifierIfNeeded(name string) string {
	if d.IsReservedWord(name) {
		return d.QuoteIdentifier(name)
	}
	return name
}

// QuoteAttribute renders a qualified column reference, quoting each part
// that needs it.
func (d *Dialect) QuoteAttribute(a core.Attribute) string {
	parts := make([]string, 0, 3)
	if a.Schema != "" {
		parts = append(parts, d.QuoteIdentifierIfNeeded(a.Schema))
	}
	parts = append(parts, d.QuoteIdentifierIfNeeded(a.Table), d.QuoteIdentifierIfNeeded(a.Column))
	return strings.Join(parts, ".")
}
