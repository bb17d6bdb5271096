package core

// DialectConfig is the static part of an expression translator: how the
// target database spells identifiers and parameters. pkg/dialect adds the
// behavior on top of it.
type DialectConfig struct {
	Name          string
	Identifiers   IdentifierConfig
	DefaultSchema string // schema of unqualified tables ("public", "main")
	Placeholder   PlaceholderStyle

	// SupportsDistinct is false for engines that cannot run SELECT DISTINCT
	// over every column type a mapping may project.
	SupportsDistinct bool
}

// IdentifierConfig describes identifier quoting. QuoteEnd differs from
// Quote only for bracket quoting; Escape replaces a QuoteEnd inside a name.
type IdentifierConfig struct {
	Quote         string
	QuoteEnd      string
	Escape        string
	Normalization NormalizationStrategy
}

// NormalizationStrategy is the case folding applied to unquoted identifiers
// before they are compared with catalog names.
type NormalizationStrategy int

const (
	NormLowercase NormalizationStrategy = iota
	NormUppercase
	NormCaseSensitive
	NormCaseInsensitive // compared lowercased, stored as written
)

// PlaceholderStyle selects "?" or "$n" query parameters.
type PlaceholderStyle int

const (
	PlaceholderQuestion PlaceholderStyle = iota
	PlaceholderDollar
)
