package loader

import (
	"github.com/inovexcorp/d2rq/pkg/core"
)

// Translation is one entry of a translation table.
type Translation struct {
	DB  string `json:"db" yaml:"db"`
	RDF string `json:"rdf" yaml:"rdf"`
}

// TranslationTable pairs database values with RDF values. A valid table
// is one-to-one in both directions.
type TranslationTable struct {
	resource     core.Resource
	translations []Translation
}

// NewTranslationTable creates an empty table.
func NewTranslationTable(resource core.Resource) *TranslationTable {
	return &TranslationTable{resource: resource}
}

// Resource returns the identity of the table.
func (t *TranslationTable) Resource() core.Resource { return t.resource }

// Add appends a translation. Duplicates are reported by Validate.
func (t *TranslationTable) Add(db, rdf string) {
	t.translations = append(t.translations, Translation{DB: db, RDF: rdf})
}

// Translations returns all entries in insertion order.
func (t *TranslationTable) Translations() []Translation {
	return append([]Translation(nil), t.translations...)
}

// Validate rejects tables whose translation is not one-to-one.
func (t *TranslationTable) Validate() error {
	seenDB := make(map[string]bool, len(t.translations))
	seenRDF := make(map[string]bool, len(t.translations))
	for _, tr := range t.translations {
		if seenDB[tr.DB] {
			return core.Errorf(core.KindInvalidMapping, string(t.resource),
				"translation table %s translates database value %q twice", t.resource, tr.DB)
		}
		if seenRDF[tr.RDF] {
			return core.Errorf(core.KindInvalidMapping, string(t.resource),
				"translation table %s translates to RDF value %q twice", t.resource, tr.RDF)
		}
		seenDB[tr.DB] = true
		seenRDF[tr.RDF] = true
	}
	return nil
}
