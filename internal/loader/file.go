package loader

import (
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// File is the decoded form of a mapping file.
type File struct {
	ID                string                 `koanf:"id"`
	Prefixes          map[string]string      `koanf:"prefixes"`
	Databases         []DatabaseEntry        `koanf:"databases" validate:"dive"`
	TranslationTables []TranslationTableItem `koanf:"translation_tables" validate:"dive"`
	ClassMaps         []ClassMapEntry        `koanf:"class_maps" validate:"dive"`
}

// DatabaseEntry describes a database. Entries sharing an id describe the
// same database, so a field repeated across them is a duplicate.
type DatabaseEntry struct {
	ID                   string   `koanf:"id" validate:"required"`
	ODBCDSN              string   `koanf:"odbc_dsn"`
	JDBCDSN              string   `koanf:"jdbc_dsn"`
	JDBCDriver           string   `koanf:"jdbc_driver"`
	Username             string   `koanf:"username"`
	Password             string   `koanf:"password"`
	ExpressionTranslator string   `koanf:"expression_translator"`
	AllowDistinct        *bool    `koanf:"allow_distinct"`
	TextColumns          []string `koanf:"text_columns" validate:"dive,attribute"`
	NumericColumns       []string `koanf:"numeric_columns" validate:"dive,attribute"`
	DateColumns          []string `koanf:"date_columns" validate:"dive,attribute"`
}

// TranslationTableItem describes a translation table.
type TranslationTableItem struct {
	ID           string             `koanf:"id" validate:"required"`
	Translations []TranslationEntry `koanf:"translations" validate:"dive"`
}

// TranslationEntry is one db/rdf value pair.
type TranslationEntry struct {
	DB  string `koanf:"db" validate:"required"`
	RDF string `koanf:"rdf" validate:"required"`
}

// ClassMapEntry describes a class map.
type ClassMapEntry struct {
	ID         string            `koanf:"id" validate:"required"`
	Database   string            `koanf:"database" validate:"required"`
	URIPattern string            `koanf:"uri_pattern" validate:"required"`
	Classes    []string          `koanf:"classes"`
	Aliases    map[string]string `koanf:"aliases"`
	Bridges    []BridgeEntry     `koanf:"bridges" validate:"dive"`
}

// BridgeEntry describes a property bridge.
type BridgeEntry struct {
	ID            string `koanf:"id"`
	Property      string `koanf:"property" validate:"required"`
	Column        string `koanf:"column" validate:"omitempty,attribute"`
	Pattern       string `koanf:"pattern"`
	Value         string `koanf:"value"`
	TranslateWith string `koanf:"translate_with"`
}

var stringSliceType = reflect.TypeOf([]string(nil))

// stringOrListHook accepts a comma separated string wherever a list of
// strings is expected, so "text_columns: a.x, a.y" works as well as a
// YAML sequence.
func stringOrListHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != stringSliceType {
			return data, nil
		}
		s, _ := data.(string)
		if strings.TrimSpace(s) == "" {
			return []string{}, nil
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	}
}
