// Package loader builds a mapping from a YAML mapping file.
//
// The file lists prefixes, databases, translation tables and class maps.
// Names of the form "prefix:local" are expanded with the file's prefixes.
// Values of the form ${VAR} in connection strings and credentials are
// read from the environment.
package loader

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/inovexcorp/d2rq/pkg/core"
	"github.com/inovexcorp/d2rq/pkg/driver"
	"github.com/inovexcorp/d2rq/pkg/mapping"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("attribute", func(fl validator.FieldLevel) bool {
		_, err := core.ParseAttribute(fl.Field().String())
		return err == nil
	})
	return v
}

// Loader reads mapping files.
type Loader struct {
	drivers *driver.Registry
	logger  *slog.Logger
}

// New creates a loader. Databases of loaded mappings share drivers; a nil
// registry gives every database a private one.
func New(drivers *driver.Registry, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{drivers: drivers, logger: logger}
}

// Load reads a mapping file. It does not validate the mapping.
func (l *Loader) Load(path string) (*mapping.Mapping, error) {
	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := l.Build(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l.logger.Debug("loaded mapping",
		slog.String("path", path),
		slog.Int("databases", len(m.Databases())),
		slog.Int("class_maps", len(m.ClassMapResources())))
	return m, nil
}

// ReadFile parses and structurally checks a mapping file.
func ReadFile(path string) (*File, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("error reading mapping file %s: %w", path, err)
	}

	var f File
	if err := k.UnmarshalWithConf("", &f, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       stringOrListHook(),
			Result:           &f,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode mapping file %s: %w", path, err)
	}

	if err := validate.Struct(&f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, core.Wrap(core.KindInvalidMapping, verrs[0].Namespace(), err,
				"%s: invalid value for %s (%s)", path, verrs[0].Namespace(), verrs[0].Tag())
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}

// Build turns a decoded file into a mapping.
func (l *Loader) Build(f *File) (*mapping.Mapping, error) {
	prefixes := mapping.NewPrefixMapping()
	for prefix, uri := range f.Prefixes {
		prefixes.SetPrefix(prefix, uri)
	}
	var id core.Resource
	if f.ID != "" {
		id = core.Resource(prefixes.Expand(f.ID))
	}
	m := mapping.New(id, mapping.WithLogger(l.logger))
	for prefix, uri := range prefixes.Map() {
		m.Prefixes().SetPrefix(prefix, uri)
	}
	res := func(id string) core.Resource { return core.Resource(m.Prefixes().Expand(id)) }

	for _, e := range f.Databases {
		if err := l.addDatabase(m, res(e.ID), e); err != nil {
			return nil, err
		}
	}

	for _, e := range f.TranslationTables {
		t := NewTranslationTable(res(e.ID))
		for _, tr := range e.Translations {
			t.Add(tr.DB, tr.RDF)
		}
		m.AddTranslationTable(t)
	}

	for _, e := range f.ClassMaps {
		cm, err := buildClassMap(m, res, e)
		if err != nil {
			return nil, err
		}
		m.AddClassMap(cm)
	}
	return m, nil
}

func (l *Loader) addDatabase(m *mapping.Mapping, id core.Resource, e DatabaseEntry) error {
	db, ok := m.Database(id)
	if !ok {
		db = mapping.NewDatabase(id, l.drivers, mapping.WithDatabaseLogger(l.logger))
		m.AddDatabase(db)
	}

	setters := []struct {
		value string
		set   func(string) error
	}{
		{expandEnvVars(e.ODBCDSN), db.SetODBCDSN},
		{expandEnvVars(e.JDBCDSN), db.SetJDBCDSN},
		{e.JDBCDriver, db.SetJDBCDriver},
		{expandEnvVars(e.Username), db.SetUsername},
		{expandEnvVars(e.Password), db.SetPassword},
	}
	for _, s := range setters {
		if s.value == "" {
			continue
		}
		if err := s.set(s.value); err != nil {
			return err
		}
	}

	if e.ExpressionTranslator != "" {
		db.SetExpressionTranslator(e.ExpressionTranslator)
	}
	if e.AllowDistinct != nil {
		db.SetAllowDistinct(*e.AllowDistinct)
	}
	for _, c := range e.TextColumns {
		db.AddTextColumn(c)
	}
	for _, c := range e.NumericColumns {
		db.AddNumericColumn(c)
	}
	for _, c := range e.DateColumns {
		db.AddDateColumn(c)
	}
	return nil
}

func buildClassMap(m *mapping.Mapping, res func(string) core.Resource, e ClassMapEntry) (*ClassMap, error) {
	id := res(e.ID)
	subject, err := ParsePattern(m.Prefixes().Expand(e.URIPattern))
	if err != nil {
		return nil, core.Wrap(core.KindInvalidMapping, string(id), err, "class map %s", id)
	}

	// A dangling database reference is left for Validate to report.
	db, _ := m.Database(res(e.Database))
	cm := NewClassMap(id, db, subject)
	for _, class := range e.Classes {
		cm.AddClass(m.Prefixes().Expand(class))
	}
	if len(e.Aliases) > 0 {
		cm.SetAliases(core.AliasMap(e.Aliases))
	}

	for i, be := range e.Bridges {
		bid := be.ID
		if bid == "" {
			bid = fmt.Sprintf("%s/bridge/%d", e.ID, i)
		}
		b := &PropertyBridge{
			Resource: res(bid),
			Property: m.Prefixes().Expand(be.Property),
			Value:    be.Value,
		}
		if be.Column != "" {
			attr, err := core.ParseAttribute(be.Column)
			if err != nil {
				return nil, core.Wrap(core.KindInvalidMapping, string(b.Resource), err, "property bridge %s", b.Resource)
			}
			b.Column = &attr
		}
		if be.Pattern != "" {
			p, err := ParsePattern(m.Prefixes().Expand(be.Pattern))
			if err != nil {
				return nil, core.Wrap(core.KindInvalidMapping, string(b.Resource), err, "property bridge %s", b.Resource)
			}
			b.Pattern = p
		}
		if be.TranslateWith != "" {
			t, ok := m.TranslationTable(res(be.TranslateWith))
			if !ok {
				return nil, core.Errorf(core.KindInvalidMapping, string(b.Resource),
					"property bridge %s references unknown translation table %s", b.Resource, be.TranslateWith)
			}
			table, ok := t.(*TranslationTable)
			if !ok {
				return nil, fmt.Errorf("translation table %s has unexpected type %T", be.TranslateWith, t)
			}
			b.Translation = table
		}
		cm.AddBridge(b)
	}
	return cm, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns with environment variable values.
// Unset variables are left as they are.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})
}
