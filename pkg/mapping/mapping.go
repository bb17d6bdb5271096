package mapping

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/inovexcorp/d2rq/pkg/core"
	"golang.org/x/sync/singleflight"
)

// Mapping is the registry of all objects of one mapping.
//
// Registering an object under a resource that is already taken replaces
// the previous object. This differs deliberately from Database, whose own
// fields reject a second assignment.
type Mapping struct {
	resource core.Resource
	logger   *slog.Logger

	databases         ordered[*Database]
	classMaps         ordered[ClassMap]
	translationTables ordered[TranslationTable]
	prefixes          *PrefixMapping

	flight   singleflight.Group
	compiled atomic.Pointer[RuleSet]
}

// Option configures a Mapping.
type Option func(*Mapping)

// WithLogger sets the logger of the mapping.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mapping) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates an empty mapping. An empty resource is replaced by a fresh
// blank node.
func New(resource core.Resource, opts ...Option) *Mapping {
	if resource == "" {
		resource = core.NewBlankResource()
	}
	m := &Mapping{
		resource:          resource,
		logger:            slog.New(slog.DiscardHandler),
		databases:         newOrdered[*Database](),
		classMaps:         newOrdered[ClassMap](),
		translationTables: newOrdered[TranslationTable](),
		prefixes:          NewPrefixMapping(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Resource returns the identity of the mapping.
func (m *Mapping) Resource() core.Resource { return m.resource }

// Prefixes returns the namespace prefix table of the mapping.
func (m *Mapping) Prefixes() *PrefixMapping { return m.prefixes }

// AddDatabase registers a database under its resource.
func (m *Mapping) AddDatabase(db *Database) {
	m.databases.put(db.Resource(), db)
}

// Database looks up a database by resource.
func (m *Mapping) Database(id core.Resource) (*Database, bool) {
	return m.databases.get(id)
}

// Databases returns all databases in registration order.
func (m *Mapping) Databases() []*Database {
	return m.databases.all()
}

// AddClassMap registers a class map under its resource.
func (m *Mapping) AddClassMap(cm ClassMap) {
	m.classMaps.put(cm.Resource(), cm)
}

// ClassMap looks up a class map by resource.
func (m *Mapping) ClassMap(id core.Resource) (ClassMap, bool) {
	return m.classMaps.get(id)
}

// ClassMapResources returns the resources of all class maps in
// registration order.
func (m *Mapping) ClassMapResources() []core.Resource {
	return m.classMaps.resources()
}

// AddTranslationTable registers a translation table under its resource.
func (m *Mapping) AddTranslationTable(t TranslationTable) {
	m.translationTables.put(t.Resource(), t)
}

// TranslationTable looks up a translation table by resource.
func (m *Mapping) TranslationTable(id core.Resource) (TranslationTable, bool) {
	return m.translationTables.get(id)
}

// TranslationTables returns all translation tables in registration order.
func (m *Mapping) TranslationTables() []TranslationTable {
	return m.translationTables.all()
}

// Validate checks the whole mapping: databases first, then translation
// tables, then class maps. The first violation found is returned.
func (m *Mapping) Validate() error {
	if m.databases.len() == 0 {
		return core.Errorf(core.KindNoConnectionDescriptor, string(m.resource), "no d2rq:Database defined in the mapping")
	}
	for _, db := range m.databases.all() {
		if err := db.Validate(); err != nil {
			return err
		}
	}
	for _, t := range m.translationTables.all() {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	for _, cm := range m.classMaps.all() {
		if err := cm.Validate(); err != nil {
			return err
		}
	}
	m.logger.Debug("mapping validated",
		slog.String("mapping", string(m.resource)),
		slog.Int("databases", m.databases.len()),
		slog.Int("translation_tables", m.translationTables.len()),
		slog.Int("class_maps", m.classMaps.len()))
	return nil
}

// CompiledRules returns the projection rules of all class maps.
//
// The first call compiles every class map and type-checks each rule
// against its database; concurrent first callers share that single
// compilation. The shared compilation keeps the values of ctx but not its
// cancellation, so a caller that gives up returns its own ctx.Err() while
// the others still receive the result. Once compilation succeeds the same
// RuleSet is returned forever, even if class maps are registered
// afterwards. A failed compilation is not cached.
func (m *Mapping) CompiledRules(ctx context.Context) (*RuleSet, error) {
	if rs := m.compiled.Load(); rs != nil {
		return rs, nil
	}
	ch := m.flight.DoChan("compile", func() (any, error) {
		if rs := m.compiled.Load(); rs != nil {
			return rs, nil
		}
		rs, err := m.compile(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		m.compiled.Store(rs)
		return rs, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*RuleSet), nil
	}
}

func (m *Mapping) compile(ctx context.Context) (*RuleSet, error) {
	start := time.Now()

	var rules []ProjectionRule
	for _, cm := range m.classMaps.all() {
		compiled, err := cm.CompiledRules()
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s: %w", cm.Resource(), err)
		}
		rules = append(rules, compiled...)
	}

	for _, rule := range rules {
		if err := assertHasColumnTypes(ctx, rule); err != nil {
			return nil, err
		}
	}

	m.logger.Info("compiled mapping",
		slog.String("mapping", string(m.resource)),
		slog.Int("rules", len(rules)),
		slog.Duration("elapsed", time.Since(start)))
	return &RuleSet{rules: rules}, nil
}

// assertHasColumnTypes resolves the type of every attribute a rule reads,
// so that unknown columns fail now rather than when a query runs.
func assertHasColumnTypes(ctx context.Context, rule ProjectionRule) error {
	db := rule.Database()
	if db == nil {
		return core.Errorf(core.KindUnknownColumn, "", "projection rule %v has no database", rule)
	}
	conn, err := db.Connection()
	if err != nil {
		return err
	}
	aliases := rule.Aliases()
	for _, attr := range rule.RequiredAttributes() {
		if _, err := conn.ColumnType(ctx, aliases.OriginalOf(attr)); err != nil {
			return err
		}
	}
	return nil
}
