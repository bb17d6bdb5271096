// Package mapping holds the registry of a d2rq mapping: its databases,
// class maps and translation tables, the namespace prefixes, and the
// compilation of class maps into projection rules.
//
// A Mapping is populated during a single-threaded loading phase, validated
// once, and then read concurrently. Compilation happens lazily on the first
// call to CompiledRules and its result is shared by all later callers.
package mapping

import "github.com/inovexcorp/d2rq/pkg/core"

// ClassMap is a mapping rule object that compiles into projection rules.
// Implementations live with the mapping parser.
type ClassMap interface {
	Resource() core.Resource

	// Validate checks the class map and its property bridges.
	Validate() error

	// CompiledRules returns the projection rules of the class map.
	CompiledRules() ([]ProjectionRule, error)
}

// TranslationTable is a value lookup table referenced by resource.
type TranslationTable interface {
	Resource() core.Resource
	Validate() error
}

// ProjectionRule is a compiled rule tying relational attributes to an
// output record shape.
type ProjectionRule interface {
	// Database is the source the rule was compiled against.
	Database() *Database

	// Aliases resolves table aliases used by RequiredAttributes.
	Aliases() core.AliasMap

	// RequiredAttributes lists every attribute the rule reads.
	RequiredAttributes() []core.Attribute
}

// RuleSet is the compiled, ordered collection of projection rules of a
// mapping. It is immutable once built.
type RuleSet struct {
	rules []ProjectionRule
}

// Rules returns the compiled rules in class map registration order.
// The returned slice is shared and must not be modified.
func (s *RuleSet) Rules() []ProjectionRule {
	return s.rules
}

// Len returns the number of compiled rules.
func (s *RuleSet) Len() int {
	return len(s.rules)
}

// ordered is an identity-keyed registry that remembers insertion order.
// Re-adding a key replaces the value in place.
type ordered[V any] struct {
	keys   []core.Resource
	values map[core.Resource]V
}

func newOrdered[V any]() ordered[V] {
	return ordered[V]{values: make(map[core.Resource]V)}
}

func (o *ordered[V]) put(key core.Resource, v V) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

func (o *ordered[V]) get(key core.Resource) (V, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *ordered[V]) all() []V {
	out := make([]V, 0, len(o.keys))
	for _, k := range o.keys {
		out = append(out, o.values[k])
	}
	return out
}

func (o *ordered[V]) resources() []core.Resource {
	return append([]core.Resource(nil), o.keys...)
}

func (o *ordered[V]) len() int {
	return len(o.keys)
}
