package loader

import (
	"fmt"

	"github.com/inovexcorp/d2rq/pkg/core"
	"github.com/inovexcorp/d2rq/pkg/mapping"
)

// RDFType is the property of the rules that assign classes.
const RDFType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// PropertyBridge produces one property of the resources of a class map.
// Exactly one of Column, Pattern and Value is set.
type PropertyBridge struct {
	Resource    core.Resource
	Property    string
	Column      *core.Attribute
	Pattern     *Pattern
	Value       string
	Translation *TranslationTable
}

func (b *PropertyBridge) attributes() []core.Attribute {
	switch {
	case b.Column != nil:
		return []core.Attribute{*b.Column}
	case b.Pattern != nil:
		return b.Pattern.Attributes()
	default:
		return nil
	}
}

// ClassMap maps the rows of a table to resources built from a URI
// pattern.
type ClassMap struct {
	resource core.Resource
	database *mapping.Database
	subject  *Pattern
	classes  []string
	aliases  core.AliasMap
	bridges  []*PropertyBridge
}

// NewClassMap creates a class map over db. db may be nil; Validate then
// reports the missing database.
func NewClassMap(resource core.Resource, db *mapping.Database, subject *Pattern) *ClassMap {
	return &ClassMap{resource: resource, database: db, subject: subject}
}

// Resource returns the identity of the class map.
func (c *ClassMap) Resource() core.Resource { return c.resource }

// AddClass adds a class assigned to every resource of the map.
func (c *ClassMap) AddClass(class string) { c.classes = append(c.classes, class) }

// SetAliases sets the table aliases used by the subject pattern and the
// bridges.
func (c *ClassMap) SetAliases(aliases core.AliasMap) { c.aliases = aliases }

// AddBridge appends a property bridge.
func (c *ClassMap) AddBridge(b *PropertyBridge) { c.bridges = append(c.bridges, b) }

// Bridges returns the property bridges of the class map.
func (c *ClassMap) Bridges() []*PropertyBridge { return c.bridges }

// Validate checks the class map and its bridges.
func (c *ClassMap) Validate() error {
	if c.database == nil {
		return core.Errorf(core.KindInvalidMapping, string(c.resource),
			"class map %s has no database", c.resource)
	}
	if c.subject == nil {
		return core.Errorf(core.KindInvalidMapping, string(c.resource),
			"class map %s has no URI pattern", c.resource)
	}
	if len(c.subject.Attributes()) == 0 {
		return core.Errorf(core.KindInvalidMapping, string(c.resource),
			"URI pattern %q of class map %s references no column", c.subject, c.resource)
	}
	for alias, table := range c.aliases {
		if alias == table {
			return core.Errorf(core.KindInvalidMapping, string(c.resource),
				"class map %s aliases table %s to itself", c.resource, table)
		}
	}
	for _, b := range c.bridges {
		if err := c.validateBridge(b); err != nil {
			return err
		}
	}
	return nil
}

func (c *ClassMap) validateBridge(b *PropertyBridge) error {
	if b.Property == "" {
		return core.Errorf(core.KindInvalidMapping, string(b.Resource),
			"property bridge %s of class map %s has no property", b.Resource, c.resource)
	}
	set := 0
	for _, present := range []bool{b.Column != nil, b.Pattern != nil, b.Value != ""} {
		if present {
			set++
		}
	}
	if set != 1 {
		return core.Errorf(core.KindInvalidMapping, string(b.Resource),
			"property bridge %s needs exactly one of column, pattern or value", b.Resource)
	}
	if b.Translation != nil && b.Column == nil {
		return core.Errorf(core.KindInvalidMapping, string(b.Resource),
			"property bridge %s can only translate column values", b.Resource)
	}
	return nil
}

// CompiledRules returns one rule per class and one per property bridge.
func (c *ClassMap) CompiledRules() ([]mapping.ProjectionRule, error) {
	if c.subject == nil {
		return nil, fmt.Errorf("class map %s has no URI pattern", c.resource)
	}
	rules := make([]mapping.ProjectionRule, 0, len(c.classes)+len(c.bridges))
	for _, class := range c.classes {
		rules = append(rules, c.rule(&PropertyBridge{Resource: c.resource, Property: RDFType, Value: class}))
	}
	for _, b := range c.bridges {
		rules = append(rules, c.rule(b))
	}
	return rules, nil
}

func (c *ClassMap) rule(b *PropertyBridge) *Rule {
	return &Rule{classMap: c.resource, database: c.database, aliases: c.aliases, subject: c.subject, bridge: b}
}

// Rule is a compiled projection: one property of the resources of a
// class map.
type Rule struct {
	classMap core.Resource
	database *mapping.Database
	aliases  core.AliasMap
	subject  *Pattern
	bridge   *PropertyBridge
}

// ClassMap returns the class map the rule was compiled from.
func (r *Rule) ClassMap() core.Resource { return r.classMap }

// Database returns the source of the rule.
func (r *Rule) Database() *mapping.Database { return r.database }

// Aliases returns the table aliases of the owning class map.
func (r *Rule) Aliases() core.AliasMap { return r.aliases }

// Subject returns the URI pattern of the produced resources.
func (r *Rule) Subject() *Pattern { return r.subject }

// Bridge returns the property bridge the rule projects.
func (r *Rule) Bridge() *PropertyBridge { return r.bridge }

// RequiredAttributes returns the columns read by the subject pattern and
// the bridge, without duplicates.
func (r *Rule) RequiredAttributes() []core.Attribute {
	seen := make(map[core.Attribute]bool)
	var out []core.Attribute
	for _, a := range append(r.subject.Attributes(), r.bridge.attributes()...) {
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	return out
}

func (r *Rule) String() string {
	return fmt.Sprintf("%s %s <%s>", r.classMap, r.subject, r.bridge.Property)
}
