package loader

import (
	"fmt"
	"strings"

	"github.com/inovexcorp/d2rq/pkg/core"
)

const patternDelimiter = "@@"

// Pattern is a value template with embedded column references, e.g.
// "http://example.org/order/@@orders.id@@". A reference may name an
// encoding function: "@@orders.name|urlencode@@".
type Pattern struct {
	raw      string
	literals []string
	columns  []patternColumn
}

type patternColumn struct {
	attr     core.Attribute
	function string
}

// patternFunctions are the value encodings a reference may name:
// urlencode (query escaping), encode (path escaping) and urlify (path
// escaping with spaces as underscores).
var patternFunctions = map[string]bool{"": true, "urlencode": true, "encode": true, "urlify": true}

// ParsePattern parses a pattern. Literal text between references is kept
// verbatim.
func ParsePattern(s string) (*Pattern, error) {
	p := &Pattern{raw: s}
	rest := s
	for {
		start := strings.Index(rest, patternDelimiter)
		if start < 0 {
			p.literals = append(p.literals, rest)
			return p, nil
		}
		p.literals = append(p.literals, rest[:start])
		rest = rest[start+len(patternDelimiter):]

		end := strings.Index(rest, patternDelimiter)
		if end < 0 {
			return nil, fmt.Errorf("unterminated column reference in pattern %q", s)
		}
		ref, fn, _ := strings.Cut(rest[:end], "|")
		if !patternFunctions[fn] {
			return nil, fmt.Errorf("unknown function %q in pattern %q", fn, s)
		}
		attr, err := core.ParseAttribute(ref)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", s, err)
		}
		p.columns = append(p.columns, patternColumn{attr: attr, function: fn})
		rest = rest[end+len(patternDelimiter):]
	}
}

// Attributes returns the columns referenced by the pattern, in order of
// appearance.
func (p *Pattern) Attributes() []core.Attribute {
	out := make([]core.Attribute, len(p.columns))
	for i, c := range p.columns {
		out[i] = c.attr
	}
	return out
}

func (p *Pattern) String() string { return p.raw }
