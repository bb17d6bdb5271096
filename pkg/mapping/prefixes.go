package mapping

import (
	"sort"
	"strings"
	"sync"
)

// PrefixMapping is a bidirectional table of namespace prefixes.
type PrefixMapping struct {
	mu       sync.RWMutex
	byPrefix map[string]string
	byURI    map[string]string
}

// NewPrefixMapping creates an empty prefix table.
func NewPrefixMapping() *PrefixMapping {
	return &PrefixMapping{
		byPrefix: make(map[string]string),
		byURI:    make(map[string]string),
	}
}

// SetPrefix binds prefix to a namespace URI, replacing an earlier binding
// of the same prefix.
func (p *PrefixMapping) SetPrefix(prefix, uri string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if old, ok := p.byPrefix[prefix]; ok && p.byURI[old] == prefix {
		delete(p.byURI, old)
	}
	p.byPrefix[prefix] = uri
	p.byURI[uri] = prefix
}

// RemovePrefix removes a prefix binding.
func (p *PrefixMapping) RemovePrefix(prefix string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	uri, ok := p.byPrefix[prefix]
	if !ok {
		return
	}
	delete(p.byPrefix, prefix)
	if p.byURI[uri] == prefix {
		delete(p.byURI, uri)
	}
}

// URI returns the namespace bound to prefix.
func (p *PrefixMapping) URI(prefix string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	uri, ok := p.byPrefix[prefix]
	return uri, ok
}

// Prefix returns the prefix bound to a namespace URI.
func (p *PrefixMapping) Prefix(uri string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	prefix, ok := p.byURI[uri]
	return prefix, ok
}

// Expand turns "prefix:local" into a full URI. Names with an unknown
// prefix are returned unchanged.
func (p *PrefixMapping) Expand(qname string) string {
	prefix, local, ok := strings.Cut(qname, ":")
	if !ok {
		return qname
	}
	if uri, ok := p.URI(prefix); ok {
		return uri + local
	}
	return qname
}

// Shorten turns a URI into "prefix:local" using the longest matching
// namespace. URIs outside every namespace are returned unchanged.
func (p *PrefixMapping) Shorten(uri string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	best := ""
	for ns := range p.byURI {
		if strings.HasPrefix(uri, ns) && len(ns) > len(best) {
			best = ns
		}
	}
	if best == "" {
		return uri
	}
	return p.byURI[best] + ":" + uri[len(best):]
}

// Map returns a copy of the prefix to URI bindings.
func (p *PrefixMapping) Map() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]string, len(p.byPrefix))
	for k, v := range p.byPrefix {
		out[k] = v
	}
	return out
}

// Prefixes returns all bound prefixes (sorted).
func (p *PrefixMapping) Prefixes() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, 0, len(p.byPrefix))
	for k := range p.byPrefix {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
