package dialect

import (
	"slices"
	"strings"
	"sync"
)

var registry = struct {
	sync.RWMutex
	byName   map[string]*Dialect
	fallback *Dialect
}{byName: make(map[string]*Dialect)}

// Get resolves an expression translator name, ignoring case.
func Get(name string) (*Dialect, bool) {
	registry.RLock()
	defer registry.RUnlock()
	d, ok := registry.byName[strings.ToLower(name)]
	return d, ok
}

// Register makes d resolvable by its name. A later registration under the
// same name replaces the earlier one.
func Register(d *Dialect) {
	registry.Lock()
	defer registry.Unlock()
	registry.byName[strings.ToLower(d.Name)] = d
}

// List returns the registered dialect names, sorted.
func List() []string {
	registry.RLock()
	defer registry.RUnlock()
	names := make([]string, 0, len(registry.byName))
	for name := range registry.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SetDefault sets the dialect used when neither the database nor its
// driver names one.
func SetDefault(d *Dialect) {
	registry.Lock()
	defer registry.Unlock()
	registry.fallback = d
}

// Default returns the fallback dialect.
func Default() *Dialect {
	registry.RLock()
	defer registry.RUnlock()
	return registry.fallback
}
