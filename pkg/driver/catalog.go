package driver

import (
	"sort"
	"sync"
)

// Source resolves driver names to loadable drivers.
type Source interface {
	Lookup(name string) (*Driver, bool)
}

// Catalog is a set of drivers indexed by name and alias.
type Catalog struct {
	mu      sync.RWMutex
	drivers map[string]*Driver
}

// NewCatalog creates an empty catalog. Tests use private catalogs;
// production code uses the process-wide one via Provide and Available.
func NewCatalog() *Catalog {
	return &Catalog{drivers: make(map[string]*Driver)}
}

// Add makes d resolvable under its name and every alias.
func (c *Catalog) Add(d *Driver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range d.names() {
		c.drivers[n] = d
	}
}

// Lookup returns the driver known under name.
func (c *Catalog) Lookup(name string) (*Driver, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.drivers[name]
	return d, ok
}

// Names returns the primary names of all drivers (sorted).
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[string]struct{})
	names := make([]string, 0, len(c.drivers))
	for _, d := range c.drivers {
		if _, ok := seen[d.Name]; ok {
			continue
		}
		seen[d.Name] = struct{}{}
		names = append(names, d.Name)
	}
	sort.Strings(names)
	return names
}

var available = NewCatalog()

// Provide adds a driver to the process-wide catalog.
// Called by driver packages in their init() functions.
func Provide(d *Driver) {
	available.Add(d)
}

// Available returns the process-wide catalog of compiled-in drivers.
func Available() *Catalog {
	return available
}
