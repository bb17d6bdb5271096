package driver

import (
	"log/slog"
	"sync"

	"github.com/inovexcorp/d2rq/pkg/core"
)

// Registry is an append-only set of registered drivers.
// Registering a driver twice is a no-op. A Registry is safe for
// concurrent use.
type Registry struct {
	src    Source
	logger *slog.Logger

	mu     sync.RWMutex
	byName map[string]*Driver
	// order keeps registration order for GuessDriver.
	order []*Driver
}

// NewRegistry creates an empty registry resolving names through src.
// A nil src uses the process-wide catalog; a nil logger discards output.
func NewRegistry(src Source, logger *slog.Logger) *Registry {
	if src == nil {
		src = available
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		src:    src,
		logger: logger,
		byName: make(map[string]*Driver),
	}
}

// RegisterIfPresent registers the named driver if it can be found.
// Unknown names are ignored.
func (r *Registry) RegisterIfPresent(name string) {
	if _, ok := r.register(name); !ok {
		r.logger.Debug("driver not present, skipping", slog.String("driver", name))
	}
}

// Register registers the named driver, failing with KindDriverNotFound
// when it is not available.
func (r *Registry) Register(name string) error {
	if _, ok := r.register(name); !ok {
		return core.Errorf(core.KindDriverNotFound, name, "database driver not found: %s", name)
	}
	return nil
}

func (r *Registry) register(name string) (*Driver, bool) {
	r.mu.RLock()
	d, ok := r.byName[name]
	r.mu.RUnlock()
	if ok {
		return d, true
	}

	d, ok = r.src.Lookup(name)
	if !ok {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byName[name]; ok {
		return existing, true
	}
	r.byName[name] = d
	r.byName[d.Name] = d
	if !r.containsLocked(d) {
		r.order = append(r.order, d)
		r.logger.Debug("registered driver", slog.String("driver", d.Name), slog.String("requested", name))
	}
	return d, true
}

func (r *Registry) containsLocked(d *Driver) bool {
	for _, o := range r.order {
		if o == d {
			return true
		}
	}
	return false
}

// Get returns a registered driver by its primary name or the name it was
// registered under.
func (r *Registry) Get(name string) (*Driver, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byName[name]
	return d, ok
}

// GuessDriver returns the name of an already registered driver that
// claims url. This is best effort: a driver that would handle url but has
// not been registered yet is not found.
func (r *Registry) GuessDriver(url string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.order {
		if d.Claims(url) {
			return d.Name, true
		}
	}
	return "", false
}

// Registered returns the primary names of registered drivers in
// registration order.
func (r *Registry) Registered() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	for i, d := range r.order {
		names[i] = d.Name
	}
	return names
}
