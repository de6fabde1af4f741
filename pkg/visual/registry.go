package visual

import (
	"slices"
	"sync"

	"github.com/matzehuels/chartpack/pkg/errors"
	"github.com/matzehuels/chartpack/pkg/settings"
)

// Factory creates an uninitialized visual.
type Factory func() Visual

// Info describes a registered visual type.
type Info struct {
	Name        string
	Description string
	Schema      *settings.Schema
	Factory     Factory
}

// Registry maps visual type tags to factories.
type Registry struct {
	mu    sync.RWMutex
	infos map[string]Info
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{infos: make(map[string]Info)}
}

// Default is the registry the built-in plugins register with.
var Default = NewRegistry()

// Register adds a visual type. It panics when the name is empty or taken,
// since registration happens at init time.
func (r *Registry) Register(info Info) {
	if info.Name == "" || info.Factory == nil {
		panic("visual: Register with empty name or nil factory")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.infos[info.Name]; dup {
		panic("visual: Register called twice for " + info.Name)
	}
	r.infos[info.Name] = info
}

// Register adds a visual type to the Default registry.
func Register(info Info) { Default.Register(info) }

// Lookup returns the registration of name.
func (r *Registry) Lookup(name string) (Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.infos[name]
	return info, ok
}

// New creates a visual of type name.
func (r *Registry) New(name string) (Visual, error) {
	info, ok := r.Lookup(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidVisual, "unknown visual %q (available: %v)", name, r.Names())
	}
	return info.Factory(), nil
}

// Names returns the registered type tags in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.infos))
	for n := range r.infos {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Infos returns all registrations sorted by name.
func (r *Registry) Infos() []Info {
	names := r.Names()
	out := make([]Info, 0, len(names))
	for _, n := range names {
		info, _ := r.Lookup(n)
		out = append(out, info)
	}
	return out
}
