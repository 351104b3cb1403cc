package properties

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"

	"ocm.software/open-component-model/bindings/go/scene/value"
)

// ErrNotRegistered is returned when a type name has no registration.
var ErrNotRegistered = fmt.Errorf("type registration missing")

// Registry is a dynamic registry of reflectable types, keyed by type name.
// It is safe for concurrent use; lookups only take the read lock.
type Registry struct {
	mu     sync.RWMutex
	types  map[string]*Registration
	byType map[reflect.Type]*Registration
}

// NewRegistry creates a new registry.
func NewRegistry() *Registry {
	return &Registry{
		types:  make(map[string]*Registration),
		byType: make(map[reflect.Type]*Registration),
	}
}

func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := NewRegistry()
	maps.Copy(clone.types, r.types)
	maps.Copy(clone.byType, r.byType)
	return clone
}

// Register adds the type of prototype under its declared name and the given aliases.
// Pointer prototypes register their element type.
func (r *Registry) Register(prototype any, aliases ...string) (*Registration, error) {
	t := reflect.TypeOf(prototype)
	if t == nil {
		return nil, fmt.Errorf("cannot register nil prototype")
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	registration := &Registration{Name: TypeNameOf(t), Type: t}

	names := make([]string, 0, len(aliases)+1)
	for _, name := range append([]string{registration.Name}, aliases...) {
		id, err := value.ParseIdentifier(name)
		if err != nil {
			return nil, fmt.Errorf("cannot register %s: %w", t, err)
		}
		names = append(names, id.String())
	}
	registration.Name = names[0]
	registration.Aliases = names[1:]

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.byType[t]; exists {
		return nil, fmt.Errorf("type %s is already registered as %q", t, existing.Name)
	}
	for _, name := range names {
		if _, exists := r.types[name]; exists {
			return nil, fmt.Errorf("type %q is already registered", name)
		}
	}
	for _, name := range names {
		r.types[name] = registration
	}
	r.byType[t] = registration
	return registration, nil
}

func (r *Registry) MustRegister(prototype any, aliases ...string) *Registration {
	registration, err := r.Register(prototype, aliases...)
	if err != nil {
		panic(err)
	}
	return registration
}

// Resolve returns the registration of the given type name or alias.
func (r *Registry) Resolve(name string) (*Registration, error) {
	if registration, ok := r.Lookup(name); ok {
		return registration, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotRegistered, name)
}

// Lookup is like Resolve but reports a missing registration as false.
// Names that are not in canonical form are canonicalized before the lookup.
func (r *Registry) Lookup(name string) (*Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if registration, ok := r.types[name]; ok {
		return registration, true
	}
	id, err := value.ParseIdentifier(name)
	if err != nil {
		return nil, false
	}
	registration, ok := r.types[id.String()]
	return registration, ok
}

// RegistrationFor returns the registration of t.
// Types that were never registered get a derived registration and false.
func (r *Registry) RegistrationFor(t reflect.Type) (*Registration, bool) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if registration, ok := r.byType[t]; ok {
		return registration, true
	}
	return &Registration{Name: TypeNameOf(t), Type: t}, false
}

// Names returns the sorted primary names of all registrations.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byType))
	for _, registration := range r.byType {
		names = append(names, registration.Name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered reports whether the name or alias is known.
func (r *Registry) IsRegistered(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}
