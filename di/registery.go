package di

import (
	"errors"
	"fmt"
	"sort"
)

// Registry resolves implementation names to factories so bindings can be assembled from
// configuration (see the plan package).
//
// It is intentionally:
// - read-only
// - side effect free
// - wiring-time only
//
// Expected usage:
//
//	f, ok, err := reg.Resolve("v8-cylinder")
type Registry interface {
	Resolve(name string) (f Factory, ok bool, err error)
}

// ErrRegistryPanic is returned if a registry implementation panics internally.
var ErrRegistryPanic = errors.New("registry: panic during Resolve")

// MapRegistry is a simple in-memory registry.
type MapRegistry struct {
	items map[string]Factory
}

// NewMapRegistry returns an empty registry.
func NewMapRegistry() *MapRegistry {
	return &MapRegistry{items: map[string]Factory{}}
}

// Provide stores a factory under a name and returns the registry for chaining.
func (r *MapRegistry) Provide(name string, f Factory) *MapRegistry {
	r.items[name] = f
	return r
}

// Resolve implements Registry and defensively converts panics into errors.
func (r *MapRegistry) Resolve(name string) (f Factory, ok bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			f = nil
			ok = false
			err = fmt.Errorf("%w: %v", ErrRegistryPanic, rec)
		}
	}()

	f, ok = r.items[name]
	return f, ok, nil
}

// Get returns the factory if present (no panic).
func (r *MapRegistry) Get(name string) (Factory, bool) {
	f, ok := r.items[name]
	return f, ok
}

// MustGet returns the factory or panics with a helpful message.
// Useful in examples/tests where missing names should fail fast.
func (r *MapRegistry) MustGet(name string) Factory {
	f, ok := r.items[name]
	if !ok {
		panic(fmt.Errorf("di: registry missing implementation %q", name))
	}
	return f
}

// Names returns the registered implementation names, sorted.
func (r *MapRegistry) Names() []string {
	out := make([]string, 0, len(r.items))
	for name := range r.items {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
