package di

import (
	"strings"
)

// DependencyKey names a dependency a unit requires.
//
// Keys are compared after normalization (surrounding space trimmed, lower-cased), so
// "Cylinder" and "cylinder" name the same dependency. They are typically package-level
// constants:
//
//	const KeyCylinder di.DependencyKey = "cylinder"
type DependencyKey string

// Key converts a string into a DependencyKey.
func Key(name string) DependencyKey { return DependencyKey(name) }

func normalize(k DependencyKey) DependencyKey {
	return DependencyKey(strings.ToLower(strings.TrimSpace(string(k))))
}

// Initializer is a unit's own constructor. It receives the construction Deps and the
// args the caller passed to Wired.New, and must call d.Instantiate before using any
// dependency.
type Initializer[T any] func(d *Deps, args Args) (*T, error)

// Unit is an abstract customizable unit: a declared set of required dependencies plus an
// initializer. It has no constructor; use Wire to obtain a constructible Wired[T].
//
// A Unit is immutable and may be wired any number of times.
type Unit[T any] struct {
	name     string
	required []DependencyKey
	index    map[DependencyKey]struct{}
	init     Initializer[T]
}

// Define declares a unit named name that requires the given dependencies.
//
// It fails on a nil initializer (ErrNilInitializer), an empty dependency name (InvalidKeyError) or a
// name declared twice (DuplicateKeyError). Declaration order is the construction order.
func Define[T any](name string, initFn Initializer[T], required ...DependencyKey) (*Unit[T], error) {
	if initFn == nil {
		return nil, ErrNilInitializer
	}
	u := &Unit[T]{
		name:     name,
		required: make([]DependencyKey, 0, len(required)),
		index:    make(map[DependencyKey]struct{}, len(required)),
		init:     initFn,
	}
	for _, raw := range required {
		k := normalize(raw)
		if k == "" {
			return nil, InvalidKeyError{Key: raw}
		}
		if _, dup := u.index[k]; dup {
			return nil, DuplicateKeyError{Key: k}
		}
		u.index[k] = struct{}{}
		u.required = append(u.required, k)
	}
	return u, nil
}

// MustDefine is Define for package-level declarations; it panics on error.
func MustDefine[T any](name string, initFn Initializer[T], required ...DependencyKey) *Unit[T] {
	u, err := Define(name, initFn, required...)
	if err != nil {
		panic(err)
	}
	return u
}

// Name returns the unit name used in error messages and logs.
func (u *Unit[T]) Name() string { return u.name }

// Required returns a copy of the required dependency names in declaration order.
func (u *Unit[T]) Required() []DependencyKey {
	out := make([]DependencyKey, len(u.required))
	copy(out, u.required)
	return out
}

// Requires reports whether key is in the unit's required set.
func (u *Unit[T]) Requires(key DependencyKey) bool {
	_, ok := u.index[normalize(key)]
	return ok
}
