package di

import (
	"log/slog"
)

// Binding pairs a dependency name with the factory that implements it.
type Binding struct {
	Key     DependencyKey
	Factory Factory
}

// Bind builds a Binding.
func Bind(key DependencyKey, f Factory) Binding { return Binding{Key: key, Factory: f} }

// Wired is a unit with a fixed binding table. It is the only way to construct a unit.
//
// A Wired is immutable and safe for concurrent use; every New call builds fresh
// dependencies from the same table.
type Wired[T any] struct {
	unit     *Unit[T]
	bindings map[DependencyKey]Factory
	log      *slog.Logger
}

// Wire binds implementations to a unit's required dependencies.
//
// It validates every binding and fails with:
//   - ErrNilUnit if u is nil
//   - ErrNilInitializer if u was not built by Define (e.g. a zero Unit)
//   - InvalidKeyError for an empty name
//   - UnknownDependencyError for a name the unit does not require
//   - DuplicateKeyError for a name bound twice
//   - NilFactoryError for a nil factory
//
// Binding only a subset of the required names is legal; the gap surfaces as
// MissingBindingError when the unit is constructed. u itself is never modified.
func Wire[T any](u *Unit[T], bindings ...Binding) (*Wired[T], error) {
	if u == nil {
		return nil, ErrNilUnit
	}
	if u.init == nil {
		return nil, ErrNilInitializer
	}
	table := make(map[DependencyKey]Factory, len(bindings))
	for _, b := range bindings {
		k := normalize(b.Key)
		if k == "" {
			return nil, InvalidKeyError{Key: b.Key}
		}
		if _, ok := u.index[k]; !ok {
			return nil, UnknownDependencyError{Unit: u.name, Key: b.Key}
		}
		if _, dup := table[k]; dup {
			return nil, DuplicateKeyError{Key: k}
		}
		if b.Factory == nil {
			return nil, NilFactoryError{Key: k}
		}
		table[k] = b.Factory
	}
	return &Wired[T]{
		unit:     u,
		bindings: table,
		log:      slog.New(slog.DiscardHandler),
	}, nil
}

// MustWire is Wire for composition roots; it panics on error.
func MustWire[T any](u *Unit[T], bindings ...Binding) *Wired[T] {
	w, err := Wire(u, bindings...)
	if err != nil {
		panic(err)
	}
	return w
}

// WithLogger returns a copy of w that logs construction at debug level.
// The binding table is shared, not copied.
func (w *Wired[T]) WithLogger(l *slog.Logger) *Wired[T] {
	cp := *w
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	cp.log = l
	return &cp
}

// Name returns the underlying unit's name.
func (w *Wired[T]) Name() string { return w.unit.name }

// Unit returns the abstract unit w was wired from.
func (w *Wired[T]) Unit() *Unit[T] { return w.unit }

// Bound returns the bound dependency names in declaration order.
func (w *Wired[T]) Bound() []DependencyKey {
	out := make([]DependencyKey, 0, len(w.bindings))
	for _, k := range w.unit.required {
		if _, ok := w.bindings[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// Missing returns the required names without a binding, in declaration order.
// An empty result means New cannot fail with MissingBindingError.
func (w *Wired[T]) Missing() []DependencyKey {
	var out []DependencyKey
	for _, k := range w.unit.required {
		if _, ok := w.bindings[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}

// New constructs one instance: it runs the unit's initializer with a fresh Deps and
// returns the value together with the dependencies built for it.
//
// Errors from the initializer (including MissingBindingError from Deps.Instantiate) are
// returned unchanged. New also fails with ErrNotInstantiated if the unit requires
// dependencies but the initializer never instantiated them, and with ErrNilInstance if
// the initializer returned no value.
func (w *Wired[T]) New(args Args) (*Service[T], error) {
	d := &Deps{
		unit:     w.unit.name,
		required: w.unit.required,
		index:    w.unit.index,
		bindings: w.bindings,
		wired:    true,
		log:      w.log,
	}
	val, err := w.unit.init(d, args)
	if err != nil {
		return nil, err
	}
	if len(w.unit.required) > 0 && !d.done {
		return nil, ErrNotInstantiated
	}
	if val == nil {
		return nil, ErrNilInstance
	}
	w.log.Debug("unit constructed",
		slog.String("unit", w.unit.name),
		slog.Int("dependencies", len(d.built)),
	)
	return &Service[T]{Val: val, Deps: d.Built()}, nil
}

// MustNew is New that panics on error.
func (w *Wired[T]) MustNew(args Args) *Service[T] {
	svc, err := w.New(args)
	if err != nil {
		panic(err)
	}
	return svc
}

// Factory exposes w as a Factory producing *T, so a wired unit can itself be bound as a
// dependency of another unit. The factory's args are passed to New.
func (w *Wired[T]) Factory() Factory {
	return func(args Args) (any, error) {
		svc, err := w.New(args)
		if err != nil {
			return nil, err
		}
		return svc.Val, nil
	}
}
