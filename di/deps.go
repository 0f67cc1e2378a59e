package di

import (
	"errors"
	"log/slog"
	"reflect"
)

// Deps is the per-construction view of a wired unit's binding table.
//
// Wired.New creates one Deps per call and hands it to the unit's Initializer. A Deps
// that does not come from Wired.New (for example the zero value) belongs to no wiring,
// so Instantiate always fails with MissingBindingError: a unit is abstract until wired.
type Deps struct {
	unit     string
	required []DependencyKey
	index    map[DependencyKey]struct{}
	bindings map[DependencyKey]Factory
	wired    bool
	log      *slog.Logger

	built map[DependencyKey]any
	done  bool
}

// Unit returns the name of the unit being constructed.
func (d *Deps) Unit() string {
	if d == nil {
		return ""
	}
	return d.unit
}

// Instantiate constructs every required dependency using its bound factory.
//
// perDep carries the construction args per dependency name; names not present get empty
// Args. Args are forwarded to the factory as given.
//
// It fails with:
//   - MissingBindingError if the Deps is not wired, or any required name is unbound
//     (checked before any factory runs)
//   - UnknownDependencyError if perDep names a dependency the unit does not require
//   - DuplicateKeyError if two perDep keys normalize to the same name
//   - ErrAlreadyInstantiated on a second successful call
//   - the factory's own error, unchanged (an unkeyed ArgsError, returned or wrapped,
//     gets the key)
func (d *Deps) Instantiate(perDep PerDep) error {
	if d == nil {
		return MissingBindingError{}
	}
	if !d.wired {
		var first DependencyKey
		if len(d.required) > 0 {
			first = d.required[0]
		}
		return MissingBindingError{Unit: d.unit, Key: first}
	}
	if d.done {
		return ErrAlreadyInstantiated
	}

	args := make(map[DependencyKey]Args, len(perDep))
	for raw, a := range perDep {
		k := normalize(raw)
		if _, ok := d.index[k]; !ok {
			return UnknownDependencyError{Unit: d.unit, Key: raw}
		}
		if _, dup := args[k]; dup {
			return DuplicateKeyError{Key: k}
		}
		args[k] = a
	}

	for _, k := range d.required {
		if d.bindings[k] == nil {
			return MissingBindingError{Unit: d.unit, Key: k}
		}
	}

	built := make(map[DependencyKey]any, len(d.required))
	for _, k := range d.required {
		a, ok := args[k]
		if !ok {
			a = Args{}
		}
		v, err := d.bindings[k](a)
		if err != nil {
			return withArgsKey(err, k)
		}
		built[k] = v
		d.log.Debug("dependency constructed",
			slog.String("unit", d.unit),
			slog.String("dependency", string(k)),
			slog.String("type", typeName(v)),
		)
	}

	d.built = built
	d.done = true
	return nil
}

// withArgsKey names key on an ArgsError that does not carry one yet. A returned
// ArgsError gets the key set in place; a wrapped one is wrapped again in a keyed
// ArgsError so the chain stays intact. Other errors are returned unchanged.
func withArgsKey(err error, key DependencyKey) error {
	if ae, ok := err.(ArgsError); ok {
		if ae.Key == "" {
			ae.Key = key
		}
		return ae
	}
	var ae ArgsError
	if errors.As(err, &ae) && ae.Key == "" {
		return ArgsError{Key: key, Err: err}
	}
	return err
}

// Instantiated reports whether Instantiate has completed successfully.
func (d *Deps) Instantiated() bool { return d != nil && d.done }

// Built returns a copy of the constructed dependencies keyed by name.
func (d *Deps) Built() map[DependencyKey]any {
	if d == nil {
		return map[DependencyKey]any{}
	}
	out := make(map[DependencyKey]any, len(d.built))
	for k, v := range d.built {
		out[k] = v
	}
	return out
}

// Lookup returns the constructed dependency typed as D.
//
// It returns MissingDependencyError if the name was not constructed and
// WrongTypeDependencyError if the value is not a D.
func Lookup[D any](d *Deps, key DependencyKey) (D, error) {
	var zero D
	if d == nil {
		return zero, MissingDependencyError{Key: key}
	}
	return assertDep[D](d.built, normalize(key))
}

// Populate assigns constructed dependencies onto the fields of target (a pointer to a
// struct) tagged with `di:"<name>"`. An empty tag value uses the field name.
//
//	type Engine struct {
//		Cylinder Cylinder `di:"cylinder"`
//	}
//
// Populate must run after Instantiate. Tagged fields must be exported and assignable
// from the constructed value.
func (d *Deps) Populate(target any) error {
	rv := reflect.ValueOf(target)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrNilTarget
	}
	if !d.Instantiated() {
		return ErrNotInstantiated
	}

	sv := rv.Elem()
	st := sv.Type()
	for i := 0; i < st.NumField(); i++ {
		sf := st.Field(i)
		tag, ok := sf.Tag.Lookup("di")
		if !ok || tag == "-" {
			continue
		}
		key := normalize(DependencyKey(tag))
		if key == "" {
			key = normalize(DependencyKey(sf.Name))
		}

		raw, ok := d.built[key]
		if !ok {
			return UnknownDependencyError{Unit: d.unit, Key: key}
		}
		if !sf.IsExported() {
			return FieldError{Field: sf.Name, Reason: "tagged field is unexported"}
		}
		if raw == nil {
			continue
		}
		v := reflect.ValueOf(raw)
		if !v.Type().AssignableTo(sf.Type) {
			return WrongTypeDependencyError{Key: key, GotType: v.Type().String()}
		}
		sv.Field(i).Set(v)
	}
	return nil
}

func assertDep[D any](bag map[DependencyKey]any, key DependencyKey) (D, error) {
	var zero D
	raw, ok := bag[key]
	if !ok || raw == nil {
		return zero, MissingDependencyError{Key: key}
	}
	d, ok := raw.(D)
	if !ok {
		return zero, WrongTypeDependencyError{Key: key, GotType: typeName(raw)}
	}
	return d, nil
}

func typeName(v any) string {
	if v == nil {
		return "<nil>"
	}
	return reflect.TypeOf(v).String()
}
