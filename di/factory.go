package di

import (
	"sync"

	"github.com/go-viper/mapstructure/v2"
)

// Args are the construction arguments forwarded to a single dependency's factory.
type Args map[string]any

// PerDep maps dependency names to their construction args for one instantiation.
// Names that are not present get empty Args.
type PerDep map[DependencyKey]Args

// Factory builds one fresh dependency instance from its construction args.
//
// A Factory is the Go counterpart of an "implementation type": binding a Factory to a
// name means "construct this whenever the unit is instantiated".
type Factory func(args Args) (any, error)

// Provide adapts a typed constructor that reads Args directly.
//
// A nil ctor yields a nil Factory, which Wire rejects with NilFactoryError.
func Provide[D any](ctor func(args Args) (D, error)) Factory {
	if ctor == nil {
		return nil
	}
	return func(args Args) (any, error) {
		d, err := ctor(args)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}

// ProvideFunc adapts a zero-argument constructor.
//
// Passing non-empty args to the resulting factory fails with ArgsError wrapping
// ErrUnexpectedArgs.
func ProvideFunc[D any](ctor func() D) Factory {
	if ctor == nil {
		return nil
	}
	return func(args Args) (any, error) {
		if len(args) > 0 {
			return nil, ArgsError{Err: ErrUnexpectedArgs}
		}
		return ctor(), nil
	}
}

// ProvideWith adapts a constructor taking a typed parameter struct.
//
// Args are decoded into P with DecodeArgs, so
//
//	type CylinderParams struct{ Bore int `arg:"bore"` }
//
// receives Bore=80 from Args{"bore": 80}.
func ProvideWith[P any, D any](ctor func(params P) (D, error)) Factory {
	if ctor == nil {
		return nil
	}
	return func(args Args) (any, error) {
		var params P
		if err := DecodeArgs(args, &params); err != nil {
			return nil, err
		}
		d, err := ctor(params)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}

// DecodeArgs decodes args into out (a pointer to a struct).
//
// Fields are matched by their `arg` tag, or by name case-insensitively. Unknown keys are
// rejected and scalar values are weakly converted ("80" -> 80), which keeps args loaded
// from configuration files usable.
func DecodeArgs(args Args, out any) error {
	if len(args) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "arg",
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return ArgsError{Err: err}
	}
	if err := dec.Decode(map[string]any(args)); err != nil {
		return ArgsError{Err: err}
	}
	return nil
}

// Singleton wraps f so that it runs once; every later call returns the first result
// (value and error) regardless of args.
//
// Use it to opt out of the fresh-instance-per-construction default.
func Singleton(f Factory) Factory {
	if f == nil {
		return nil
	}
	var (
		once sync.Once
		val  any
		err  error
	)
	return func(args Args) (any, error) {
		once.Do(func() { val, err = f(args) })
		return val, err
	}
}
