package di

import (
	"errors"
	"strconv"
)

var (
	// ErrNilUnit is returned when Wire is called with a nil unit.
	ErrNilUnit = errors.New("di: nil unit")

	// ErrNilInitializer is returned when a unit is defined without an initializer.
	ErrNilInitializer = errors.New("di: nil initializer")

	// ErrAlreadyInstantiated is returned when Deps.Instantiate is called more than once
	// during a single construction.
	ErrAlreadyInstantiated = errors.New("di: dependencies already instantiated")

	// ErrNotInstantiated is returned by Wired.New when the unit declares dependencies but
	// its initializer returned without calling Deps.Instantiate.
	ErrNotInstantiated = errors.New("di: initializer did not instantiate dependencies")

	// ErrNilInstance is returned by Wired.New when the initializer returned (nil, nil).
	ErrNilInstance = errors.New("di: initializer returned nil instance")

	// ErrNilTarget is returned when Populate is given something other than a non-nil
	// pointer to a struct.
	ErrNilTarget = errors.New("di: populate target must be a non-nil struct pointer")

	// ErrUnexpectedArgs is wrapped in ArgsError when construction args are passed to a
	// zero-argument factory.
	ErrUnexpectedArgs = errors.New("di: factory takes no construction args")
)

// DuplicateKeyError is returned when a dependency name is declared or bound twice.
type DuplicateKeyError struct{ Key DependencyKey }

// Error implements the error interface.
func (e DuplicateKeyError) Error() string {
	// Example: di: duplicate dependency key "cylinder"
	return "di: duplicate dependency key " + strconv.Quote(string(e.Key))
}

// InvalidKeyError is returned when a dependency name is empty after normalization.
type InvalidKeyError struct{ Key DependencyKey }

// Error implements the error interface.
func (e InvalidKeyError) Error() string {
	return "di: invalid dependency key " + strconv.Quote(string(e.Key))
}

// UnknownDependencyError is returned when a name is not part of the unit's required set.
//
// Wire returns it for bindings, Deps.Instantiate for construction args and Populate for
// struct tags.
type UnknownDependencyError struct {
	Unit string
	Key  DependencyKey
}

// Error implements the error interface.
func (e UnknownDependencyError) Error() string {
	// Example: di: unit "engine" does not require dependency "turbo"
	return "di: unit " + strconv.Quote(e.Unit) + " does not require dependency " + strconv.Quote(string(e.Key))
}

// MissingBindingError is returned at construction time when a required dependency has
// no bound implementation: the unit was never wired, or was wired incompletely.
//
// Key is empty when the Deps does not belong to any wired unit.
type MissingBindingError struct {
	Unit string
	Key  DependencyKey
}

// Error implements the error interface.
func (e MissingBindingError) Error() string {
	if e.Key == "" {
		return "di: unit " + strconv.Quote(e.Unit) + " is not wired"
	}
	// Example: di: unit "engine" has no binding for dependency "cylinder"
	return "di: unit " + strconv.Quote(e.Unit) + " has no binding for dependency " + strconv.Quote(string(e.Key))
}

// NilFactoryError is returned when a binding carries a nil factory.
type NilFactoryError struct{ Key DependencyKey }

// Error implements the error interface.
func (e NilFactoryError) Error() string {
	return "di: nil factory for key " + strconv.Quote(string(e.Key))
}

// MissingDependencyError is returned when a dependency key is not present.
//
// It is used by TryGetAs and Lookup to distinguish "missing" from "wrong type".
type MissingDependencyError struct{ Key DependencyKey }

// Error implements the error interface.
func (e MissingDependencyError) Error() string {
	// Example: di: dependency "cylinder" missing
	return "di: dependency " + strconv.Quote(string(e.Key)) + " missing"
}

// WrongTypeDependencyError is returned when a dependency exists but is of a different type.
type WrongTypeDependencyError struct {
	// Key is the dependency key requested.
	Key DependencyKey

	// GotType is reflect.TypeOf(raw).String() for the stored value.
	GotType string
}

// Error implements the error interface.
func (e WrongTypeDependencyError) Error() string {
	// Example: di: dependency "cylinder" has wrong type (*car.Bumper)
	return "di: dependency " + strconv.Quote(string(e.Key)) + " has wrong type (" + e.GotType + ")"
}

// ArgsError is returned when construction args cannot be applied to a factory.
type ArgsError struct {
	Key DependencyKey
	Err error
}

// Error implements the error interface.
func (e ArgsError) Error() string {
	msg := "di: invalid construction args"
	if e.Key != "" {
		msg += " for " + strconv.Quote(string(e.Key))
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying decode error.
func (e ArgsError) Unwrap() error { return e.Err }

// FieldError is returned by Populate when a tagged field cannot receive its dependency.
type FieldError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return "di: field " + strconv.Quote(e.Field) + ": " + e.Reason
}
