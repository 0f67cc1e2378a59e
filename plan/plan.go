// Package plan loads wiring plans: YAML documents that choose, per unit and per
// dependency, which registered implementation to bind.
//
//	units:
//	  engine:
//	    cylinder: v8
//	  car:
//	    bumper: steel
//	    engine: engine
//
// Implementation names are resolved through a di.Registry, so the plan can live in
// configuration while the factories stay in code.
package plan

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/sghaida/unitwire/di"
	"gopkg.in/yaml.v3"
)

// Plan maps unit name -> dependency name -> implementation name.
type Plan struct {
	Units map[string]map[string]string `yaml:"units"`
}

// UnknownUnitError is returned when a plan has no section for a unit.
type UnknownUnitError struct{ Unit string }

func (e UnknownUnitError) Error() string {
	return "plan: no bindings for unit " + strconv.Quote(e.Unit)
}

// UnknownImplementationError is returned when an implementation name is not registered.
type UnknownImplementationError struct {
	Unit string
	Key  di.DependencyKey
	Impl string
}

func (e UnknownImplementationError) Error() string {
	return "plan: unit " + strconv.Quote(e.Unit) + " binds " + strconv.Quote(string(e.Key)) +
		" to unregistered implementation " + strconv.Quote(e.Impl)
}

// Load decodes a plan from r. Unknown top-level fields are rejected.
func Load(r io.Reader) (*Plan, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Plan
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return &Plan{Units: map[string]map[string]string{}}, nil
		}
		return nil, fmt.Errorf("plan: decode: %w", err)
	}
	if p.Units == nil {
		p.Units = map[string]map[string]string{}
	}
	return &p, nil
}

// LoadFile reads and decodes the plan at path.
func LoadFile(path string) (*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("plan: open: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Bindings resolves the section for unit into di bindings, sorted by dependency name.
func (p *Plan) Bindings(unit string, reg di.Registry) ([]di.Binding, error) {
	section, ok := p.Units[unit]
	if !ok {
		return nil, UnknownUnitError{Unit: unit}
	}

	keys := make([]string, 0, len(section))
	for k := range section {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]di.Binding, 0, len(keys))
	for _, k := range keys {
		impl := section[k]
		f, ok, err := reg.Resolve(impl)
		if err != nil {
			return nil, fmt.Errorf("plan: resolve %q: %w", impl, err)
		}
		if !ok {
			return nil, UnknownImplementationError{Unit: unit, Key: di.Key(k), Impl: impl}
		}
		out = append(out, di.Bind(di.Key(k), f))
	}
	return out, nil
}

// Validate checks that every implementation named by the plan is registered.
// All problems are reported together.
func (p *Plan) Validate(reg di.Registry) error {
	units := make([]string, 0, len(p.Units))
	for u := range p.Units {
		units = append(units, u)
	}
	sort.Strings(units)

	var errs []error
	for _, u := range units {
		if _, err := p.Bindings(u, reg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Wire binds u according to the plan section named after the unit.
func Wire[T any](p *Plan, u *di.Unit[T], reg di.Registry) (*di.Wired[T], error) {
	if u == nil {
		return nil, di.ErrNilUnit
	}
	bindings, err := p.Bindings(u.Name(), reg)
	if err != nil {
		return nil, err
	}
	w, err := di.Wire(u, bindings...)
	if err != nil {
		return nil, fmt.Errorf("plan: wire %q: %w", u.Name(), err)
	}
	return w, nil
}
