package plan_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sghaida/unitwire/di"
	"github.com/sghaida/unitwire/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//
// -----------------------------------------------------------------------------
// Fixtures
// -----------------------------------------------------------------------------

const samplePlan = `
units:
  engine:
    cylinder: v8
  car:
    engine: engine
    bumper: steel
`

type cylinder struct{ kind string }

type engine struct {
	Cylinder *cylinder `di:"cylinder"`
}

func engineUnit() *di.Unit[engine] {
	return di.MustDefine("engine", func(d *di.Deps, _ di.Args) (*engine, error) {
		if err := d.Instantiate(nil); err != nil {
			return nil, err
		}
		e := &engine{}
		return e, d.Populate(e)
	}, "cylinder")
}

func registry() *di.MapRegistry {
	return di.NewMapRegistry().
		Provide("v8", di.ProvideFunc(func() *cylinder { return &cylinder{kind: "v8"} })).
		Provide("electric", di.ProvideFunc(func() *cylinder { return &cylinder{kind: "electric"} })).
		Provide("steel", di.ProvideFunc(func() string { return "steel" })).
		Provide("engine", di.ProvideFunc(func() string { return "engine" }))
}

// panicRegistry panics on every Resolve call.
type panicRegistry struct{}

func (panicRegistry) Resolve(string) (di.Factory, bool, error) { panic("boom") }

// errRegistry wraps MapRegistry's panic recovery around a nil receiver.
func errRegistry() di.Registry {
	var r *di.MapRegistry
	return r
}

//
// -----------------------------------------------------------------------------
// Load
// -----------------------------------------------------------------------------

func TestLoad(t *testing.T) {
	t.Parallel()

	p, err := plan.Load(strings.NewReader(samplePlan))
	require.NoError(t, err)

	assert.Equal(t, map[string]map[string]string{
		"engine": {"cylinder": "v8"},
		"car":    {"engine": "engine", "bumper": "steel"},
	}, p.Units)
}

func TestLoad_EmptyAndErrors(t *testing.T) {
	t.Parallel()

	p, err := plan.Load(strings.NewReader(""))
	require.NoError(t, err)
	require.NotNil(t, p.Units)
	assert.Empty(t, p.Units)

	p, err = plan.Load(strings.NewReader("units:\n"))
	require.NoError(t, err)
	assert.NotNil(t, p.Units)

	_, err = plan.Load(strings.NewReader("unitz:\n  a: {}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plan: decode")

	_, err = plan.Load(strings.NewReader("units: [1, 2]\n"))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "wiring.yaml")
	require.NoError(t, os.WriteFile(path, []byte(samplePlan), 0o644))

	p, err := plan.LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, p.Units, 2)

	_, err = plan.LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

//
// -----------------------------------------------------------------------------
// Bindings / Validate
// -----------------------------------------------------------------------------

func TestBindings_SortedAndResolved(t *testing.T) {
	t.Parallel()

	p, err := plan.Load(strings.NewReader(samplePlan))
	require.NoError(t, err)

	bindings, err := p.Bindings("car", registry())
	require.NoError(t, err)
	require.Len(t, bindings, 2)
	assert.Equal(t, di.DependencyKey("bumper"), bindings[0].Key)
	assert.Equal(t, di.DependencyKey("engine"), bindings[1].Key)

	v, err := bindings[0].Factory(nil)
	require.NoError(t, err)
	assert.Equal(t, "steel", v)
}

func TestBindings_Errors(t *testing.T) {
	t.Parallel()

	p := &plan.Plan{Units: map[string]map[string]string{
		"engine": {"cylinder": "rotary"},
	}}

	_, err := p.Bindings("car", registry())
	var uu plan.UnknownUnitError
	require.True(t, errors.As(err, &uu))
	assert.Equal(t, `plan: no bindings for unit "car"`, uu.Error())

	_, err = p.Bindings("engine", registry())
	var ui plan.UnknownImplementationError
	require.True(t, errors.As(err, &ui))
	assert.Equal(t, "rotary", ui.Impl)
	assert.Equal(t, di.DependencyKey("cylinder"), ui.Key)
	assert.Equal(t, `plan: unit "engine" binds "cylinder" to unregistered implementation "rotary"`, ui.Error())

	_, err = p.Bindings("engine", errRegistry())
	require.ErrorIs(t, err, di.ErrRegistryPanic)

	require.Panics(t, func() { _, _ = p.Bindings("engine", panicRegistry{}) })
}

func TestValidate_JoinsErrors(t *testing.T) {
	t.Parallel()

	p := &plan.Plan{Units: map[string]map[string]string{
		"engine": {"cylinder": "rotary"},
		"car":    {"bumper": "wood"},
		"ok":     {"cylinder": "v8"},
	}}

	err := p.Validate(registry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"rotary"`)
	assert.Contains(t, err.Error(), `"wood"`)

	good, err := plan.Load(strings.NewReader(samplePlan))
	require.NoError(t, err)
	require.NoError(t, good.Validate(registry()))
}

//
// -----------------------------------------------------------------------------
// Wire
// -----------------------------------------------------------------------------

func TestWire_FromPlan(t *testing.T) {
	t.Parallel()

	p, err := plan.Load(strings.NewReader(samplePlan))
	require.NoError(t, err)

	w, err := plan.Wire(p, engineUnit(), registry())
	require.NoError(t, err)

	svc, err := w.New(nil)
	require.NoError(t, err)
	assert.Equal(t, "v8", svc.Value().Cylinder.kind)
}

func TestWire_Errors(t *testing.T) {
	t.Parallel()

	_, err := plan.Wire[engine](&plan.Plan{}, nil, registry())
	require.ErrorIs(t, err, di.ErrNilUnit)

	_, err = plan.Wire(&plan.Plan{}, engineUnit(), registry())
	var uu plan.UnknownUnitError
	require.True(t, errors.As(err, &uu))

	p := &plan.Plan{Units: map[string]map[string]string{
		"engine": {"cylinder": "v8", "turbo": "v8"},
	}}
	_, err = plan.Wire(p, engineUnit(), registry())
	var ue di.UnknownDependencyError
	require.True(t, errors.As(err, &ue))
	assert.Contains(t, err.Error(), `plan: wire "engine"`)
}
