package di_test

import (
	"errors"

	"github.com/sghaida/unitwire/di"
)

// Cylinder is the dependency interface used across the di tests.
type Cylinder interface {
	Fire() string
}

type CylinderParams struct {
	Bore int `arg:"bore"`
}

type V8Cylinder struct{ Bore int }

func (c *V8Cylinder) Fire() string { return "vroum" }

func NewV8Cylinder(p CylinderParams) (*V8Cylinder, error) {
	return &V8Cylinder{Bore: p.Bore}, nil
}

type ElectricCylinder struct{}

func (*ElectricCylinder) Fire() string { return "bzzz" }

type Bumper struct{ HP int }

var errBrokenCylinder = errors.New("cylinder: broken")

// Engine requires a "cylinder".
type Engine struct {
	Cylinder Cylinder `di:"cylinder"`
	Etype    int
}

// engineInit returns an initializer that instantiates with perDep and populates Engine.
func engineInit(perDep di.PerDep) di.Initializer[Engine] {
	return func(d *di.Deps, args di.Args) (*Engine, error) {
		if err := d.Instantiate(perDep); err != nil {
			return nil, err
		}
		e := &Engine{}
		if v, ok := args["etype"].(int); ok {
			e.Etype = v
		}
		if err := d.Populate(e); err != nil {
			return nil, err
		}
		return e, nil
	}
}

func newEngineBase() *di.Unit[Engine] {
	return di.MustDefine("engine", engineInit(nil), "cylinder")
}

// Car requires an engine and a bumper; the engine is itself a wired unit.
type Car struct {
	Engine *Engine `di:"engine"`
	Bumper *Bumper `di:"bumper"`
}

func newCarBase() *di.Unit[Car] {
	return di.MustDefine("car", func(d *di.Deps, _ di.Args) (*Car, error) {
		err := d.Instantiate(di.PerDep{
			"bumper": {"hp": 95},
			"engine": {"etype": 6},
		})
		if err != nil {
			return nil, err
		}
		c := &Car{}
		return c, d.Populate(c)
	}, "bumper", "engine")
}

func newBumper(args di.Args) (*Bumper, error) {
	hp, _ := args["hp"].(int)
	return &Bumper{HP: hp}, nil
}
