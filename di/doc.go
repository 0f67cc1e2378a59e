// Package di implements customizable units: types that declare the dependencies they
// need by name, and a wiring step that binds concrete implementations to those names
// without the unit knowing which implementations will be used.
//
// The package has two primitives:
//
//   - Unit[T]: an abstract definition. It declares the required dependency names and an
//     Initializer that builds *T. A Unit has no constructor; it cannot be instantiated
//     until it is wired.
//
//   - Wire: takes a Unit plus a binding table (name -> Factory) and returns a Wired[T].
//     Wired[T] is the only type offering New. The table is copied at wiring time and never
//     mutated afterwards, so two wirings of the same Unit never interfere.
//
// Inside the initializer, the unit calls Deps.Instantiate with optional per-dependency
// construction arguments. Every required dependency is then built by its bound factory
// and recorded by name on the instance.
//
// Quick example
//
//	var EngineUnit = di.MustDefine("engine", newEngine, "cylinder")
//
//	func newEngine(d *di.Deps, args di.Args) (*Engine, error) {
//		if err := d.Instantiate(di.PerDep{"cylinder": {"bore": 80}}); err != nil {
//			return nil, err
//		}
//		e := &Engine{}
//		return e, d.Populate(e)
//	}
//
//	engine := di.MustWire(EngineUnit, di.Bind("cylinder", di.ProvideWith(NewCylinder)))
//	svc, err := engine.New(nil)
//
// Failure modes are surfaced as typed errors: UnknownDependencyError at wiring time,
// MissingBindingError at construction time. Nothing is defaulted silently and no
// partially-initialized value is ever returned.
//
// Bindings assembled from external configuration go through a Registry (named factories);
// see the plan package for YAML wiring plans and cmd/unitgen for generated, statically
// typed binding structs.
//
// Import
//
//	"github.com/sghaida/unitwire/di"
package di
