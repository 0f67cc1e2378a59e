// Command unitgen generates typed, compile-time checked wiring for customizable units.
//
// di.Wire accepts untyped factories (func(di.Args) (any, error)), so a binding that
// produces the wrong type is only caught when the unit is constructed. unitgen closes
// that gap for units whose dependency types are known up front:
//
//   - You write a tiny *.unit.json spec next to your unit.
//   - You add a //go:generate ... directive in the owner Go file.
//   - unitgen generates:
//       - <Name>Key<Dep> constants for every required dependency
//       - a <Name>Bindings struct with one typed factory field per dependency
//       - Wire<Name>(b) and MustWire<Name>(b) that call di.Wire with those factories
//
// There is no container, no reflection wiring, no module graphs.
//
// When to use unitgen
//
// Use it when:
//
//   - The unit is wired in code (main/bootstrap, tests) rather than from a plan file.
//   - You want the compiler to reject a factory returning the wrong type.
//   - You want renaming a dependency to break every stale wiring site at build time.
//
// When NOT to use unitgen
//
// Bindings chosen at runtime from configuration cannot be statically typed; use a
// di.Registry and the plan package instead. MissingBindingError remains the fallback.
//
// Spec format (*.unit.json)
//
// Minimal example:
//
//	{
//	  "package": "car",
//	  "unit": "EngineUnit",
//	  "implType": "Engine",
//	  "required": [
//	    { "name": "Cylinder", "key": "cylinder", "type": "Cylinder" }
//	  ]
//	}
//
// Optional fields: "name" (prefix for generated identifiers, defaults to implType) and
// "imports.di" (import path of the di package).
//
// Typical go:generate usage
//
// Put this in the owner Go file (same package directory as the spec):
//
//	//go:generate go run ../../cmd/unitgen -spec ./engine.unit.json -out ./engine_wiring.gen.go
//
// Then:
//
//	go generate ./...
//
// Generated API (summary)
//
//	const EngineKeyCylinder di.DependencyKey = "cylinder"
//
//	type EngineBindings struct {
//		Cylinder func(args di.Args) (Cylinder, error)
//	}
//
//	func WireEngine(b EngineBindings) (*di.Wired[Engine], error)
//	func MustWireEngine(b EngineBindings) *di.Wired[Engine]
//
// Example wiring
//
//	engine, err := car.WireEngine(car.EngineBindings{
//		Cylinder: func(args di.Args) (car.Cylinder, error) { return car.NewV8(args) },
//	})
//
// A nil field is reported by di.Wire as NilFactoryError.
//
// Owner imports are reused only when a dependency type references them, so the
// generated file never carries unused imports.
package main
