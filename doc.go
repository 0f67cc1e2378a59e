// Package unitwire provides customizable units: constructors whose required
// dependencies are declared up front and bound later, outside the unit.
//
// A unit is abstract. It carries a name, the keys of the dependencies it needs and
// an initializer, but it cannot build a value. Binding a factory to every required
// key through di.Wire yields a wired unit, and only a wired unit has New.
//
// The repository is laid out as:
//   - di: units, wiring, dependency bags, factories and the implementation registry
//   - plan: YAML wiring plans that bind units from configuration via a registry
//   - cmd/unitgen: a code generator for typed, compile-time checked bindings
//   - examples/car: an end-to-end example with nested units
//
// Wiring stays explicit (usually in your composition root / main). There is no
// global container and no hidden lookup.
package unitwire
