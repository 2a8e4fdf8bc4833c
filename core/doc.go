// Package core contains the pure domain model of the library circulation
// system: entities, closed status types with explicit transition rules,
// validation, the late-fee calculation and the DecisionResult type used by
// the feature packages. Nothing in this package touches a database or any
// other I/O.
package core
