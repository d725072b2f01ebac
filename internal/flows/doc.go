// Package flows holds the login and registration orchestration behind the
// root Engine.
//
// Each Run* function takes a dependency struct of plain funcs, so the
// engine stays thin and every branch can be driven from a unit test. Flows
// own no resources: the credential store, password verifier, token manager,
// limiter, audit dispatcher and metrics all stay with the Engine.
//
// This package must not import the root package (import cycle) and must not
// hold state between calls.
package flows
