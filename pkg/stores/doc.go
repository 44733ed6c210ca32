// Package stores persists fit runs and their minimizer trajectories.
//
// A fit run records which template settings it started from, the assumed
// mass ordering and the free-parameter vector; every minimizer iteration is
// appended as a step carrying the likelihood and the physical parameter
// values it was evaluated at. Storage is a single SQLite database file with
// schema migrations embedded in the binary, so a finished analysis can be
// inspected long after the fit process exited.
package stores
