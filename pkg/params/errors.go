package params

import "errors"

var (
	// ErrNotFound is returned when a parameter or flavor key is not declared.
	// Requesting an undeclared name is a programmer error on the caller's
	// side; it is never retried.
	ErrNotFound = errors.New("parameter not found")

	// ErrFixed is returned when Pack or Unpack is called on a fixed parameter.
	ErrFixed = errors.New("parameter is fixed")

	// ErrWrongKind is returned when a caller requests a value shape the
	// parameter does not carry (e.g. a scalar from a per-flavor map).
	ErrWrongKind = errors.New("parameter value has a different kind")

	// ErrDuplicate is returned when a parameter name is declared twice.
	ErrDuplicate = errors.New("duplicate parameter name")
)
