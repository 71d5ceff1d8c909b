package domain

import "errors"

var (
	// ErrInvalidInput marks malformed or missing request fields.
	// Nothing is computed when it is returned.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnresolvableLocation is returned by a GeoResolver that cannot
	// determine a coordinate for a descriptor.
	ErrUnresolvableLocation = errors.New("unresolvable location")

	// ErrComputation reports an arithmetic invariant violation inside the
	// planner. It indicates a logic fault, not a user error.
	ErrComputation = errors.New("computation error")
)
