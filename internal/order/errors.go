package order

import "errors"

// Domain failures raised by the lifecycle manager. Handlers map these
// to HTTP statuses at the boundary.
var (
	// ErrNotFound covers both a missing order and an order owned by
	// someone else, so callers cannot probe for existence.
	ErrNotFound = errors.New("order not found")

	// ErrInvalidTransition is returned when the order's current status
	// does not allow the requested transition.
	ErrInvalidTransition = errors.New("order status does not allow this transition")

	// ErrInvalidStatus is returned for a status value outside the enum.
	ErrInvalidStatus = errors.New("unknown order status")

	// ErrForbidden is returned when the caller's role does not permit
	// the operation.
	ErrForbidden = errors.New("operation requires admin role")
)
