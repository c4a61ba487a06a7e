// Error kinds shared across repositories, services and handlers. Callers
// match them with errors.Is; the HTTP layer translates each kind into a
// status code. ErrExternalFailure is special: it marks a request that was
// handled correctly but whose business outcome is a FAILED booking, so the
// booking record accompanying it is valid and durable.
package domain

import "errors"

// ErrNotFound is returned for an unknown passenger, flight or booking id.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a passenger already holds an active
// (PENDING or CONFIRMED) booking on the same flight.
var ErrConflict = errors.New("duplicate active booking")

// ErrNoAvailability is returned when a flight has no confirmed seats left.
var ErrNoAvailability = errors.New("no available seats")

// ErrInvalidTransition is returned for a disallowed booking status change,
// including any transition out of CANCELLED or FAILED.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrExternalFailure is returned when the external confirmation gateway
// reports failure. The booking persists as FAILED.
var ErrExternalFailure = errors.New("external confirmation failed")
