package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusFailed    BookingStatus = "FAILED"
)

// IsValid reports whether s is one of the known booking statuses.
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition may leave s.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCancelled || s == BookingStatusFailed
}

// CanTransitionTo encodes the booking state machine:
// PENDING -> CONFIRMED | FAILED, and PENDING | CONFIRMED -> CANCELLED.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return target == BookingStatusConfirmed || target == BookingStatusFailed || target == BookingStatusCancelled
	case BookingStatusConfirmed:
		return target == BookingStatusCancelled
	}
	return false
}

type Booking struct {
	ID          uuid.UUID
	PassengerID uuid.UUID
	FlightID    uuid.UUID
	Reference   string
	Status      BookingStatus
	SeatNumber  string
	ExternalRef string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BookingDetail is the read model for listing screens: a booking with its
// passenger and flight resolved in the same query.
type BookingDetail struct {
	Booking
	Passenger Passenger
	Flight    Flight
}
