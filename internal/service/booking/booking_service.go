package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/skyfare/skyfare/internal/domain"
	"github.com/skyfare/skyfare/internal/gateway"
	"github.com/skyfare/skyfare/internal/kafka"
	"github.com/skyfare/skyfare/internal/logger"
	"github.com/skyfare/skyfare/internal/repository"
)

// resolveTimeout bounds the post-gateway persistence of a booking outcome
// once it has been detached from the caller's context.
const resolveTimeout = 10 * time.Second

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (*domain.Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*domain.BookingDetail, error)
	ListBookings(ctx context.Context) ([]domain.BookingDetail, error)
}

// AvailabilityCache is the slice of the cache the workflow needs: it only
// ever invalidates, and only after a confirmed-count change has committed.
type AvailabilityCache interface {
	InvalidateAvailability(ctx context.Context, flightID uuid.UUID) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	passengers         repository.PassengerRepository
	flights            repository.FlightRepository
	cache              AvailabilityCache
	gateway            gateway.ConfirmationGateway
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	log                *logrus.Logger
}

type CreateBookingInput struct {
	PassengerID uuid.UUID `json:"passenger_id"`
	FlightID    uuid.UUID `json:"flight_id"`
	SeatNumber  string    `json:"seat_number"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	passengers repository.PassengerRepository,
	flights repository.FlightRepository,
	cache AvailabilityCache,
	gw gateway.ConfirmationGateway,
	producer Producer,
	eventsTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:    bookings,
		passengers:  passengers,
		flights:     flights,
		cache:       cache,
		gateway:     gw,
		producer:    producer,
		eventsTopic: eventsTopic,
		log:         logger.Get(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking runs the confirmation workflow: persist a provisional
// PENDING booking under the flight lock, call the gateway after that
// commit, then resolve to CONFIRMED or FAILED. On gateway failure the
// returned booking is non-nil alongside an error wrapping
// domain.ErrExternalFailure: the record is durable, only the business
// outcome failed.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.PassengerID == uuid.Nil {
		return nil, fmt.Errorf("passenger_id is required: %w", domain.ErrNotFound)
	}
	if input.FlightID == uuid.Nil {
		return nil, fmt.Errorf("flight_id is required: %w", domain.ErrNotFound)
	}

	passenger, err := s.passengers.GetByID(ctx, input.PassengerID)
	if err != nil {
		return nil, err
	}
	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		PassengerID: passenger.ID,
		FlightID:    flight.ID,
		SeatNumber:  input.SeatNumber,
	}
	if err := s.bookings.CreatePending(ctx, booking); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"booking_id": booking.ID, "reference": booking.Reference}).
		Info("booking created with status PENDING")
	s.publish(ctx, "booking_created", booking, passenger.Email, flight.FlightNumber, "")

	// The PENDING row is committed, so a slow gateway holds no transaction
	// open; it only delays this booking's resolution.
	result := s.gateway.Confirm(ctx, gateway.Request{
		BookingID: booking.ID,
		Reference: booking.Reference,
		Passenger: *passenger,
		Flight:    *flight,
	})

	// Resolution must land even when the caller disconnected while the
	// gateway was in flight; a booking stuck in PENDING would block the
	// passenger through the duplicate-active rule.
	resolveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), resolveTimeout)
	defer cancel()

	if !result.Success {
		failed, err := s.markFailed(resolveCtx, booking.ID, passenger.Email, flight.FlightNumber, result.Error)
		if err != nil {
			return nil, err
		}
		return failed, fmt.Errorf("%s: %w", result.Error, domain.ErrExternalFailure)
	}

	confirmed, _, err := s.bookings.UpdateStatus(resolveCtx, booking.ID, domain.BookingStatusConfirmed, result.ExternalRef)
	if err != nil {
		if errors.Is(err, domain.ErrNoAvailability) {
			// The last seat went to a concurrent booking between the
			// provisional insert and the gateway answer.
			failed, ferr := s.markFailed(resolveCtx, booking.ID, passenger.Email, flight.FlightNumber, "flight filled before confirmation")
			if ferr != nil {
				return nil, ferr
			}
			return failed, fmt.Errorf("flight filled before confirmation: %w", domain.ErrNoAvailability)
		}
		return nil, err
	}
	s.invalidateAvailability(resolveCtx, confirmed.FlightID)
	s.log.WithFields(logrus.Fields{"booking_id": confirmed.ID, "external_ref": confirmed.ExternalRef}).
		Info("booking confirmed externally")
	s.publish(resolveCtx, "booking_confirmed", confirmed, passenger.Email, flight.FlightNumber, "")
	return confirmed, nil
}

func (s *BookingService) markFailed(ctx context.Context, id uuid.UUID, email, flightNumber, reason string) (*domain.Booking, error) {
	failed, _, err := s.bookings.UpdateStatus(ctx, id, domain.BookingStatusFailed, "")
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"booking_id": failed.ID, "reason": reason}).
		Error("confirmation failed, booking marked FAILED")
	s.publish(ctx, "booking_failed", failed, email, flightNumber, reason)
	// No cache invalidation: the confirmed-seat count did not change.
	return failed, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	detail, err := s.bookings.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if !detail.Status.CanTransitionTo(domain.BookingStatusCancelled) {
		return nil, fmt.Errorf("cannot cancel booking with status %s: %w", detail.Status, domain.ErrInvalidTransition)
	}

	updated, prior, err := s.bookings.UpdateStatus(ctx, id, domain.BookingStatusCancelled, "")
	if err != nil {
		return nil, err
	}

	// A cancelled PENDING booking never held a confirmed seat.
	if prior == domain.BookingStatusConfirmed {
		s.invalidateAvailability(ctx, updated.FlightID)
	}
	s.log.WithFields(logrus.Fields{"booking_id": updated.ID, "prior_status": prior}).
		Info("booking cancelled")
	s.publish(ctx, "booking_cancelled", updated, detail.Passenger.Email, detail.Flight.FlightNumber, "")
	return updated, nil
}

// UpdateBookingStatus is the administrative transition path. Setting the
// current status again is a no-op; transitions out of a terminal status are
// rejected by the repository under the row lock.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (*domain.Booking, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("unknown status %q: %w", status, domain.ErrInvalidTransition)
	}

	detail, err := s.bookings.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, prior, err := s.bookings.UpdateStatus(ctx, id, status, "")
	if err != nil {
		return nil, err
	}
	if prior == updated.Status {
		return updated, nil
	}

	// Invalidate exactly when the change crosses the CONFIRMED boundary in
	// either direction.
	if (prior == domain.BookingStatusConfirmed) != (updated.Status == domain.BookingStatusConfirmed) {
		s.invalidateAvailability(ctx, updated.FlightID)
	}
	s.log.WithFields(logrus.Fields{"booking_id": updated.ID, "from": prior, "to": updated.Status}).
		Info("booking status changed")
	s.publish(ctx, "booking_status_changed", updated, detail.Passenger.Email, detail.Flight.FlightNumber, "")
	return updated, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id uuid.UUID) (*domain.BookingDetail, error) {
	return s.bookings.GetDetail(ctx, id)
}

func (s *BookingService) ListBookings(ctx context.Context) ([]domain.BookingDetail, error) {
	return s.bookings.List(ctx)
}

func (s *BookingService) invalidateAvailability(ctx context.Context, flightID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAvailability(ctx, flightID); err != nil {
		// Advisory cache: a failed invalidation degrades freshness for at
		// most the entry TTL, it never affects the booking invariants.
		s.log.WithField("flight_id", flightID).Warnf("failed to invalidate availability cache: %v", err)
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, b *domain.Booking, email, flightNumber, detail string) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:           eventType,
		BookingID:      b.ID.String(),
		Reference:      b.Reference,
		PassengerEmail: email,
		FlightID:       b.FlightID.String(),
		FlightNumber:   flightNumber,
		Status:         string(b.Status),
		ExternalRef:    b.ExternalRef,
		Detail:         detail,
		OccurredAt:     b.UpdatedAt,
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, b.Reference, event); err != nil {
		s.log.WithField("booking_id", b.ID).Warnf("failed to publish %s event: %v", eventType, err)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, b.Reference, event); err != nil {
			s.log.WithField("booking_id", b.ID).Warnf("failed to publish %s notification: %v", eventType, err)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
