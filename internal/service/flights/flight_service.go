package flights

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/skyfare/skyfare/internal/domain"
	"github.com/skyfare/skyfare/internal/logger"
	"github.com/skyfare/skyfare/internal/repository"
)

type FlightUseCase interface {
	List(ctx context.Context, filter repository.FlightFilter) ([]FlightView, error)
	GetByID(ctx context.Context, id uuid.UUID) (*FlightView, error)
	// GetAvailability is the cache-assisted availability read. The booking
	// write path never uses it; it always recounts from persisted state.
	GetAvailability(ctx context.Context, id uuid.UUID) (int, error)
}

// FlightView is the read model exposed to the API: the flight plus its
// derived available-seat count.
type FlightView struct {
	domain.Flight
	AvailableSeats int
}

// FlightCache is the slice of the cache this service consumes.
type FlightCache interface {
	GetAvailability(ctx context.Context, flightID uuid.UUID) (int, bool, error)
	SetAvailability(ctx context.Context, flightID uuid.UUID, seats int) error
}

// ConfirmedCounter reports the confirmed-seat count for a flight from
// persisted bookings; it is the source of truth the cache memoizes.
type ConfirmedCounter interface {
	CountConfirmed(ctx context.Context, flightID uuid.UUID) (int, error)
}

type FlightService struct {
	repo     repository.FlightRepository
	bookings ConfirmedCounter
	cache    FlightCache
	log      *logrus.Logger
}

func NewFlightService(repo repository.FlightRepository, bookings ConfirmedCounter, cache FlightCache) *FlightService {
	return &FlightService{repo: repo, bookings: bookings, cache: cache, log: logger.Get()}
}

func (s *FlightService) List(ctx context.Context, filter repository.FlightFilter) ([]FlightView, error) {
	flights, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]FlightView, 0, len(flights))
	for _, f := range flights {
		available, err := s.availableSeats(ctx, &f)
		if err != nil {
			return nil, err
		}
		views = append(views, FlightView{Flight: f, AvailableSeats: available})
	}
	return views, nil
}

func (s *FlightService) GetByID(ctx context.Context, id uuid.UUID) (*FlightView, error) {
	flight, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	available, err := s.availableSeats(ctx, flight)
	if err != nil {
		return nil, err
	}
	return &FlightView{Flight: *flight, AvailableSeats: available}, nil
}

// GetAvailability returns a cached value when present, otherwise computes
// from persisted state and stores the result. A missing flight propagates
// without populating the cache. Redis trouble degrades to recompute.
func (s *FlightService) GetAvailability(ctx context.Context, id uuid.UUID) (int, error) {
	if s.cache != nil {
		seats, hit, err := s.cache.GetAvailability(ctx, id)
		if err != nil {
			s.log.WithField("flight_id", id).Warnf("availability cache read failed, recomputing: %v", err)
		} else if hit {
			return seats, nil
		}
	}

	flight, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	available, err := s.availableSeats(ctx, flight)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.SetAvailability(ctx, id, available); err != nil {
			s.log.WithField("flight_id", id).Warnf("availability cache write failed: %v", err)
		}
	}
	return available, nil
}

func (s *FlightService) availableSeats(ctx context.Context, flight *domain.Flight) (int, error) {
	confirmed, err := s.bookings.CountConfirmed(ctx, flight.ID)
	if err != nil {
		return 0, err
	}
	available := flight.TotalSeats - confirmed
	if available < 0 {
		available = 0
	}
	return available, nil
}

var _ FlightUseCase = (*FlightService)(nil)
