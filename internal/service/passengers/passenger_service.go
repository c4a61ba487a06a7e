package passengers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/skyfare/skyfare/internal/domain"
	"github.com/skyfare/skyfare/internal/repository"
)

type PassengerUseCase interface {
	Create(ctx context.Context, input PassengerInput) (*domain.Passenger, error)
	List(ctx context.Context) ([]domain.Passenger, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Passenger, error)
	Update(ctx context.Context, id uuid.UUID, input PassengerInput) (*domain.Passenger, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PassengerInput struct {
	FirstName   string
	LastName    string
	Email       string
	DateOfBirth time.Time
}

func (in PassengerInput) validate() error {
	if in.FirstName == "" || in.LastName == "" {
		return errors.New("first and last name are required")
	}
	if in.Email == "" {
		return errors.New("email is required")
	}
	if in.DateOfBirth.IsZero() {
		return errors.New("date of birth is required")
	}
	return nil
}

type PassengerService struct {
	repo repository.PassengerRepository
}

func NewPassengerService(repo repository.PassengerRepository) *PassengerService {
	return &PassengerService{repo: repo}
}

func (s *PassengerService) Create(ctx context.Context, input PassengerInput) (*domain.Passenger, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	passenger := &domain.Passenger{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		DateOfBirth: input.DateOfBirth,
	}
	if err := s.repo.Create(ctx, passenger); err != nil {
		return nil, err
	}
	return passenger, nil
}

func (s *PassengerService) List(ctx context.Context) ([]domain.Passenger, error) {
	return s.repo.List(ctx)
}

func (s *PassengerService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Passenger, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PassengerService) Update(ctx context.Context, id uuid.UUID, input PassengerInput) (*domain.Passenger, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	passenger, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	passenger.FirstName = input.FirstName
	passenger.LastName = input.LastName
	passenger.Email = input.Email
	passenger.DateOfBirth = input.DateOfBirth
	if err := s.repo.Update(ctx, passenger); err != nil {
		return nil, err
	}
	return passenger, nil
}

func (s *PassengerService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

var _ PassengerUseCase = (*PassengerService)(nil)
