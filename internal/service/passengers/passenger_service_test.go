package passengers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/skyfare/skyfare/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPassengerRepository struct {
	mock.Mock
}

func (m *MockPassengerRepository) Create(ctx context.Context, passenger *domain.Passenger) error {
	args := m.Called(ctx, passenger)
	return args.Error(0)
}

func (m *MockPassengerRepository) List(ctx context.Context) ([]domain.Passenger, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Passenger), args.Error(1)
}

func (m *MockPassengerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Passenger, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Passenger), args.Error(1)
}

func (m *MockPassengerRepository) GetByEmail(ctx context.Context, email string) (*domain.Passenger, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Passenger), args.Error(1)
}

func (m *MockPassengerRepository) Update(ctx context.Context, passenger *domain.Passenger) error {
	args := m.Called(ctx, passenger)
	return args.Error(0)
}

func (m *MockPassengerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func validInput() PassengerInput {
	return PassengerInput{
		FirstName:   "Jane",
		LastName:    "Smith",
		Email:       "jane.smith@example.com",
		DateOfBirth: time.Date(1985, 3, 20, 0, 0, 0, 0, time.UTC),
	}
}

func TestPassengerService_Create(t *testing.T) {
	mockRepo := &MockPassengerRepository{}
	service := NewPassengerService(mockRepo)

	ctx := context.Background()
	mockRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

	passenger, err := service.Create(ctx, validInput())

	assert.NoError(t, err)
	assert.Equal(t, "jane.smith@example.com", passenger.Email)
	mockRepo.AssertExpectations(t)
}

func TestPassengerService_Create_ValidationErrors(t *testing.T) {
	mockRepo := &MockPassengerRepository{}
	service := NewPassengerService(mockRepo)

	testCases := []struct {
		name   string
		mutate func(*PassengerInput)
	}{
		{"missing first name", func(in *PassengerInput) { in.FirstName = "" }},
		{"missing last name", func(in *PassengerInput) { in.LastName = "" }},
		{"missing email", func(in *PassengerInput) { in.Email = "" }},
		{"missing date of birth", func(in *PassengerInput) { in.DateOfBirth = time.Time{} }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)

			passenger, err := service.Create(context.Background(), input)

			assert.Error(t, err)
			assert.Nil(t, passenger)
		})
	}
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPassengerService_Update(t *testing.T) {
	mockRepo := &MockPassengerRepository{}
	service := NewPassengerService(mockRepo)

	ctx := context.Background()
	existing := &domain.Passenger{
		ID:          uuid.New(),
		FirstName:   "Jane",
		LastName:    "Smith",
		Email:       "jane.smith@example.com",
		DateOfBirth: time.Date(1985, 3, 20, 0, 0, 0, 0, time.UTC),
	}

	mockRepo.On("GetByID", ctx, existing.ID).Return(existing, nil).Once()
	mockRepo.On("Update", ctx, mock.Anything).Return(nil).Once()

	input := validInput()
	input.Email = "jane.doe@example.com"

	updated, err := service.Update(ctx, existing.ID, input)

	assert.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", updated.Email)
	// Identity is preserved across contact updates.
	assert.Equal(t, existing.ID, updated.ID)
}

func TestPassengerService_Update_NotFound(t *testing.T) {
	mockRepo := &MockPassengerRepository{}
	service := NewPassengerService(mockRepo)

	ctx := context.Background()
	id := uuid.New()
	mockRepo.On("GetByID", ctx, id).Return(nil, domain.ErrNotFound).Once()

	updated, err := service.Update(ctx, id, validInput())

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
