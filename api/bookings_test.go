package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skyfare/skyfare/internal/domain"
	"github.com/skyfare/skyfare/internal/service/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase.
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, id uuid.UUID) (*domain.BookingDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingDetail), args.Error(1)
}

func (m *MockBookingUseCase) ListBookings(ctx context.Context) ([]domain.BookingDetail, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.BookingDetail), args.Error(1)
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	passengerID := uuid.New()
	flightID := uuid.New()
	body, _ := json.Marshal(map[string]string{
		"passenger_id": passengerID.String(),
		"flight_id":    flightID.String(),
	})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	created := &domain.Booking{
		ID:          uuid.New(),
		PassengerID: passengerID,
		FlightID:    flightID,
		Reference:   "K7Q2ZD",
		Status:      domain.BookingStatusConfirmed,
		ExternalRef: "EXT-K7Q2ZD-1234",
	}
	mockService.On("CreateBooking", c.Request.Context(), booking.CreateBookingInput{
		PassengerID: passengerID,
		FlightID:    flightID,
	}).Return(created, nil).Once()

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "K7Q2ZD", resp.Reference)
	assert.Equal(t, "CONFIRMED", resp.Status)
	assert.Equal(t, "EXT-K7Q2ZD-1234", resp.ExternalRef)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_NoAvailability(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(map[string]string{
		"passenger_id": uuid.NewString(),
		"flight_id":    uuid.NewString(),
	})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("CreateBooking", c.Request.Context(), mock.Anything).
		Return(nil, domain.ErrNoAvailability).Once()

	handler.create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingHandler_create_ExternalFailure(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(map[string]string{
		"passenger_id": uuid.NewString(),
		"flight_id":    uuid.NewString(),
	})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	failed := &domain.Booking{
		ID:        uuid.New(),
		Reference: "K7Q2ZD",
		Status:    domain.BookingStatusFailed,
	}
	mockService.On("CreateBooking", c.Request.Context(), mock.Anything).
		Return(failed, fmt.Errorf("capacity exceeded: %w", domain.ErrExternalFailure)).Once()

	handler.create(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "FAILED")
	assert.Contains(t, w.Body.String(), "capacity exceeded")
}

func TestBookingHandler_create_InvalidBody(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader([]byte(`{"flight_id": 42}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestBookingHandler_cancel(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	bookingID := uuid.New()
	c.Params = gin.Params{{Key: "id", Value: bookingID.String()}}
	c.Request = httptest.NewRequest("POST", "/bookings/"+bookingID.String()+"/cancel", nil)

	cancelled := &domain.Booking{ID: bookingID, Reference: "K7Q2ZD", Status: domain.BookingStatusCancelled}
	mockService.On("CancelBooking", c.Request.Context(), bookingID).Return(cancelled, nil).Once()

	handler.cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CANCELLED")
	mockService.AssertExpectations(t)
}

func TestBookingHandler_cancel_InvalidTransition(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	bookingID := uuid.New()
	c.Params = gin.Params{{Key: "id", Value: bookingID.String()}}
	c.Request = httptest.NewRequest("POST", "/bookings/"+bookingID.String()+"/cancel", nil)

	mockService.On("CancelBooking", c.Request.Context(), bookingID).
		Return(nil, fmt.Errorf("cannot cancel booking with status CANCELLED: %w", domain.ErrInvalidTransition)).Once()

	handler.cancel(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestBookingHandler_updateStatus(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	bookingID := uuid.New()
	c.Params = gin.Params{{Key: "id", Value: bookingID.String()}}
	body, _ := json.Marshal(map[string]string{"status": "CONFIRMED"})
	c.Request = httptest.NewRequest("PATCH", "/bookings/"+bookingID.String()+"/status", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	updated := &domain.Booking{ID: bookingID, Reference: "K7Q2ZD", Status: domain.BookingStatusConfirmed}
	mockService.On("UpdateBookingStatus", c.Request.Context(), bookingID, domain.BookingStatusConfirmed).
		Return(updated, nil).Once()

	handler.updateStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_get_NotFound(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	bookingID := uuid.New()
	c.Params = gin.Params{{Key: "id", Value: bookingID.String()}}
	c.Request = httptest.NewRequest("GET", "/bookings/"+bookingID.String(), nil)

	mockService.On("GetBooking", c.Request.Context(), bookingID).Return(nil, domain.ErrNotFound).Once()

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_get_InvalidID(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	c.Request = httptest.NewRequest("GET", "/bookings/not-a-uuid", nil)

	handler.get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "GetBooking", mock.Anything, mock.Anything)
}
