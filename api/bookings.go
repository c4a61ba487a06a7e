package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skyfare/skyfare/internal/domain"
	"github.com/skyfare/skyfare/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	PassengerID uuid.UUID `json:"passenger_id" binding:"required"`
	FlightID    uuid.UUID `json:"flight_id" binding:"required"`
	SeatNumber  string    `json:"seat_number"`
}

type updateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// bookingResponse is the projection returned by mutation endpoints.
type bookingResponse struct {
	ID          string `json:"id"`
	Reference   string `json:"reference"`
	PassengerID string `json:"passenger_id"`
	FlightID    string `json:"flight_id"`
	Status      string `json:"status"`
	SeatNumber  string `json:"seat_number,omitempty"`
	ExternalRef string `json:"external_system_ref,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// bookingDetailResponse is the read projection with nested records.
type bookingDetailResponse struct {
	ID          string            `json:"id"`
	Reference   string            `json:"reference"`
	Status      string            `json:"status"`
	SeatNumber  string            `json:"seat_number,omitempty"`
	ExternalRef string            `json:"external_system_ref,omitempty"`
	Passenger   passengerResponse `json:"passenger"`
	Flight      flightResponse    `json:"flight"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:          b.ID.String(),
		Reference:   b.Reference,
		PassengerID: b.PassengerID.String(),
		FlightID:    b.FlightID.String(),
		Status:      string(b.Status),
		SeatNumber:  b.SeatNumber,
		ExternalRef: b.ExternalRef,
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   b.UpdatedAt.Format(time.RFC3339),
	}
}

func toBookingDetailResponse(d *domain.BookingDetail) bookingDetailResponse {
	return bookingDetailResponse{
		ID:          d.ID.String(),
		Reference:   d.Reference,
		Status:      string(d.Status),
		SeatNumber:  d.SeatNumber,
		ExternalRef: d.ExternalRef,
		Passenger:   toPassengerResponse(&d.Passenger),
		Flight:      toFlightResponse(&d.Flight, nil),
		CreatedAt:   d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   d.UpdatedAt.Format(time.RFC3339),
	}
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("/:id/cancel", h.cancel)
	router.PATCH("/:id/status", h.updateStatus)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		PassengerID: req.PassengerID,
		FlightID:    req.FlightID,
		SeatNumber:  req.SeatNumber,
	})
	if err != nil {
		if errors.Is(err, domain.ErrExternalFailure) && created != nil {
			// The record is durable; only the external confirmation failed.
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "booking created, but external confirmation failed",
				"detail":  err.Error(),
				"booking": toBookingResponse(created),
			})
			return
		}
		respondError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) list(c *gin.Context) {
	details, err := h.service.ListBookings(c.Request.Context())
	if err != nil {
		respondError(c, err, http.StatusInternalServerError)
		return
	}

	resp := make([]bookingDetailResponse, 0, len(details))
	for i := range details {
		resp = append(resp, toBookingDetailResponse(&details[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	detail, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, toBookingDetailResponse(detail))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	cancelled, err := h.service.CancelBooking(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, http.StatusBadRequest)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(cancelled))
}

func (h *BookingHandler) updateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var req updateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.UpdateBookingStatus(c.Request.Context(), id, domain.BookingStatus(req.Status))
	if err != nil {
		respondError(c, err, http.StatusBadRequest)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}
