package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPGateway posts confirmation requests to the legacy system over HTTP.
// The payload mirrors the SOAP structure the legacy side expects, flattened
// to JSON.
type HTTPGateway struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

func NewHTTPGateway(url string, timeout time.Duration) *HTTPGateway {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPGateway{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

type confirmationPayload struct {
	BookingRequest struct {
		PassengerDetails struct {
			FirstName string `json:"firstName"`
			LastName  string `json:"lastName"`
			Email     string `json:"email"`
			DOB       string `json:"dob"`
		} `json:"passengerDetails"`
		FlightDetails struct {
			FlightNumber string `json:"flightNumber"`
			Origin       string `json:"origin"`
			Destination  string `json:"destination"`
			Departure    string `json:"departure"`
		} `json:"flightDetails"`
		InternalBookingRef string `json:"internalBookingRef"`
	} `json:"bookingRequest"`
}

type confirmationResponse struct {
	ExternalRef string `json:"external_ref"`
	Error       string `json:"error"`
}

func (g *HTTPGateway) Confirm(ctx context.Context, req Request) Result {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var payload confirmationPayload
	payload.BookingRequest.PassengerDetails.FirstName = req.Passenger.FirstName
	payload.BookingRequest.PassengerDetails.LastName = req.Passenger.LastName
	payload.BookingRequest.PassengerDetails.Email = req.Passenger.Email
	payload.BookingRequest.PassengerDetails.DOB = req.Passenger.DateOfBirth.Format("2006-01-02")
	payload.BookingRequest.FlightDetails.FlightNumber = req.Flight.FlightNumber
	payload.BookingRequest.FlightDetails.Origin = req.Flight.Origin
	payload.BookingRequest.FlightDetails.Destination = req.Flight.Destination
	payload.BookingRequest.FlightDetails.Departure = req.Flight.DepartureTime.Format(time.RFC3339)
	payload.BookingRequest.InternalBookingRef = req.BookingID.String()

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{Error: fmt.Sprintf("encode confirmation request: %v", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return Result{Error: fmt.Sprintf("build confirmation request: %v", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return Result{Error: fmt.Sprintf("network error contacting external service: %v", err)}
	}
	defer resp.Body.Close()

	var parsed confirmationResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Result{Error: fmt.Sprintf("decode confirmation response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || parsed.ExternalRef == "" {
		msg := parsed.Error
		if msg == "" {
			msg = fmt.Sprintf("external service returned status %d", resp.StatusCode)
		}
		return Result{Error: msg}
	}

	return Result{Success: true, ExternalRef: parsed.ExternalRef}
}

var _ ConfirmationGateway = (*HTTPGateway)(nil)
