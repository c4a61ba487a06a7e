package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/skyfare/skyfare/config"
	"github.com/skyfare/skyfare/internal/domain"
	"github.com/stretchr/testify/assert"
)

func testRequest() Request {
	return Request{
		BookingID: uuid.New(),
		Reference: "K7Q2ZD",
		Passenger: domain.Passenger{
			FirstName:   "John",
			LastName:    "Doe",
			Email:       "john.doe@example.com",
			DateOfBirth: time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		Flight: domain.Flight{
			FlightNumber:  "SA101",
			Origin:        "Johannesburg",
			Destination:   "Cape Town",
			DepartureTime: time.Now().Add(24 * time.Hour),
		},
	}
}

func TestSimulatedGateway_AlwaysSucceeds(t *testing.T) {
	g := NewSimulatedGateway(1.0, 42)

	for i := 0; i < 20; i++ {
		res := g.Confirm(context.Background(), testRequest())
		assert.True(t, res.Success)
		assert.True(t, strings.HasPrefix(res.ExternalRef, "EXT-K7Q2ZD-"))
		assert.Empty(t, res.Error)
	}
}

func TestSimulatedGateway_DeterministicSeed(t *testing.T) {
	a := NewSimulatedGateway(0.5, 7)
	b := NewSimulatedGateway(0.5, 7)

	for i := 0; i < 50; i++ {
		ra := a.Confirm(context.Background(), testRequest())
		rb := b.Confirm(context.Background(), testRequest())
		assert.Equal(t, ra, rb)
	}
}

func TestSimulatedGateway_FailureOutcome(t *testing.T) {
	// successRate just above zero: the first roll from seed 1 exceeds it.
	g := NewSimulatedGateway(0.0000001, 1)

	res := g.Confirm(context.Background(), testRequest())

	assert.False(t, res.Success)
	assert.Empty(t, res.ExternalRef)
	assert.Contains(t, res.Error, "external service error")
}

func TestHTTPGateway_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"external_ref": "EXT-REMOTE-1234"}`))
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, time.Second)
	res := g.Confirm(context.Background(), testRequest())

	assert.True(t, res.Success)
	assert.Equal(t, "EXT-REMOTE-1234", res.ExternalRef)
}

func TestHTTPGateway_RemoteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error": "capacity exceeded"}`))
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, time.Second)
	res := g.Confirm(context.Background(), testRequest())

	assert.False(t, res.Success)
	assert.Equal(t, "capacity exceeded", res.Error)
}

func TestHTTPGateway_TransportError(t *testing.T) {
	// Nothing listens here; the dial fails and must fold into a Result.
	g := NewHTTPGateway("http://127.0.0.1:1", 500*time.Millisecond)

	res := g.Confirm(context.Background(), testRequest())

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "network error")
}

func TestHTTPGateway_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"external_ref": "EXT-LATE-0001"}`))
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, 50*time.Millisecond)
	res := g.Confirm(context.Background(), testRequest())

	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}

func TestNew_SelectsByMode(t *testing.T) {
	sim := New(config.GatewayConfig{Mode: "simulated", SuccessRate: 0.9})
	assert.IsType(t, &SimulatedGateway{}, sim)

	httpGw := New(config.GatewayConfig{Mode: "http", URL: "http://example.com", TimeoutSeconds: 5})
	assert.IsType(t, &HTTPGateway{}, httpGw)
}
