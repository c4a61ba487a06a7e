// Package gateway integrates with the legacy reservation system that must
// acknowledge every booking. The workflow only ever sees a Result: the
// call is bounded by a timeout and transport failures are folded into a
// failure outcome, never returned as errors.
package gateway

import (
	"context"

	"github.com/google/uuid"
	"github.com/skyfare/skyfare/config"
	"github.com/skyfare/skyfare/internal/domain"
)

// Request carries everything the legacy system needs to acknowledge a
// booking.
type Request struct {
	BookingID uuid.UUID
	Reference string
	Passenger domain.Passenger
	Flight    domain.Flight
}

// Result is the outcome of a confirmation attempt. Exactly one of
// ExternalRef (success) or Error (failure) is set.
type Result struct {
	Success     bool
	ExternalRef string
	Error       string
}

type ConfirmationGateway interface {
	Confirm(ctx context.Context, req Request) Result
}

// New selects the gateway implementation from configuration. Anything but
// mode "http" gets the simulated gateway.
func New(cfg config.GatewayConfig) ConfirmationGateway {
	if cfg.Mode == "http" {
		return NewHTTPGateway(cfg.URL, cfg.Timeout())
	}
	return NewSimulatedGateway(cfg.SuccessRate, cfg.Seed)
}
