package email

import (
	"context"

	"github.com/skyfare/skyfare/internal/kafka"
	"github.com/skyfare/skyfare/internal/logger"
)

// Sender is a stand-in delivery channel: it logs the notification instead of
// talking to an SMTP relay.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	logger.Get().WithFields(map[string]interface{}{
		"to":        event.PassengerEmail,
		"type":      event.Type,
		"reference": event.Reference,
		"flight":    event.FlightNumber,
		"status":    event.Status,
	}).Info("sending booking notification email")
	return nil
}
