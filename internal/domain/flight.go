package domain

import (
	"time"

	"github.com/google/uuid"
)

type Flight struct {
	ID            uuid.UUID
	FlightNumber  string
	Origin        string
	Destination   string
	DepartureTime time.Time
	ArrivalTime   time.Time
	TotalSeats    int
	PriceCents    int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
