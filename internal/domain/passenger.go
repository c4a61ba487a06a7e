package domain

import (
	"time"

	"github.com/google/uuid"
)

type Passenger struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	Email       string
	DateOfBirth time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
